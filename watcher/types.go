/*
 * MailWatch - Copyright (C) 2022 Zane van Iperen.
 *    Contact: zane@zanevaniperen.com
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package watcher

import (
	"time"

	"github.com/vs49688/mailwatch/imap"
)

const (
	DefaultBatchSize        = 15
	DefaultFallbackInterval = 5 * time.Minute
)

type Config struct {
	Connection imap.ConnectionConfig
	// Mailbox overrides Connection.Mailbox. Empty means INBOX.
	Mailbox string
	// BatchSize caps the number of headers fetched per command.
	BatchSize uint
	// FallbackInterval is how often to look for new mail when no
	// push event has arrived. Negative disables it.
	FallbackInterval time.Duration
	Channel          chan<- *imap.Message
}

type Watcher struct {
	client  imap.Client
	mailbox string
	out     chan<- *imap.Message
	sub     *imap.Subscription

	batchSize        uint
	fallbackInterval time.Duration

	// Highest UID already emitted, or present when the watcher started.
	lastUID uint32

	pending *signal
}
