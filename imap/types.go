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

//go:generate mockgen -source=types.go -destination=mocks/mock_imap.go

package imap

import (
	"crypto/tls"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
)

const (
	InboxName = "INBOX"

	CapIdle          = "IDLE"
	CapSASLIR        = "SASL-IR"
	CapLoginDisabled = "LOGINDISABLED"
	CapIMAP4rev1     = "IMAP4REV1"
)

// Authenticatable is anything that can perform a LOGIN or a SASL exchange.
type Authenticatable interface {
	Login(username, password string) error

	Authenticate(client sasl.Client) error
}

type Authenticator interface {
	Authenticate(c Authenticatable) error
}

type ConnectionConfig struct {
	HostPort  string
	Auth      Authenticator
	Mailbox   string
	TLS       bool
	TLSConfig *tls.Config
	Debug     bool

	// KeepaliveInterval is how often IDLE is interrupted for a NOOP.
	// Zero selects the session default.
	KeepaliveInterval time.Duration
}

type MailboxStatus struct {
	Name           string
	Flags          []string
	PermanentFlags []string
	Messages       uint32
	Recent         uint32
	Unseen         uint32
	UIDNext        uint32
	UIDValidity    uint32
	ReadOnly       bool
}

type Message struct {
	UID    uint32
	SeqNum uint32
	Flags  []string
	Size   uint32
	Header mail.Header

	// Entity is only set when the full message was fetched.
	Entity *message.Entity
}

type EventKind int

const (
	EventNewMessage EventKind = iota
	EventMessageRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventNewMessage:
		return "new_message"
	case EventMessageRemoved:
		return "message_removed"
	default:
		return "unknown"
	}
}

// Event is raised from push mode. Count is the number carried by the
// EXISTS/EXPUNGE line, UID the highest UID in the mailbox at dispatch time.
type Event struct {
	Kind    EventKind
	Mailbox string
	Count   uint32
	UID     uint32
}

// UIDResolver finds the highest UID in a mailbox. It is consulted for
// every push event.
type UIDResolver interface {
	HighestUID(mailbox string) (uint32, error)
}

type Handler interface {
	HandleEvent(ev Event)
}

type HandlerFunc func(ev Event)

func (f HandlerFunc) HandleEvent(ev Event) {
	f(ev)
}

type Subscription struct {
	ID      uint64
	Mailbox string
}

type StoreOp string

const (
	StoreAdd     StoreOp = "+FLAGS.SILENT"
	StoreRemove  StoreOp = "-FLAGS.SILENT"
	StoreReplace StoreOp = "FLAGS.SILENT"
)

const (
	SeenFlag    = `\Seen`
	DeletedFlag = `\Deleted`
	FlaggedFlag = `\Flagged`
)

type Client interface {
	Capabilities() ([]string, error)

	Supports(name string) (bool, error)

	Select(mailbox string) error

	Mailbox() *MailboxStatus

	Noop() error

	Status(mailbox string) (*MailboxStatus, error)

	HighestUID(mailbox string) (uint32, error)

	UIDSearch(mailbox string, criteria string) ([]uint32, error)

	FetchHeaders(mailbox string, uids []uint32) ([]*Message, error)

	FetchMessage(mailbox string, uid uint32) (*Message, error)

	FetchBodyStructure(mailbox string, uid uint32) ([]*BodyPart, error)

	UIDStore(mailbox string, uids []uint32, op StoreOp, flags []string) error

	Expunge(mailbox string) error

	Append(mailbox string, flags []string, date time.Time, body []byte) error

	Subscribe(mailbox string, h Handler) (*Subscription, error)

	Unsubscribe(sub *Subscription) error

	Pause() error

	Resume() error

	Logout() error

	Close() error
}

type Factory interface {
	NewClient(cfg *ConnectionConfig) (Client, error)
}
