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

package watch

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vs49688/mailwatch/imap"
	"github.com/vs49688/mailwatch/imap/client"
	"github.com/vs49688/mailwatch/internal"
	"github.com/vs49688/mailwatch/watcher"
)

func TestRun(t *testing.T) {
	_, addr := internal.BuildTestIMAPServer(t)

	conn := imap.ConnectionConfig{
		HostPort: addr,
		Auth:     imap.NewNormalAuthenticator("username", "password"),
	}

	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []Target{{
			Label: imap.InboxName,
			Config: watcher.Config{
				Connection:       conn,
				Mailbox:          imap.InboxName,
				FallbackInterval: 50 * time.Millisecond,
			},
		}}, &client.Factory{}, out)
	}()

	// Give the watcher time to record the starting UID.
	time.Sleep(200 * time.Millisecond)
	internal.AddTestMessage(t, addr, internal.MakeTestMessage(t, "<01@localhost>", "Hello"))

	assert.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte("INBOX\t1\tfrom@example.com\tHello\n"))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRunBadMailbox(t *testing.T) {
	_, addr := internal.BuildTestIMAPServer(t)

	conn := imap.ConnectionConfig{
		HostPort: addr,
		Auth:     imap.NewNormalAuthenticator("username", "password"),
	}

	err := Run(context.Background(), []Target{
		{Label: "a", Config: watcher.Config{Connection: conn, Mailbox: imap.InboxName, FallbackInterval: time.Minute}},
		{Label: "b", Config: watcher.Config{Connection: conn, Mailbox: "Nonexistent", FallbackInterval: time.Minute}},
	}, &client.Factory{}, &syncBuffer{})

	var serr *imap.ServerError
	assert.ErrorAs(t, err, &serr)
}
