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

package client

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/vs49688/mailwatch/imap"
	"github.com/vs49688/mailwatch/internal"
)

func TestFactory(t *testing.T) {
	log.SetLevel(log.TraceLevel)

	_, addr := internal.BuildTestIMAPServer(t)

	f := &Factory{}
	s, err := f.NewSession(&imap.ConnectionConfig{
		HostPort: addr,
		Auth:     imap.NewNormalAuthenticator("username", "password"),
		Mailbox:  "INBOX",
		Debug:    true,
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, "INBOX", s.Mailbox().Name)
	assert.Equal(t, uint32(0), s.Mailbox().Messages)

	body := internal.MakeTestMessage(t, "<01@localhost>", "Test Email")
	err = s.Append("INBOX", []string{imap.SeenFlag}, time.Date(2016, 5, 11, 14, 31, 59, 0, time.UTC), body)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	uids, err := s.UIDSearch("INBOX", "ALL")
	assert.NoError(t, err)
	assert.Equal(t, []uint32{1}, uids)

	uid, err := s.HighestUID("INBOX")
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), uid)

	msgs, err := s.FetchHeaders("INBOX", uids)
	if assert.NoError(t, err) && assert.Len(t, msgs, 1) {
		assert.Equal(t, uint32(1), msgs[0].UID)
		assert.Contains(t, msgs[0].Flags, imap.SeenFlag)

		subject, err := msgs[0].Header.Subject()
		assert.NoError(t, err)
		assert.Equal(t, "Test Email", subject)
	}

	msg, err := s.FetchMessage("INBOX", 1)
	if assert.NoError(t, err) {
		text, err := io.ReadAll(msg.Entity.Body)
		assert.NoError(t, err)
		assert.Equal(t, "Привет!", string(text))
	}

	parts, err := s.FetchBodyStructure("INBOX", 1)
	if assert.NoError(t, err) && assert.Len(t, parts, 1) {
		assert.True(t, strings.EqualFold("plain", parts[0].MIMESubType))
	}

	assert.NoError(t, s.UIDStore("INBOX", uids, imap.StoreAdd, []string{imap.DeletedFlag}))
	assert.NoError(t, s.Expunge("INBOX"))

	uids, err = s.UIDSearch("INBOX", "ALL")
	assert.NoError(t, err)
	assert.Empty(t, uids)

	assert.NoError(t, s.Logout())
}

func TestFactoryPlain(t *testing.T) {
	_, addr := internal.BuildTestIMAPServer(t)

	f := &Factory{}
	c, err := f.NewClient(&imap.ConnectionConfig{
		HostPort: addr,
		Auth:     imap.NewSASLAuthenticator(sasl.NewPlainClient("", "username", "password")),
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	t.Cleanup(func() { _ = c.Close() })

	caps, err := c.Capabilities()
	assert.NoError(t, err)
	assert.Contains(t, caps, imap.CapIMAP4rev1)

	st, err := c.Status("INBOX")
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), st.Messages)
}

func TestFactoryBadPassword(t *testing.T) {
	_, addr := internal.BuildTestIMAPServer(t)

	f := &Factory{}
	_, err := f.NewClient(&imap.ConnectionConfig{
		HostPort: addr,
		Auth:     imap.NewNormalAuthenticator("username", "wrong"),
		Mailbox:  "INBOX",
	})

	var aerr *imap.AuthError
	assert.True(t, errors.As(err, &aerr))
}

func TestFactoryUnreachable(t *testing.T) {
	f := &Factory{}
	_, err := f.NewClient(&imap.ConnectionConfig{HostPort: "127.0.0.1:1"})

	assert.True(t, imap.IsTransportError(err))
}
