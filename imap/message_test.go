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

package imap

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testMessage = "From: from@example.com\r\n" +
	"To: to@example.com\r\n" +
	"Subject: Test Email\r\n" +
	"Message-ID: <01@localhost>\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"hello\r\n"

func TestParseHeader(t *testing.T) {
	msg, err := ParseHeader([]byte(testMessage[:len(testMessage)-len("hello\r\n")]))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	subject, err := msg.Header.Subject()
	assert.NoError(t, err)
	assert.Equal(t, "Test Email", subject)

	id, err := msg.Header.MessageID()
	assert.NoError(t, err)
	assert.Equal(t, "01@localhost", id)

	assert.Nil(t, msg.Entity)
}

func TestParseMessage(t *testing.T) {
	msg, err := ParseMessage([]byte(testMessage))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, uint32(len(testMessage)), msg.Size)

	subject, err := msg.Header.Subject()
	assert.NoError(t, err)
	assert.Equal(t, "Test Email", subject)

	body, err := io.ReadAll(msg.Entity.Body)
	assert.NoError(t, err)
	assert.Equal(t, "hello\r\n", string(body))
}

func TestParseMessageUnknownCharset(t *testing.T) {
	raw := "Subject: odd\r\nContent-Type: text/plain; charset=x-made-up\r\n\r\nbody\r\n"

	msg, err := ParseMessage([]byte(raw))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	subject, err := msg.Header.Subject()
	assert.NoError(t, err)
	assert.Equal(t, "odd", subject)
}
