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

package session

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/vs49688/mailwatch/imap"
)

// scriptServer is the far end of a net.Pipe, driven line by line by
// the test.
type scriptServer struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func (ss *scriptServer) write(lines ...string) {
	for _, l := range lines {
		if _, err := io.WriteString(ss.conn, l+"\r\n"); err != nil {
			ss.t.Errorf("write %q: %v", l, err)
			return
		}
	}
}

func (ss *scriptServer) writeRaw(b []byte) {
	if _, err := ss.conn.Write(b); err != nil {
		ss.t.Errorf("write raw: %v", err)
	}
}

func (ss *scriptServer) readLine() string {
	l, err := ss.r.ReadString('\n')
	if err != nil {
		ss.t.Errorf("read: %v", err)
		return ""
	}
	return strings.TrimSuffix(l, "\r\n")
}

// expect reads a tagged command and checks its text, returning the tag.
func (ss *scriptServer) expect(text string) string {
	l := ss.readLine()
	tag, rest := splitWord(l)
	assert.Equal(ss.t, text, rest, "unexpected command %q", l)
	return tag
}

func (ss *scriptServer) expectRaw(text string) {
	assert.Equal(ss.t, text, ss.readLine())
}

// serve runs the script on its own goroutine and returns a channel
// closed when it finishes.
func (ss *scriptServer) serve(script func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		script()
	}()
	return done
}

func wait(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server script")
	}
}

func newTestSession(t *testing.T, greeting string, opts *Options) (*Session, *scriptServer) {
	log.SetLevel(log.TraceLevel)

	client, server := net.Pipe()
	ss := &scriptServer{t: t, conn: server, r: bufio.NewReader(server)}

	go ss.write(greeting)

	if opts == nil {
		opts = &Options{}
	}
	opts.Debug = true
	if opts.CloseTimeout == 0 {
		opts.CloseTimeout = 100 * time.Millisecond
	}

	s, err := New(client, opts)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	t.Cleanup(func() {
		_ = server.Close()
		_ = s.Close()
	})

	return s, ss
}

const (
	greetingIdle   = "* PREAUTH [CAPABILITY IMAP4rev1 IDLE] ready"
	greetingNoIdle = "* PREAUTH [CAPABILITY IMAP4rev1] ready"
)

// startIdle subscribes h to INBOX and plays the SELECT + IDLE exchange.
// It returns the IDLE tag.
func startIdle(t *testing.T, s *Session, ss *scriptServer, h imap.Handler) string {
	t.Helper()

	var idleTag string
	done := ss.serve(func() {
		tag := ss.expect(`SELECT "INBOX"`)
		ss.write("* 0 EXISTS", "* OK [UIDNEXT 1] next", tag+" OK [READ-WRITE] selected")
		idleTag = ss.expect("IDLE")
		ss.write("+ idling")
	})

	_, err := s.Subscribe("INBOX", h)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	wait(t, done)
	return idleTag
}
