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
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/vs49688/mailwatch/imap"
)

// conn owns the byte stream. It hands out tags and guarantees that at
// most one command, IDLE included, owns the stream at a time.
type conn struct {
	rwc io.ReadWriteCloser
	r   *reader

	wmu sync.Mutex

	prefix  string
	counter uint32
	busy    int32

	debug bool
	log   *log.Entry
}

func newConn(rwc io.ReadWriteCloser, prefix string, debug bool, entry *log.Entry) *conn {
	return &conn{
		rwc:    rwc,
		r:      newReader(rwc),
		prefix: prefix,
		debug:  debug,
		log:    entry,
	}
}

func (c *conn) nextTag() string {
	return fmt.Sprintf("%v%04d", c.prefix, atomic.AddUint32(&c.counter, 1))
}

func (c *conn) acquire() error {
	if !atomic.CompareAndSwapInt32(&c.busy, 0, 1) {
		return imap.ErrCommandInFlight
	}
	return nil
}

func (c *conn) release() {
	atomic.StoreInt32(&c.busy, 0)
}

func (c *conn) inFlight() bool {
	return atomic.LoadInt32(&c.busy) != 0
}

func (c *conn) trace(dir string, text string) {
	if !c.debug {
		return
	}
	c.log.WithFields(log.Fields{"dir": dir, "line": text}).Debug("session_wire")
}

// send writes a raw line. shown replaces the text in the debug trace
// when non-empty.
func (c *conn) send(text string, shown string) error {
	if shown == "" {
		shown = text
	}
	c.trace("C", shown)

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if _, err := io.WriteString(c.rwc, text+"\r\n"); err != nil {
		return &imap.TransportError{Op: "write", Err: err}
	}
	return nil
}

// sendLiteral writes a literal payload followed by the CRLF that ends
// the command line.
func (c *conn) sendLiteral(b []byte) error {
	c.trace("C", fmt.Sprintf("<literal %v bytes>", len(b)))

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if _, err := c.rwc.Write(b); err != nil {
		return &imap.TransportError{Op: "write literal", Err: err}
	}
	if _, err := io.WriteString(c.rwc, "\r\n"); err != nil {
		return &imap.TransportError{Op: "write literal", Err: err}
	}
	return nil
}

func (c *conn) receive() (*Line, error) {
	l, err := c.r.readResponse()
	if err != nil {
		return nil, err
	}

	if c.debug {
		for i, seg := range l.segments {
			c.trace("S", seg)
			if i < len(l.Literals) {
				c.trace("S", fmt.Sprintf("<literal %v bytes>", len(l.Literals[i])))
			}
		}
	}
	return l, nil
}

func (c *conn) close() error {
	return c.rwc.Close()
}

// classify splits a line into its kind. For tagged completions, status
// and text are returned.
func classify(text string, tag string) (kind lineKind, status string, rest string) {
	switch {
	case strings.HasPrefix(text, "+"):
		return lineContinuation, "", strings.TrimSpace(text[1:])
	case strings.HasPrefix(text, "* "):
		return lineUntagged, "", text[2:]
	case tag != "" && strings.HasPrefix(text, tag+" "):
		status, rest = splitWord(text[len(tag)+1:])
		status = strings.ToUpper(status)
		switch status {
		case "OK", "NO", "BAD":
			return lineTagged, status, rest
		}
	}
	return lineUnknown, "", text
}

type lineKind int

const (
	lineUnknown lineKind = iota
	lineContinuation
	lineUntagged
	lineTagged
)

func splitWord(s string) (string, string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
