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
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/vs49688/mailwatch/imap"
)

var literalRe = regexp.MustCompile(`\{(\d+)\+?\}$`)

const maxLiteralSize = 64 << 20

// Line is a single server response. Text holds every framed segment
// concatenated, with the {n} markers left in place; Literals holds the
// literal payloads in the order they appeared.
type Line struct {
	Text     string
	Literals [][]byte

	segments []string
}

// Raw reassembles the line as it appeared on the wire, minus the final CRLF.
func (l *Line) Raw() string {
	if len(l.Literals) == 0 {
		return l.Text
	}

	var sb strings.Builder
	for i, seg := range l.segments {
		sb.WriteString(seg)
		if i < len(l.Literals) {
			sb.WriteString("\r\n")
			sb.Write(l.Literals[i])
		}
	}
	return sb.String()
}

type reader struct {
	mu sync.Mutex
	br *bufio.Reader
}

func newReader(r io.Reader) *reader {
	return &reader{br: bufio.NewReader(r)}
}

func (r *reader) readLine() (string, error) {
	s, err := r.br.ReadString('\n')
	if err != nil {
		return "", &imap.TransportError{Op: "read", Err: err}
	}

	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}

func (r *reader) readExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return nil, &imap.TransportError{Op: "read literal", Err: err}
	}
	return buf, nil
}

// literalSize reports the size of the literal announced at the end of s.
// Announcements above maxLiteralSize are protocol errors.
func literalSize(s string) (int, bool, error) {
	m := literalRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false, nil
	}

	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil || n > maxLiteralSize {
		return 0, false, &imap.ProtocolError{Line: s, Reason: fmt.Sprintf("literal of %v bytes exceeds %v", m[1], maxLiteralSize)}
	}
	return int(n), true, nil
}

// readResponse reads one logical response, following any literals.
func (r *reader) readResponse() (*Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seg, err := r.readLine()
	if err != nil {
		return nil, err
	}

	l := &Line{segments: []string{seg}}
	for {
		n, ok, err := literalSize(seg)
		if err != nil {
			return nil, err
		} else if !ok {
			break
		}

		lit, err := r.readExact(n)
		if err != nil {
			return nil, err
		}
		l.Literals = append(l.Literals, lit)

		// Either a bare ")" or more items, possibly another literal.
		if seg, err = r.readLine(); err != nil {
			return nil, err
		}
		l.segments = append(l.segments, seg)
	}

	l.Text = strings.Join(l.segments, "")
	return l, nil
}
