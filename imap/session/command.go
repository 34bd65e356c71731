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
	"strings"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/vs49688/mailwatch/imap"
)

// Response is everything the server sent for one command.
type Response struct {
	Tag      string
	Untagged []*Line
	Status   string
	Text     string
}

type command struct {
	name string
	text string

	// shown replaces text in the debug trace.
	shown string

	// auth marks LOGIN and AUTHENTICATE, whose rejections are AuthErrors.
	auth bool

	// cont handles a "+" continuation. It may write to the connection.
	cont func(text string) error
}

// run issues a command and collects its response. The caller must hold
// the session lock with push mode paused.
func (s *Session) run(cmd *command) (*Response, error) {
	if err := s.conn.acquire(); err != nil {
		return nil, err
	}
	defer s.conn.release()

	tag := s.conn.nextTag()
	shown := cmd.shown
	if shown != "" {
		shown = tag + " " + shown
	}

	if err := s.conn.send(tag+" "+cmd.text, shown); err != nil {
		return nil, err
	}

	resp := &Response{Tag: tag}
	for {
		l, err := s.conn.receive()
		if err != nil {
			return nil, err
		}

		kind, status, rest := classify(l.Text, tag)
		switch kind {
		case lineContinuation:
			if cmd.cont == nil {
				return nil, &imap.ProtocolError{Line: l.Text, Reason: "unexpected continuation"}
			}
			if err := cmd.cont(rest); err != nil {
				return nil, err
			}
		case lineUntagged:
			s.observe(rest)
			resp.Untagged = append(resp.Untagged, l)
		case lineTagged:
			resp.Status, resp.Text = status, rest
			s.observeCode(rest)
			goto done
		default:
			return nil, &imap.ProtocolError{Line: l.Text, Reason: "unclassifiable response"}
		}
	}

done:
	if resp.Status != "OK" {
		serr := &imap.ServerError{Command: cmd.name, Status: resp.Status, Text: resp.Text}
		s.log.WithFields(log.Fields{
			"command": cmd.name,
			"status":  resp.Status,
			"text":    resp.Text,
		}).Debug("session_command_rejected")

		if cmd.auth {
			return resp, &imap.AuthError{ServerError: serr}
		}
		return resp, serr
	}

	return resp, nil
}

// observe picks up state the server volunteers in untagged responses.
func (s *Session) observe(rest string) {
	word, args := splitWord(rest)
	switch strings.ToUpper(word) {
	case "CAPABILITY":
		s.setCapabilities(strings.Fields(args))
	case "BYE":
		atomic.StoreInt32(&s.bye, 1)
		s.log.WithField("text", args).Warn("session_bye_received")
	case "OK", "NO", "BAD", "PREAUTH":
		s.observeCode(args)
	}
}

// observeCode handles a [CAPABILITY ...] response code.
func (s *Session) observeCode(text string) {
	code, args, ok := responseCode(text)
	if !ok || !strings.EqualFold(code, "CAPABILITY") {
		return
	}
	s.setCapabilities(strings.Fields(args))
}

func (s *Session) setCapabilities(caps []string) {
	set := make(map[string]struct{}, len(caps))
	for _, c := range caps {
		set[strings.ToUpper(c)] = struct{}{}
	}
	s.caps = set
}

// responseCode extracts "CODE args" from a leading "[CODE args]".
func responseCode(text string) (string, string, bool) {
	if !strings.HasPrefix(text, "[") {
		return "", "", false
	}

	end := strings.IndexByte(text, ']')
	if end < 0 {
		return "", "", false
	}

	code, args := splitWord(text[1:end])
	return strings.ToUpper(code), args, true
}
