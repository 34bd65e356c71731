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
	"time"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/utf7"
	log "github.com/sirupsen/logrus"
	"github.com/vs49688/mailwatch/imap"
)

var (
	countRe = regexp.MustCompile(`(?i)^(\d+) (EXISTS|RECENT)$`)
	fetchRe = regexp.MustCompile(`(?i)^(\d+) FETCH `)
)

// Select makes mailbox the selected one. The empty name selects the
// default mailbox. Selecting the cached mailbox costs no round trip.
func (s *Session) Select(mailbox string) error {
	return s.exclusive(func() error {
		return s.selectMailbox(mailbox)
	})
}

func (s *Session) selectMailbox(name string) error {
	if err := s.ensureAuthenticated(); err != nil {
		return err
	}

	if name == "" {
		name = s.opts.DefaultMailbox
	}

	if s.mailbox != nil && s.mailbox.Name == name {
		return nil
	}

	enc, err := encodeMailbox(name)
	if err != nil {
		return err
	}

	resp, err := s.run(&command{name: "SELECT", text: "SELECT " + enc})
	if err != nil {
		s.log.WithError(err).WithField("mailbox", name).Warn("session_select_failed")
		return err
	}

	s.mailbox = parseSelect(name, resp)
	s.log.WithFields(log.Fields{
		"mailbox":  name,
		"messages": s.mailbox.Messages,
		"uid_next": s.mailbox.UIDNext,
	}).Debug("session_selected")
	return nil
}

// Mailbox returns a copy of the cached selection, or nil.
func (s *Session) Mailbox() *imap.MailboxStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mailbox == nil {
		return nil
	}

	mb := *s.mailbox
	return &mb
}

func (s *Session) Status(mailbox string) (*imap.MailboxStatus, error) {
	var st *imap.MailboxStatus
	err := s.exclusive(func() error {
		var err error
		st, err = s.status(mailbox)
		return err
	})
	return st, err
}

func (s *Session) status(name string) (*imap.MailboxStatus, error) {
	if err := s.ensureAuthenticated(); err != nil {
		return nil, err
	}

	if name == "" {
		name = s.opts.DefaultMailbox
	}

	enc, err := encodeMailbox(name)
	if err != nil {
		return nil, err
	}

	resp, err := s.run(&command{
		name: "STATUS",
		text: "STATUS " + enc + " (MESSAGES RECENT UIDNEXT UIDVALIDITY UNSEEN)",
	})
	if err != nil {
		return nil, err
	}

	for _, l := range resp.Untagged {
		word, rest := splitWord(strings.TrimPrefix(l.Text, "* "))
		if strings.EqualFold(word, "STATUS") {
			return parseStatus(name, rest), nil
		}
	}

	return nil, &imap.ProtocolError{Reason: "no STATUS response"}
}

// HighestUID returns UIDNEXT-1 for mailbox, which is the highest UID
// that can exist in it.
func (s *Session) HighestUID(mailbox string) (uint32, error) {
	st, err := s.Status(mailbox)
	if err != nil {
		return 0, err
	}

	if st.UIDNext == 0 {
		return 0, nil
	}
	return st.UIDNext - 1, nil
}

func (s *Session) UIDSearch(mailbox string, criteria string) ([]uint32, error) {
	var uids []uint32
	err := s.exclusive(func() error {
		if err := s.selectMailbox(mailbox); err != nil {
			return err
		}

		resp, err := s.run(&command{name: "UID SEARCH", text: "UID SEARCH " + criteria})
		if err != nil {
			return err
		}

		for _, l := range resp.Untagged {
			word, rest := splitWord(strings.TrimPrefix(l.Text, "* "))
			if !strings.EqualFold(word, "SEARCH") {
				continue
			}

			for _, f := range strings.Fields(rest) {
				n, err := strconv.ParseUint(f, 10, 32)
				if err != nil {
					return &imap.ProtocolError{Line: l.Text, Reason: "bad SEARCH result"}
				}
				uids = append(uids, uint32(n))
			}
		}
		return nil
	})
	return uids, err
}

// FetchHeaders fetches the header block and flags of each UID. The
// \Seen flag is left alone.
func (s *Session) FetchHeaders(mailbox string, uids []uint32) ([]*imap.Message, error) {
	set, err := imap.SequenceSet(uids)
	if err != nil {
		return nil, err
	}

	var msgs []*imap.Message
	err = s.exclusive(func() error {
		if err := s.selectMailbox(mailbox); err != nil {
			return err
		}

		fetched, err := s.fetch(set, "(UID FLAGS BODY.PEEK[HEADER])")
		if err != nil {
			return err
		}

		for _, f := range fetched {
			msg, err := imap.ParseHeader(firstBody(f))
			if err != nil {
				return err
			}
			fillMessage(msg, f)
			msgs = append(msgs, msg)
		}
		return nil
	})
	return msgs, err
}

func (s *Session) FetchMessage(mailbox string, uid uint32) (*imap.Message, error) {
	var msg *imap.Message
	err := s.exclusive(func() error {
		if err := s.selectMailbox(mailbox); err != nil {
			return err
		}

		fetched, err := s.fetch(strconv.FormatUint(uint64(uid), 10), "(UID FLAGS BODY.PEEK[])")
		if err != nil {
			return err
		}

		for _, f := range fetched {
			if f.Uid != uid {
				continue
			}

			if msg, err = imap.ParseMessage(firstBody(f)); err != nil {
				return err
			}
			fillMessage(msg, f)
			return nil
		}

		return fmt.Errorf("uid %v: message not found", uid)
	})
	return msg, err
}

// FetchBodyStructure returns the leaf parts of a message's MIME tree.
func (s *Session) FetchBodyStructure(mailbox string, uid uint32) ([]*imap.BodyPart, error) {
	var parts []*imap.BodyPart
	err := s.exclusive(func() error {
		if err := s.selectMailbox(mailbox); err != nil {
			return err
		}

		resp, err := s.run(&command{
			name: "UID FETCH",
			text: fmt.Sprintf("UID FETCH %v (UID BODYSTRUCTURE)", uid),
		})
		if err != nil {
			return err
		}

		for _, l := range resp.Untagged {
			raw := l.Raw()
			text, ok := extractList(raw, "BODYSTRUCTURE")
			if !ok {
				continue
			}

			parts, err = imap.ParseBodyStructure(text)
			return err
		}

		return fmt.Errorf("uid %v: no body structure returned", uid)
	})
	return parts, err
}

func (s *Session) UIDStore(mailbox string, uids []uint32, op imap.StoreOp, flags []string) error {
	set, err := imap.SequenceSet(uids)
	if err != nil {
		return err
	}

	return s.exclusive(func() error {
		if err := s.selectMailbox(mailbox); err != nil {
			return err
		}

		_, err := s.run(&command{
			name: "UID STORE",
			text: fmt.Sprintf("UID STORE %v %v (%v)", set, op, strings.Join(flags, " ")),
		})
		return err
	})
}

func (s *Session) Expunge(mailbox string) error {
	return s.exclusive(func() error {
		if err := s.selectMailbox(mailbox); err != nil {
			return err
		}

		_, err := s.run(&command{name: "EXPUNGE", text: "EXPUNGE"})
		return err
	})
}

// Append uploads a message with a synchronizing literal. The selected
// mailbox is not changed.
func (s *Session) Append(mailbox string, flags []string, date time.Time, body []byte) error {
	return s.exclusive(func() error {
		if err := s.ensureAuthenticated(); err != nil {
			return err
		}

		if mailbox == "" {
			mailbox = s.opts.DefaultMailbox
		}

		enc, err := encodeMailbox(mailbox)
		if err != nil {
			return err
		}

		text := "APPEND " + enc
		if len(flags) > 0 {
			text += " (" + strings.Join(flags, " ") + ")"
		}
		if !date.IsZero() {
			text += " " + quote(date.Format(goimap.DateTimeLayout))
		}
		text += fmt.Sprintf(" {%v}", len(body))

		sent := false
		_, err = s.run(&command{
			name: "APPEND",
			text: text,
			cont: func(string) error {
				if sent {
					return &imap.ProtocolError{Reason: "second continuation during APPEND"}
				}
				sent = true
				return s.conn.sendLiteral(body)
			},
		})
		return err
	})
}

func (s *Session) fetch(set string, items string) ([]*goimap.Message, error) {
	resp, err := s.run(&command{name: "UID FETCH", text: "UID FETCH " + set + " " + items})
	if err != nil {
		return nil, err
	}

	var msgs []*goimap.Message
	for _, l := range resp.Untagged {
		msg, err := parseFetch(l)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

func encodeMailbox(name string) (string, error) {
	enc, err := utf7.Encoding.NewEncoder().String(name)
	if err != nil {
		return "", fmt.Errorf("encoding mailbox name %q: %w", name, err)
	}
	return quote(enc), nil
}

func parseSelect(name string, resp *Response) *imap.MailboxStatus {
	st := &imap.MailboxStatus{Name: name}

	for _, l := range resp.Untagged {
		rest := strings.TrimPrefix(l.Text, "* ")
		if m := countRe.FindStringSubmatch(rest); m != nil {
			n := parseNumber(m[1])
			if strings.EqualFold(m[2], "EXISTS") {
				st.Messages = n
			} else {
				st.Recent = n
			}
			continue
		}

		word, args := splitWord(rest)
		switch strings.ToUpper(word) {
		case "FLAGS":
			st.Flags = parseFlagList(args)
		case "OK":
			code, cargs, ok := responseCode(args)
			if !ok {
				break
			}

			switch code {
			case "UIDVALIDITY":
				st.UIDValidity = parseNumber(cargs)
			case "UIDNEXT":
				st.UIDNext = parseNumber(cargs)
			case "UNSEEN":
				st.Unseen = parseNumber(cargs)
			case "PERMANENTFLAGS":
				st.PermanentFlags = parseFlagList(cargs)
			}
		}
	}

	if code, _, ok := responseCode(resp.Text); ok && code == "READ-ONLY" {
		st.ReadOnly = true
	}
	return st
}

// parseStatus reads the attribute list at the end of a STATUS response.
func parseStatus(name string, rest string) *imap.MailboxStatus {
	st := &imap.MailboxStatus{Name: name}

	start := strings.LastIndexByte(rest, '(')
	end := strings.LastIndexByte(rest, ')')
	if start < 0 || end < start {
		return st
	}

	f := strings.Fields(rest[start+1 : end])
	for i := 0; i+1 < len(f); i += 2 {
		n := parseNumber(f[i+1])
		switch strings.ToUpper(f[i]) {
		case "MESSAGES":
			st.Messages = n
		case "RECENT":
			st.Recent = n
		case "UIDNEXT":
			st.UIDNext = n
		case "UIDVALIDITY":
			st.UIDValidity = n
		case "UNSEEN":
			st.Unseen = n
		}
	}
	return st
}

func parseNumber(s string) uint32 {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func parseFlagList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	if i := strings.IndexByte(s, ')'); i >= 0 {
		s = s[:i]
	}
	return strings.Fields(s)
}

// parseFetch decodes a "* n FETCH (...)" line. Other lines yield nil.
func parseFetch(l *Line) (*goimap.Message, error) {
	raw := strings.TrimPrefix(l.Raw(), "* ")
	m := fetchRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, nil
	}

	r := goimap.NewReader(bufio.NewReader(strings.NewReader(raw[len(m[0]):] + "\r\n")))
	fields, err := r.ReadLine()
	if err != nil {
		return nil, &imap.ProtocolError{Line: l.Text, Reason: err.Error()}
	}

	if len(fields) != 1 {
		return nil, &imap.ProtocolError{Line: l.Text, Reason: "bad FETCH response"}
	}

	list, ok := fields[0].([]interface{})
	if !ok {
		return nil, &imap.ProtocolError{Line: l.Text, Reason: "bad FETCH response"}
	}

	msg := &goimap.Message{SeqNum: parseNumber(m[1])}
	if err := msg.Parse(list); err != nil {
		return nil, &imap.ProtocolError{Line: l.Text, Reason: err.Error()}
	}
	return msg, nil
}

func firstBody(msg *goimap.Message) []byte {
	for _, lit := range msg.Body {
		if lit == nil {
			continue
		}

		b, err := io.ReadAll(lit)
		if err == nil {
			return b
		}
	}
	return nil
}

func fillMessage(dst *imap.Message, src *goimap.Message) {
	dst.UID = src.Uid
	dst.SeqNum = src.SeqNum
	dst.Flags = src.Flags
	if src.Size != 0 {
		dst.Size = src.Size
	}
}

// extractList returns the balanced parenthesised value following key.
func extractList(raw string, key string) (string, bool) {
	idx := strings.Index(strings.ToUpper(raw), key+" (")
	if idx < 0 {
		return "", false
	}

	start := idx + len(key) + 1
	depth := 0
	inQuote := false
	for i := start; i < len(raw); i++ {
		switch c := raw[i]; {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
