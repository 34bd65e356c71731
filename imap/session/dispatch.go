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
	"regexp"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/vs49688/mailwatch/imap"
)

var eventRe = regexp.MustCompile(`(?i)^\* (\d+) (EXISTS|EXPUNGE)\b`)

// dispatch delivers push events until the queue is closed. It runs once
// per connection.
func (s *Session) dispatch() {
	defer close(s.dispatchDone)

	s.log.Trace("session_dispatch_start")
	for {
		l, ok := s.queue.pop()
		if !ok {
			break
		}

		ev, ok := s.parseEvent(l)
		if !ok {
			s.log.WithField("line", l.Text).Trace("session_dispatch_ignored")
			continue
		}

		uid, err := s.resolver.HighestUID(ev.Mailbox)
		if err != nil {
			s.log.WithError(err).WithField("mailbox", ev.Mailbox).Warn("session_dispatch_resolve_failed")
		}
		ev.UID = uid

		s.deliver(ev)
	}
	s.log.Trace("session_dispatch_exit")
}

func (s *Session) parseEvent(l *Line) (imap.Event, bool) {
	m := eventRe.FindStringSubmatch(l.Text)
	if m == nil {
		return imap.Event{}, false
	}

	ev := imap.Event{
		Kind:    imap.EventNewMessage,
		Mailbox: s.idle.watched(),
		Count:   parseNumber(m[1]),
	}
	if strings.EqualFold(m[2], "EXPUNGE") {
		ev.Kind = imap.EventMessageRemoved
	}
	return ev, true
}

func (s *Session) deliver(ev imap.Event) {
	s.subsMu.RLock()
	var targets []*subscription
	for _, sub := range s.subs {
		if sub.sub.Mailbox == ev.Mailbox {
			targets = append(targets, sub)
		}
	}
	s.subsMu.RUnlock()

	sort.Slice(targets, func(i, j int) bool { return targets[i].sub.ID < targets[j].sub.ID })

	entry := s.log.WithFields(log.Fields{
		"kind":    ev.Kind,
		"mailbox": ev.Mailbox,
		"count":   ev.Count,
		"uid":     ev.UID,
	})
	entry.WithField("handlers", len(targets)).Debug("session_dispatch_event")

	for _, t := range targets {
		s.invoke(entry, t, ev)
	}
}

func (s *Session) invoke(entry *log.Entry, t *subscription, ev imap.Event) {
	defer func() {
		if r := recover(); r != nil {
			entry.WithFields(log.Fields{
				"id":    t.sub.ID,
				"panic": r,
			}).Error("session_handler_panic")
		}
	}()

	t.handler.HandleEvent(ev)
}
