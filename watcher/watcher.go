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

package watcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vs49688/mailwatch/imap"
)

// New opens a session, remembers the newest UID in the mailbox and
// subscribes to push events. Servers without IDLE fall back to polling.
func New(cfg *Config, factory imap.Factory) (*Watcher, error) {
	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = cfg.Connection.Mailbox
	}
	if mailbox == "" {
		mailbox = imap.InboxName
	}

	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}

	fallbackInterval := cfg.FallbackInterval
	if fallbackInterval == 0 {
		fallbackInterval = DefaultFallbackInterval
	}

	conn := cfg.Connection
	conn.Mailbox = mailbox

	c, err := factory.NewClient(&conn)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		client:           c,
		mailbox:          mailbox,
		out:              cfg.Channel,
		batchSize:        batchSize,
		fallbackInterval: fallbackInterval,
		pending:          newSignal(),
	}

	if w.lastUID, err = c.HighestUID(mailbox); err != nil {
		_ = c.Close()
		return nil, err
	}

	w.sub, err = c.Subscribe(mailbox, w)
	var cerr *imap.CapabilityError
	if errors.As(err, &cerr) {
		w.log().WithError(err).Warn("watcher_push_unsupported")
		if w.fallbackInterval < 0 {
			_ = c.Close()
			return nil, err
		}
	} else if err != nil {
		_ = c.Close()
		return nil, err
	}

	w.log().WithField("last_uid", w.lastUID).Info("watcher_started")
	return w, nil
}

func (w *Watcher) log() *log.Entry {
	return log.WithField("mailbox", w.mailbox)
}

func (w *Watcher) HandleEvent(ev imap.Event) {
	e := w.log().WithFields(log.Fields{
		"kind":  ev.Kind,
		"count": ev.Count,
		"uid":   ev.UID,
	})

	switch ev.Kind {
	case imap.EventNewMessage:
		e.Trace("watcher_event")
		w.pending.Raise(1)
	case imap.EventMessageRemoved:
		e.Info("watcher_message_removed")
	}
}

// Run emits new messages until ctx ends, then logs out. A failure to
// talk to the server ends the loop and is returned.
func (w *Watcher) Run(ctx context.Context) error {
	var err error

	var fallback <-chan time.Time
	for {
		if w.fallbackInterval > 0 {
			fallback = time.After(w.fallbackInterval)
		}

		select {
		case <-ctx.Done():
			goto done
		case <-w.pending.C():
			w.log().WithField("events", w.pending.Take()).Trace("watcher_wakeup")
		case <-fallback:
			w.log().Trace("watcher_fallback_check")
		}

		if err = w.fetchNew(ctx); err != nil {
			if ctx.Err() != nil {
				err = nil
				goto done
			}

			if imap.IsTransportError(err) || errors.Is(err, imap.ErrClosed) {
				w.log().WithError(err).Error("watcher_connection_lost")
				_ = w.client.Close()
				return err
			}

			w.log().WithError(err).Warn("watcher_fetch_failed")
			err = nil
		}
	}

done:
	if w.sub != nil {
		if uerr := w.client.Unsubscribe(w.sub); uerr != nil {
			w.log().WithError(uerr).Warn("watcher_unsubscribe_failed")
		}
	}

	if lerr := w.client.Logout(); lerr != nil {
		w.log().WithError(lerr).Warn("watcher_logout_failed")
		_ = w.client.Close()
	}

	w.log().Info("watcher_stopped")
	return err
}

func (w *Watcher) fetchNew(ctx context.Context) error {
	// "n:*" always matches the newest message, even when its UID is below n.
	all, err := w.client.UIDSearch(w.mailbox, fmt.Sprintf("UID %d:*", w.lastUID+1))
	if err != nil {
		return err
	}

	var uids []uint32
	for _, uid := range all {
		if uid > w.lastUID {
			uids = append(uids, uid)
		}
	}

	if len(uids) == 0 {
		return nil
	}

	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	for len(uids) > 0 {
		n := int(w.batchSize)
		if n > len(uids) {
			n = len(uids)
		}

		batch := uids[:n]
		uids = uids[n:]

		msgs, err := w.client.FetchHeaders(w.mailbox, batch)
		if err != nil {
			return err
		}

		sort.Slice(msgs, func(i, j int) bool { return msgs[i].UID < msgs[j].UID })

		for _, msg := range msgs {
			if msg.UID <= w.lastUID {
				continue
			}

			subject, _ := msg.Header.Subject()
			w.log().WithFields(log.Fields{
				"uid":     msg.UID,
				"subject": subject,
			}).Info("watcher_new_message")

			select {
			case w.out <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}

			w.lastUID = msg.UID
		}

		// Anything the server did not return is skipped.
		if last := batch[len(batch)-1]; last > w.lastUID {
			w.lastUID = last
		}
	}

	return nil
}
