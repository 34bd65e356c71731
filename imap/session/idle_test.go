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
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/vs49688/mailwatch/imap"
	mock_imap "github.com/vs49688/mailwatch/imap/mocks"
)

func nopHandler() imap.Handler {
	return imap.HandlerFunc(func(imap.Event) {})
}

func TestIdleRequiresCapability(t *testing.T) {
	s, _ := newTestSession(t, greetingNoIdle, nil)

	_, err := s.Subscribe("INBOX", nopHandler())
	assert.Equal(t, &imap.CapabilityError{Capability: imap.CapIdle}, err)
}

func TestIdleSingleMailbox(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, nil)
	startIdle(t, s, ss, nopHandler())

	// Same mailbox: no traffic.
	sub, err := s.Subscribe("INBOX", nopHandler())
	assert.NoError(t, err)
	assert.Equal(t, "INBOX", sub.Mailbox)

	_, err = s.Subscribe("Archive", nopHandler())
	assert.Error(t, err)
}

func TestIdleOwnsConnection(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, nil)
	startIdle(t, s, ss, nopHandler())

	s.mu.Lock()
	_, err := s.run(&command{name: "NOOP", text: "NOOP"})
	s.mu.Unlock()

	assert.ErrorIs(t, err, imap.ErrCommandInFlight)
}

func TestPauseResume(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, nil)
	idleTag := startIdle(t, s, ss, nopHandler())

	done := ss.serve(func() {
		ss.expectRaw("DONE")
		ss.write(idleTag + " OK IDLE terminated")

		// Still paused once, so no IDLE between these.
		tag := ss.expect("NOOP")
		ss.write(tag + " OK NOOP completed")

		ss.expect("IDLE")
		ss.write("+ idling")
	})

	assert.NoError(t, s.Pause())
	assert.NoError(t, s.Pause())
	assert.NoError(t, s.Resume())
	assert.NoError(t, s.Noop())
	assert.NoError(t, s.Resume())
	wait(t, done)

	assert.ErrorIs(t, s.Resume(), ErrUnbalancedResume)
}

func TestCommandDuringIdle(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, nil)
	idleTag := startIdle(t, s, ss, nopHandler())

	done := ss.serve(func() {
		ss.expectRaw("DONE")
		ss.write("* 2 RECENT", idleTag+" OK IDLE terminated")

		tag := ss.expect("UID SEARCH UNSEEN")
		ss.write("* SEARCH 2", tag+" OK SEARCH completed")

		ss.expect("IDLE")
		ss.write("+ idling")
	})

	uids, err := s.UIDSearch("INBOX", "UNSEEN")
	wait(t, done)

	assert.NoError(t, err)
	assert.Equal(t, []uint32{2}, uids)
}

func TestDispatch(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		got := make(chan struct{})

		resolver := mock_imap.NewMockUIDResolver(ctrl)
		resolver.EXPECT().HighestUID("INBOX").Return(uint32(42), nil)

		handler := mock_imap.NewMockHandler(ctrl)
		handler.EXPECT().HandleEvent(imap.Event{
			Kind:    imap.EventNewMessage,
			Mailbox: "INBOX",
			Count:   5,
			UID:     42,
		}).Do(func(imap.Event) { close(got) })

		s, ss := newTestSession(t, greetingIdle, &Options{Resolver: resolver})
		startIdle(t, s, ss, handler)

		ss.write("* 5 EXISTS")

		select {
		case <-got:
		case <-time.After(5 * time.Second):
			t.Fatal("event not delivered")
		}
	})

	t.Run("handler_panic", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resolver := mock_imap.NewMockUIDResolver(ctrl)
		resolver.EXPECT().HighestUID("INBOX").Return(uint32(9), nil).Times(2)

		var calls int32
		got := make(chan imap.Event, 1)
		h := imap.HandlerFunc(func(ev imap.Event) {
			if atomic.AddInt32(&calls, 1) == 1 {
				panic("boom")
			}
			got <- ev
		})

		s, ss := newTestSession(t, greetingIdle, &Options{Resolver: resolver})
		startIdle(t, s, ss, h)

		ss.write("* 1 EXPUNGE", "* 7 exists")

		select {
		case ev := <-got:
			assert.Equal(t, imap.Event{Kind: imap.EventNewMessage, Mailbox: "INBOX", Count: 7, UID: 9}, ev)
		case <-time.After(5 * time.Second):
			t.Fatal("event not delivered")
		}
	})

	t.Run("resolve_through_session", func(t *testing.T) {
		s, ss := newTestSession(t, greetingIdle, nil)

		got := make(chan imap.Event, 1)
		idleTag := startIdle(t, s, ss, imap.HandlerFunc(func(ev imap.Event) { got <- ev }))

		done := ss.serve(func() {
			ss.write("* 4 EXISTS", "* 1 RECENT")

			ss.expectRaw("DONE")
			ss.write(idleTag + " OK IDLE terminated")

			tag := ss.expect(`STATUS "INBOX" (MESSAGES RECENT UIDNEXT UIDVALIDITY UNSEEN)`)
			ss.write("* STATUS INBOX (MESSAGES 4 UIDNEXT 12)", tag+" OK STATUS completed")

			ss.expect("IDLE")
			ss.write("+ idling")
		})

		select {
		case ev := <-got:
			assert.Equal(t, imap.Event{Kind: imap.EventNewMessage, Mailbox: "INBOX", Count: 4, UID: 11}, ev)
		case <-time.After(5 * time.Second):
			t.Fatal("event not delivered")
		}
		wait(t, done)
	})
}

func TestUnsubscribe(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, nil)
	idleTag := startIdle(t, s, ss, nopHandler())

	second, err := s.Subscribe("INBOX", nopHandler())
	assert.NoError(t, err)

	done := ss.serve(func() {
		ss.expectRaw("DONE")
		ss.write(idleTag + " OK IDLE terminated")

		// Push mode is off, so no IDLE follows.
		tag := ss.expect("NOOP")
		ss.write(tag + " OK NOOP completed")
	})

	assert.NoError(t, s.Unsubscribe(second))
	assert.NoError(t, s.Unsubscribe(&imap.Subscription{ID: 1, Mailbox: "INBOX"}))
	assert.NoError(t, s.Noop())
	wait(t, done)
}

func TestIdleServerRejects(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, nil)

	done := ss.serve(func() {
		tag := ss.expect(`SELECT "INBOX"`)
		ss.write(tag + " OK [READ-WRITE] selected")

		tag = ss.expect("IDLE")
		ss.write(tag + " NO idle not allowed here")
	})

	_, err := s.Subscribe("INBOX", nopHandler())
	wait(t, done)

	var serr *imap.ServerError
	if assert.True(t, errors.As(err, &serr)) {
		assert.Equal(t, "IDLE", serr.Command)
	}
}

func TestKeepalive(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, &Options{KeepaliveInterval: 50 * time.Millisecond})
	idleTag := startIdle(t, s, ss, nopHandler())

	done := ss.serve(func() {
		ss.expectRaw("DONE")
		ss.write(idleTag + " OK IDLE terminated")

		tag := ss.expect("NOOP")
		ss.write(tag + " OK NOOP completed")

		ss.expect("IDLE")
		ss.write("+ idling")
	})
	wait(t, done)
}

func TestByeWhileIdle(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, nil)
	idleTag := startIdle(t, s, ss, nopHandler())

	assert.False(t, s.ByeReceived())
	ss.write("* BYE server shutting down")

	assert.Eventually(t, s.ByeReceived, 5*time.Second, 10*time.Millisecond)

	// No LOGOUT once the server has said goodbye.
	done := ss.serve(func() {
		ss.expectRaw("DONE")
		ss.write(idleTag + " OK IDLE terminated")
	})

	assert.NoError(t, s.Logout())
	wait(t, done)
}

func TestLogoutWhileIdle(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, nil)
	idleTag := startIdle(t, s, ss, nopHandler())

	done := ss.serve(func() {
		ss.expectRaw("DONE")
		ss.write(idleTag + " OK IDLE terminated")

		tag := ss.expect("LOGOUT")
		ss.write("* BYE see you", tag+" OK LOGOUT completed")
	})

	assert.NoError(t, s.Logout())
	wait(t, done)

	_, err := s.Subscribe("INBOX", nopHandler())
	assert.ErrorIs(t, err, imap.ErrClosed)
}

func TestCloseUnresponsiveServer(t *testing.T) {
	s, ss := newTestSession(t, greetingIdle, &Options{CloseTimeout: 50 * time.Millisecond})
	startIdle(t, s, ss, nopHandler())

	// Nobody reads DONE from here on.
	closed := make(chan error, 1)
	go func() { closed <- s.Close() }()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}

	select {
	case <-s.dispatchDone:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher still running")
	}

	assert.ErrorIs(t, s.Noop(), imap.ErrClosed)
}
