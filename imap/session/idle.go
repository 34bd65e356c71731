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
	"strings"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vs49688/mailwatch/imap"
)

type startRequest struct {
	r       chan error
	mailbox string
}

type stopRequest struct {
	r chan error
}

type pauseRequest struct {
	r chan error
}

type resumeRequest struct {
	r chan error
}

type disposeRequest struct {
	r chan error
}

// idler owns push mode. Every state change happens on its goroutine,
// in response to a request from whoever holds the session lock.
type idler struct {
	s    *Session
	ch   chan interface{}
	done chan struct{}

	active  bool
	depth   int
	mailbox string

	// readerDone is non-nil while an IDLE command owns the connection.
	readerDone    chan error
	keepaliveStop chan struct{}

	teardown int32
	shut     int32
	current  atomic.Value
}

func newIdler(s *Session) *idler {
	i := &idler{
		s:    s,
		ch:   make(chan interface{}),
		done: make(chan struct{}),
	}
	i.current.Store("")
	return i
}

func (i *idler) call(req interface{}, r chan error) error {
	select {
	case i.ch <- req:
	case <-i.done:
		return imap.ErrClosed
	}
	return <-r
}

func (i *idler) start(mailbox string) error {
	r := make(chan error, 1)
	return i.call(startRequest{r: r, mailbox: mailbox}, r)
}

func (i *idler) stop() error {
	r := make(chan error, 1)
	return i.call(stopRequest{r: r}, r)
}

func (i *idler) pause() error {
	r := make(chan error, 1)
	return i.call(pauseRequest{r: r}, r)
}

func (i *idler) resume() error {
	r := make(chan error, 1)
	return i.call(resumeRequest{r: r}, r)
}

func (i *idler) dispose() {
	r := make(chan error, 1)
	_ = i.call(disposeRequest{r: r}, r)
}

// closing marks the connection as going away, so a failing read is
// expected rather than reported.
func (i *idler) closing() {
	atomic.StoreInt32(&i.shut, 1)
}

// watched is the mailbox push events belong to.
func (i *idler) watched() string {
	v, _ := i.current.Load().(string)
	return v
}

func (i *idler) log() *log.Entry {
	return i.s.log.WithFields(log.Fields{
		"mailbox": i.mailbox,
		"depth":   i.depth,
	})
}

func (i *idler) run() {
	for {
		select {
		case _r := <-i.ch:
			switch r := _r.(type) {
			case startRequest:
				r.r <- i.handleStart(r.mailbox)
			case stopRequest:
				r.r <- i.handleStop()
			case pauseRequest:
				r.r <- i.handlePause()
			case resumeRequest:
				r.r <- i.handleResume()
			case disposeRequest:
				i.handleDispose()
				r.r <- nil
				goto done
			default:
				i.log().WithField("request", r).Panic("session_idle_invalid_request")
			}
		case err := <-i.readerDone:
			i.readerExited(err)
		}
	}

done:
	close(i.done)
	i.s.log.Trace("session_idle_owner_exit")
}

func (i *idler) handleStart(mailbox string) error {
	if i.active {
		if i.mailbox == mailbox {
			return nil
		}
		return fmt.Errorf("imap: push mode already active on %q", i.mailbox)
	}

	ok, err := i.s.supports(imap.CapIdle)
	if err != nil {
		return err
	}
	if !ok {
		return &imap.CapabilityError{Capability: imap.CapIdle}
	}

	if err := i.s.selectMailbox(mailbox); err != nil {
		return err
	}

	i.active = true
	i.mailbox = mailbox
	i.current.Store(mailbox)

	if i.depth == 0 {
		if err := i.enter(); err != nil {
			i.active = false
			return err
		}
	}

	i.startKeepalive()
	i.log().Info("session_idle_start")
	return nil
}

func (i *idler) handleStop() error {
	if !i.active {
		return nil
	}

	i.stopKeepalive()

	var err error
	if i.readerDone != nil {
		err = i.exit()
	}

	i.log().Info("session_idle_stop")
	i.active = false
	i.mailbox = ""
	return err
}

func (i *idler) handlePause() error {
	i.depth++
	if i.depth > 1 || i.readerDone == nil {
		return nil
	}

	if err := i.exit(); err != nil {
		i.depth--
		return err
	}

	i.log().Trace("session_idle_paused")
	return nil
}

func (i *idler) handleResume() error {
	if i.depth == 0 {
		return ErrUnbalancedResume
	}

	i.depth--
	if i.depth > 0 || !i.active || i.readerDone != nil {
		return nil
	}

	if err := i.s.selectMailbox(i.mailbox); err != nil {
		return err
	}

	if err := i.enter(); err != nil {
		return err
	}

	i.log().Trace("session_idle_resumed")
	return nil
}

func (i *idler) handleDispose() {
	i.stopKeepalive()

	if i.readerDone != nil {
		<-i.readerDone
		i.readerDone = nil
		i.s.conn.release()
	}
	i.active = false
}

// readerExited handles an IDLE that ended without us asking.
func (i *idler) readerExited(err error) {
	i.readerDone = nil
	i.s.conn.release()

	if err != nil {
		i.log().WithError(err).Error("session_idle_failed")
		return
	}

	i.log().Info("session_idle_ended_by_server")
	if i.active && i.depth == 0 {
		if err := i.enter(); err != nil {
			i.log().WithError(err).Error("session_idle_reenter_failed")
		}
	}
}

// enter issues IDLE and hands the connection to a reader goroutine once
// the server acknowledges it.
func (i *idler) enter() error {
	c := i.s.conn
	if err := c.acquire(); err != nil {
		return err
	}

	tag := c.nextTag()
	if err := c.send(tag+" IDLE", ""); err != nil {
		c.release()
		return err
	}

	if err := i.awaitContinuation(tag); err != nil {
		c.release()
		return err
	}

	atomic.StoreInt32(&i.teardown, 0)
	done := make(chan error, 1)
	i.readerDone = done
	go i.read(tag, done)

	i.log().WithField("tag", tag).Debug("session_idle_enter")
	return nil
}

func (i *idler) awaitContinuation(tag string) error {
	for {
		l, err := i.s.conn.receive()
		if err != nil {
			return err
		}

		kind, status, rest := classify(l.Text, tag)
		switch kind {
		case lineContinuation:
			return nil
		case lineUntagged:
			i.s.queue.push(l)
		case lineTagged:
			if status == "OK" {
				return &imap.ProtocolError{Line: l.Text, Reason: "IDLE completed before continuation"}
			}
			return &imap.ServerError{Command: "IDLE", Status: status, Text: rest}
		default:
			return &imap.ProtocolError{Line: l.Text, Reason: "unclassifiable response"}
		}
	}
}

// exit sends DONE and waits for the reader to see the IDLE completion.
// The connection is free again when it returns.
func (i *idler) exit() error {
	atomic.StoreInt32(&i.teardown, 1)

	select {
	case err := <-i.readerDone:
		i.readerDone = nil
		i.s.conn.release()
		return err
	default:
	}

	if err := i.s.conn.send("DONE", ""); err != nil {
		return err
	}

	err := <-i.readerDone
	i.readerDone = nil
	i.s.conn.release()
	atomic.StoreInt32(&i.teardown, 0)

	i.log().Debug("session_idle_exit")
	return err
}

func (i *idler) read(tag string, done chan<- error) {
	for {
		l, err := i.s.conn.receive()
		if err != nil {
			if atomic.LoadInt32(&i.teardown) != 0 || atomic.LoadInt32(&i.shut) != 0 {
				i.s.log.WithError(err).Debug("session_idle_reader_closed")
				done <- nil
				return
			}

			i.s.log.WithError(err).Error("session_idle_reader_failed")
			done <- err
			return
		}

		kind, status, rest := classify(l.Text, tag)
		switch kind {
		case lineTagged:
			if status != "OK" {
				done <- &imap.ServerError{Command: "IDLE", Status: status, Text: rest}
				return
			}
			done <- nil
			return
		case lineUntagged:
			if word, text := splitWord(rest); strings.EqualFold(word, "BYE") {
				atomic.StoreInt32(&i.s.bye, 1)
				i.s.log.WithField("text", text).Warn("session_bye_received")
			}
			i.s.queue.push(l)
		default:
			i.s.log.WithField("line", l.Text).Warn("session_idle_unexpected_line")
		}
	}
}

func (i *idler) startKeepalive() {
	i.stopKeepalive()

	stop := make(chan struct{})
	i.keepaliveStop = stop
	go i.s.keepalive(stop, i.s.opts.KeepaliveInterval)
}

func (i *idler) stopKeepalive() {
	if i.keepaliveStop != nil {
		close(i.keepaliveStop)
		i.keepaliveStop = nil
	}
}

// keepalive interrupts IDLE with a NOOP every interval, so neither the
// server nor a middlebox drops a quiet connection.
func (s *Session) keepalive(stop <-chan struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}

		if err := s.keepaliveTick(stop); err != nil {
			s.log.WithError(err).Warn("session_keepalive_failed")
		}
	}
}

func (s *Session) keepaliveTick(stop <-chan struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-stop:
		return nil
	default:
	}

	s.log.Trace("session_keepalive")
	return s.bracket(s.noop)
}
