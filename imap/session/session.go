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
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/vs49688/mailwatch/imap"
)

var (
	ErrUnbalancedResume     = errors.New("imap: resume without matching pause")
	ErrAlreadyAuthenticated = errors.New("imap: already authenticated")
)

const (
	DefaultKeepaliveInterval = 10 * time.Minute
	DefaultCloseTimeout      = 5 * time.Second
	DefaultTagPrefix         = "A"

	oauthBearerAbort = "AQ=="
)

type Options struct {
	Logger *log.Entry
	Debug  bool

	// TagPrefix defaults to "A".
	TagPrefix string

	// DefaultMailbox is selected by Select(""). Defaults to INBOX.
	DefaultMailbox string

	KeepaliveInterval time.Duration

	// Resolver defaults to the session itself.
	Resolver imap.UIDResolver

	// CloseTimeout bounds the graceful push-mode stop in Close.
	CloseTimeout time.Duration
}

// Session is a single authenticated-or-not IMAP connection. All exported
// methods are safe for concurrent use; they are serialised on one lock
// and bracket their commands with a pause/resume of push mode.
type Session struct {
	mu   sync.Mutex
	conn *conn
	log  *log.Entry
	opts Options

	authenticated bool
	caps          map[string]struct{}
	mailbox       *imap.MailboxStatus
	bye           int32

	closed int32

	idle     *idler
	queue    *queue
	resolver imap.UIDResolver

	subsMu sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64

	dispatchOnce sync.Once
	dispatchDone chan struct{}
}

var (
	_ imap.Client          = (*Session)(nil)
	_ imap.Authenticatable = (*Session)(nil)
)

type subscription struct {
	sub     *imap.Subscription
	handler imap.Handler
}

// New wraps an established connection and consumes the server greeting.
func New(nc net.Conn, opts *Options) (*Session, error) {
	var o Options
	if opts != nil {
		o = *opts
	}

	if o.TagPrefix == "" {
		o.TagPrefix = DefaultTagPrefix
	}
	if o.DefaultMailbox == "" {
		o.DefaultMailbox = imap.InboxName
	}
	if o.KeepaliveInterval == 0 {
		o.KeepaliveInterval = DefaultKeepaliveInterval
	}
	if o.CloseTimeout == 0 {
		o.CloseTimeout = DefaultCloseTimeout
	}

	host := "unknown"
	if addr := nc.RemoteAddr(); addr != nil {
		host = addr.String()
	}

	entry := o.Logger
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}
	entry = entry.WithFields(log.Fields{
		"session": uuid.New().String(),
		"host":    host,
	})

	s := &Session{
		conn:         newConn(nc, o.TagPrefix, o.Debug, entry),
		log:          entry,
		opts:         o,
		queue:        newQueue(),
		subs:         map[uint64]*subscription{},
		dispatchDone: make(chan struct{}),
	}

	s.resolver = o.Resolver
	if s.resolver == nil {
		s.resolver = s
	}

	if err := s.greet(); err != nil {
		_ = s.conn.close()
		return nil, err
	}

	s.idle = newIdler(s)
	go s.idle.run()

	s.log.WithField("authenticated", s.authenticated).Info("session_established")
	return s, nil
}

func (s *Session) greet() error {
	l, err := s.conn.receive()
	if err != nil {
		return err
	}

	kind, _, rest := classify(l.Text, "")
	if kind != lineUntagged {
		return &imap.ProtocolError{Line: l.Text, Reason: "bad greeting"}
	}

	word, text := splitWord(rest)
	switch strings.ToUpper(word) {
	case "OK":
	case "PREAUTH":
		s.authenticated = true
	case "BYE":
		return &imap.ServerError{Command: "greeting", Status: "BYE", Text: text}
	default:
		return &imap.ProtocolError{Line: l.Text, Reason: "bad greeting"}
	}

	s.observeCode(text)
	return nil
}

func (s *Session) isClosed() bool {
	return atomic.LoadInt32(&s.closed) != 0
}

// exclusive runs fn under the session lock with push mode paused.
func (s *Session) exclusive(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bracket(fn)
}

// bracket is exclusive without the locking; the caller holds s.mu.
func (s *Session) bracket(fn func() error) error {
	if s.isClosed() {
		return imap.ErrClosed
	}

	if err := s.idle.pause(); err != nil {
		return err
	}

	err := fn()

	if rerr := s.idle.resume(); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

func (s *Session) ensureAuthenticated() error {
	if !s.authenticated {
		return imap.ErrNotAuthenticated
	}
	return nil
}

// Execute sends an arbitrary command and returns the raw response. A
// non-OK completion is returned as an error alongside the response.
func (s *Session) Execute(text string) (*Response, error) {
	var resp *Response
	err := s.exclusive(func() error {
		name, _ := splitWord(text)
		r, err := s.run(&command{name: strings.ToUpper(name), text: text})
		resp = r
		return err
	})
	return resp, err
}

func (s *Session) Login(username, password string) error {
	return s.exclusive(func() error {
		if s.authenticated {
			return ErrAlreadyAuthenticated
		}

		// Only honour LOGINDISABLED when the server already told us.
		if s.caps != nil {
			if _, ok := s.caps[imap.CapLoginDisabled]; ok {
				return &imap.CapabilityError{Capability: "LOGIN"}
			}
		}

		_, err := s.run(&command{
			name:  "LOGIN",
			text:  fmt.Sprintf("LOGIN %v %v", quote(username), quote(password)),
			shown: fmt.Sprintf("LOGIN %v <redacted>", quote(username)),
			auth:  true,
		})
		if err != nil {
			return err
		}

		s.authenticated = true
		s.log.WithField("username", username).Info("session_logged_in")
		return nil
	})
}

// Authenticate runs a SASL exchange with the given mechanism.
func (s *Session) Authenticate(client sasl.Client) error {
	return s.exclusive(func() error {
		if s.authenticated {
			return ErrAlreadyAuthenticated
		}

		mech, ir, err := client.Start()
		if err != nil {
			return fmt.Errorf("starting sasl: %w", err)
		}

		ok, err := s.supports("AUTH=" + mech)
		if err != nil {
			return err
		}
		if !ok {
			return &imap.CapabilityError{Capability: "AUTH=" + mech}
		}

		text := "AUTHENTICATE " + mech
		if ir != nil {
			saslIR, err := s.supports(imap.CapSASLIR)
			if err != nil {
				return err
			}

			if saslIR {
				enc := base64.StdEncoding.EncodeToString(ir)
				if enc == "" {
					enc = "="
				}
				text += " " + enc
				ir = nil
			}
		}

		var saslErr error
		cont := func(challenge string) error {
			var resp []byte
			if ir != nil {
				resp, ir = ir, nil
			} else {
				decoded, err := base64.StdEncoding.DecodeString(challenge)
				if err != nil {
					saslErr = fmt.Errorf("decoding challenge: %w", err)
					return s.conn.send("*", "")
				}

				if resp, err = client.Next(decoded); err != nil {
					saslErr = err
					if mech == sasl.OAuthBearer {
						// RFC 7628 3.2.3: the client answers an error
						// challenge with a lone %x01.
						return s.conn.send(oauthBearerAbort, "<sasl response>")
					}
					return s.conn.send("*", "")
				}
			}

			return s.conn.send(base64.StdEncoding.EncodeToString(resp), "<sasl response>")
		}

		_, err = s.run(&command{name: "AUTHENTICATE", text: text, auth: true, cont: cont})
		if err != nil {
			if saslErr != nil {
				return fmt.Errorf("sasl %v: %v: %w", mech, saslErr, err)
			}
			return err
		}
		if saslErr != nil {
			return fmt.Errorf("sasl %v: %w", mech, saslErr)
		}

		s.authenticated = true
		s.log.WithField("mechanism", mech).Info("session_authenticated")
		return nil
	})
}

// Capabilities returns the server capabilities, uppercased and sorted.
func (s *Session) Capabilities() ([]string, error) {
	var caps []string
	err := s.exclusive(func() error {
		if err := s.loadCapabilities(); err != nil {
			return err
		}

		for c := range s.caps {
			caps = append(caps, c)
		}
		sort.Strings(caps)
		return nil
	})
	return caps, err
}

func (s *Session) Supports(name string) (bool, error) {
	var ok bool
	err := s.exclusive(func() error {
		var err error
		ok, err = s.supports(name)
		return err
	})
	return ok, err
}

func (s *Session) loadCapabilities() error {
	if s.caps != nil {
		return nil
	}

	_, err := s.run(&command{name: "CAPABILITY", text: "CAPABILITY"})
	if err != nil {
		return err
	}

	if s.caps == nil {
		return &imap.ProtocolError{Reason: "no CAPABILITY response"}
	}
	return nil
}

func (s *Session) supports(name string) (bool, error) {
	if err := s.loadCapabilities(); err != nil {
		return false, err
	}

	_, ok := s.caps[strings.ToUpper(name)]
	return ok, nil
}

func (s *Session) Noop() error {
	return s.exclusive(s.noop)
}

func (s *Session) noop() error {
	_, err := s.run(&command{name: "NOOP", text: "NOOP"})
	return err
}

// Pause suspends push mode until the matching Resume. Nested pauses are
// counted.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return imap.ErrClosed
	}
	return s.idle.pause()
}

func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return imap.ErrClosed
	}
	return s.idle.resume()
}

// Subscribe registers h for push events on mailbox. The first
// subscription starts push mode; only one mailbox can be watched per
// session.
func (s *Session) Subscribe(mailbox string, h imap.Handler) (*imap.Subscription, error) {
	if mailbox == "" {
		mailbox = s.opts.DefaultMailbox
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return nil, imap.ErrClosed
	}
	if err := s.ensureAuthenticated(); err != nil {
		return nil, err
	}

	if err := s.idle.start(mailbox); err != nil {
		return nil, err
	}

	s.subsMu.Lock()
	s.nextID++
	sub := &imap.Subscription{ID: s.nextID, Mailbox: mailbox}
	s.subs[sub.ID] = &subscription{sub: sub, handler: h}
	s.subsMu.Unlock()

	s.dispatchOnce.Do(func() { go s.dispatch() })

	s.log.WithFields(log.Fields{"id": sub.ID, "mailbox": mailbox}).Info("session_subscribed")
	return sub, nil
}

// Unsubscribe removes a subscription. Removing the last one stops push
// mode.
func (s *Session) Unsubscribe(sub *imap.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return imap.ErrClosed
	}

	s.subsMu.Lock()
	delete(s.subs, sub.ID)
	remaining := len(s.subs)
	s.subsMu.Unlock()

	s.log.WithFields(log.Fields{"id": sub.ID, "remaining": remaining}).Info("session_unsubscribed")

	if remaining > 0 {
		return nil
	}
	return s.idle.stop()
}

// Logout stops push mode, says goodbye and closes the connection.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	if err := s.idle.stop(); err != nil {
		s.log.WithError(err).Warn("session_idle_stop_failed")
	}

	var err error
	if s.ByeReceived() {
		s.log.Debug("session_logout_skipped")
	} else if _, err = s.run(&command{name: "LOGOUT", text: "LOGOUT"}); err != nil {
		s.log.WithError(err).Warn("session_logout_failed")
	}

	s.teardown()
	s.log.Info("session_logged_out")
	return err
}

// ByeReceived reports whether the server has announced that it is
// closing the connection.
func (s *Session) ByeReceived() bool {
	return atomic.LoadInt32(&s.bye) != 0
}

// Close tears the session down without waiting for the lock. Push mode
// gets CloseTimeout to stop gracefully before the connection is cut.
func (s *Session) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	stopped := make(chan error, 1)
	go func() { stopped <- s.idle.stop() }()

	select {
	case err := <-stopped:
		if err != nil {
			s.log.WithError(err).Warn("session_idle_stop_failed")
		}
	case <-time.After(s.opts.CloseTimeout):
		s.log.WithField("timeout", s.opts.CloseTimeout).Warn("session_idle_stop_timeout")
	}

	err := s.teardown()
	s.log.Info("session_closed")
	return err
}

func (s *Session) teardown() error {
	s.idle.closing()
	err := s.conn.close()
	s.idle.dispose()
	s.queue.close()
	return err
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
