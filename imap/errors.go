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

package imap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by mailbox and message operations
	// attempted before a successful LOGIN or AUTHENTICATE.
	ErrNotAuthenticated = errors.New("imap: not authenticated")

	// ErrClosed is returned by operations on a session that has been
	// logged out or closed.
	ErrClosed = errors.New("imap: session closed")

	// ErrCommandInFlight is returned when a command is started while
	// another one still owns the connection.
	ErrCommandInFlight = errors.New("imap: another command is in flight")

	ErrEmptySequenceSet = errors.New("imap: empty sequence set")
)

// TransportError is a failure of the underlying byte stream.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("imap: %v: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is raised when a server line cannot be classified, or
// an expected continuation or literal is missing.
type ProtocolError struct {
	Line   string
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("imap: protocol violation: %v", e.Reason)
	}
	return fmt.Sprintf("imap: protocol violation: %v: %q", e.Reason, e.Line)
}

// ServerError is a tagged completion with a status other than OK.
type ServerError struct {
	Command string
	Status  string
	Text    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("imap: %v rejected: %v %v", e.Command, e.Status, e.Text)
}

// AuthError is the credential-rejection flavour of ServerError. Both
// errors.As(err, &*AuthError) and errors.As(err, &*ServerError) match.
type AuthError struct {
	*ServerError
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("imap: authentication failed: %v %v", e.Status, e.Text)
}

func (e *AuthError) Unwrap() error {
	return e.ServerError
}

// CapabilityError is returned when an operation needs a capability the
// server does not advertise.
type CapabilityError struct {
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("imap: server does not support %v", e.Capability)
}

// IsTransportError reports whether err is, or wraps, a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
