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

package client

import (
	"crypto/tls"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vs49688/mailwatch/imap"
	"github.com/vs49688/mailwatch/imap/session"
)

const dialTimeout = 30 * time.Second

// Factory dials a server, authenticates and, if a mailbox is
// configured, selects it.
type Factory struct {
	// Resolver overrides the per-session UID resolver.
	Resolver imap.UIDResolver
}

func dial(cfg *imap.ConnectionConfig) (net.Conn, error) {
	d := &net.Dialer{Timeout: dialTimeout}
	if !cfg.TLS {
		return d.Dial("tcp", cfg.HostPort)
	}

	tlsConfig := cfg.TLSConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{}
	}

	if tlsConfig.ServerName == "" {
		tlsConfig = tlsConfig.Clone()
		if host, _, err := net.SplitHostPort(cfg.HostPort); err == nil {
			tlsConfig.ServerName = host
		}
	}

	return tls.DialWithDialer(d, "tcp", cfg.HostPort, tlsConfig)
}

func (f *Factory) NewSession(cfg *imap.ConnectionConfig) (*session.Session, error) {
	nc, err := dial(cfg)
	if err != nil {
		return nil, &imap.TransportError{Op: "dial", Err: err}
	}

	s, err := session.New(nc, &session.Options{
		Logger:            log.WithField("tls", cfg.TLS),
		Debug:             cfg.Debug,
		DefaultMailbox:    cfg.Mailbox,
		KeepaliveInterval: cfg.KeepaliveInterval,
		Resolver:          f.Resolver,
	})
	if err != nil {
		return nil, err
	}

	wantCleanup := true
	defer func() {
		if wantCleanup {
			_ = s.Close()
		}
	}()

	if cfg.Auth != nil {
		if err := cfg.Auth.Authenticate(s); err != nil {
			return nil, err
		}
	}

	if cfg.Mailbox != "" {
		if err := s.Select(cfg.Mailbox); err != nil {
			return nil, err
		}
	}

	wantCleanup = false
	return s, nil
}

func (f *Factory) NewClient(cfg *imap.ConnectionConfig) (imap.Client, error) {
	s, err := f.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
