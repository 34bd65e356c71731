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
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/emersion/go-sasl"
	"golang.org/x/oauth2"
)

const CramMD5 = "CRAM-MD5"

type plainAuthenticator struct {
	username string
	password string
}

func NewNormalAuthenticator(username string, password string) Authenticator {
	return &plainAuthenticator{username: username, password: password}
}

func (a *plainAuthenticator) Authenticate(c Authenticatable) error {
	return c.Login(a.username, a.password)
}

type saslAuthenticator struct {
	client sasl.Client
}

func NewSASLAuthenticator(client sasl.Client) Authenticator {
	return &saslAuthenticator{client: client}
}

func (a *saslAuthenticator) Authenticate(c Authenticatable) error {
	return c.Authenticate(a.client)
}

type oauthBearerAuthenticator struct {
	username string
	source   oauth2.TokenSource
}

// NewOAuthBearerAuthenticator fetches a fresh access token from source
// on every authentication.
func NewOAuthBearerAuthenticator(username string, source oauth2.TokenSource) Authenticator {
	return &oauthBearerAuthenticator{username: username, source: source}
}

func (a *oauthBearerAuthenticator) Authenticate(c Authenticatable) error {
	tok, err := a.source.Token()
	if err != nil {
		return fmt.Errorf("retrieving oauth2 token: %w", err)
	}

	return c.Authenticate(sasl.NewOAuthBearerClient(&sasl.OAuthBearerOptions{
		Username: a.username,
		Token:    tok.AccessToken,
	}))
}

var errUnexpectedChallenge = errors.New("cram-md5: unexpected server challenge")

type cramMD5Client struct {
	username string
	secret   string
	done     bool
}

// NewCramMD5Client returns a single-round CRAM-MD5 (RFC 2195) mechanism.
func NewCramMD5Client(username, secret string) sasl.Client {
	return &cramMD5Client{username: username, secret: secret}
}

func (c *cramMD5Client) Start() (string, []byte, error) {
	return CramMD5, nil, nil
}

func (c *cramMD5Client) Next(challenge []byte) ([]byte, error) {
	if c.done {
		return nil, errUnexpectedChallenge
	}
	c.done = true

	mac := hmac.New(md5.New, []byte(c.secret))
	mac.Write(challenge)
	return []byte(c.username + " " + hex.EncodeToString(mac.Sum(nil))), nil
}
