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

package config

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

var (
	errInvalidScheme         = errors.New("invalid uri scheme")
	errInvalidCredentialName = errors.New("invalid systemd credential name")
	errNoCredentialsDir      = errors.New("$CREDENTIALS_DIRECTORY is not set")
)

type OAuth2Config struct {
	Provider     string `json:"provider"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	AuthURL      string `json:"auth_url"`
	TokenURL     string `json:"token_url"`

	// Config is filled in by Resolve.
	Config oauth2.Config `json:"-"`
}

type IMAPConfig struct {
	URL               string        `json:"url"`
	AuthMethod        string        `json:"auth_method"`
	Username          string        `json:"username"`
	Password          string        `json:"-"`
	PasswordFile      string        `json:"password_file"`
	SystemdCredential string        `json:"systemd_credential"`
	KeyringKey        string        `json:"keyring_key"`
	TLSSkipVerify     bool          `json:"tls_skip_verify"`
	Debug             bool          `json:"debug"`
	KeepaliveInterval time.Duration `json:"keepalive_interval"`
	OAuth2            OAuth2Config  `json:"oauth2"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type CliConfig struct {
	IMAP             IMAPConfig      `json:"imap"`
	Log              LogConfig       `json:"log"`
	Mailboxes        cli.StringSlice `json:"-"`
	BatchSize        uint            `json:"batch_size"`
	FallbackInterval time.Duration   `json:"fallback_interval"`
}
