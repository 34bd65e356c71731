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
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"github.com/vs49688/mailwatch/imap"
	"github.com/vs49688/mailwatch/imap/session"
)

const AuthMethodLogin = "LOGIN"

func DefaultIMAPConfig() IMAPConfig {
	return IMAPConfig{
		AuthMethod:        AuthMethodLogin,
		TLSSkipVerify:     false,
		Debug:             false,
		KeepaliveInterval: session.DefaultKeepaliveInterval,
		OAuth2:            DefaultOAuth2Config(),
	}
}

func (cfg *IMAPConfig) Parameters() []cli.Flag {
	def := DefaultIMAPConfig()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Usage:       "imap url, imap[s]://host[:port]/mailbox",
			EnvVars:     []string{"MAILWATCH_URL"},
			Destination: &cfg.URL,
			Required:    true,
			Value:       def.URL,
		},
		&cli.StringFlag{
			Name:        "auth-method",
			Usage:       "auth method (LOGIN, PLAIN, CRAM-MD5, OAUTHBEARER)",
			EnvVars:     []string{"MAILWATCH_AUTH_METHOD"},
			Destination: &cfg.AuthMethod,
			Value:       def.AuthMethod,
		},
		&cli.StringFlag{
			Name:        "username",
			Usage:       "imap username",
			EnvVars:     []string{"MAILWATCH_USERNAME"},
			Destination: &cfg.Username,
			Value:       def.Username,
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "imap password, or oauth2 refresh token",
			EnvVars:     []string{"MAILWATCH_PASSWORD"},
			Destination: &cfg.Password,
			Value:       def.Password,
		},
		&cli.StringFlag{
			Name:        "password-file",
			Usage:       "imap password file",
			EnvVars:     []string{"MAILWATCH_PASSWORD_FILE"},
			Destination: &cfg.PasswordFile,
			Value:       def.PasswordFile,
		},
		&cli.StringFlag{
			Name:        "systemd-credential",
			Usage:       "name of the systemd credential holding the password",
			EnvVars:     []string{"MAILWATCH_SYSTEMD_CREDENTIAL"},
			Destination: &cfg.SystemdCredential,
			Value:       def.SystemdCredential,
		},
		&cli.StringFlag{
			Name:        "keyring-key",
			Usage:       "key of the system keyring item holding the password",
			EnvVars:     []string{"MAILWATCH_KEYRING_KEY"},
			Destination: &cfg.KeyringKey,
			Value:       def.KeyringKey,
		},
		&cli.BoolFlag{
			Name:        "tls-skip-verify",
			Usage:       "skip tls verification",
			EnvVars:     []string{"MAILWATCH_TLS_SKIP_VERIFY"},
			Destination: &cfg.TLSSkipVerify,
			Value:       def.TLSSkipVerify,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "trace the imap conversation",
			EnvVars:     []string{"MAILWATCH_DEBUG"},
			Destination: &cfg.Debug,
			Value:       def.Debug,
		},
		&cli.DurationFlag{
			Name:        "keepalive-interval",
			Usage:       "interval between NOOPs while idling",
			EnvVars:     []string{"MAILWATCH_KEEPALIVE_INTERVAL"},
			Destination: &cfg.KeepaliveInterval,
			Value:       def.KeepaliveInterval,
		},
	}

	return append(flags, cfg.OAuth2.Parameters()...)
}

func extractUrl(u *url.URL) (string, string, bool, error) {
	var defaultPort string
	var useTLS bool
	switch strings.ToLower(u.Scheme) {
	case "imap":
		defaultPort = "143"
		useTLS = false
	case "imaps":
		defaultPort = "993"
		useTLS = true
	default:
		return "", "", false, errInvalidScheme
	}

	host := u.Hostname()
	port := u.Port()

	if port == "" {
		port = defaultPort
	}

	return net.JoinHostPort(host, port), strings.TrimPrefix(u.Path, "/"), useTLS, nil
}

func readSystemdCredential(name string) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %v", errInvalidCredentialName, name)
	}

	dir, ok := os.LookupEnv("CREDENTIALS_DIRECTORY")
	if !ok {
		return "", errNoCredentialsDir
	}

	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

// resolvePassword picks the first configured source, in order: password,
// password file, systemd credential, keyring.
func (cfg *IMAPConfig) resolvePassword() (string, error) {
	switch {
	case cfg.Password != "":
		return cfg.Password, nil
	case cfg.PasswordFile != "":
		pass, err := os.ReadFile(cfg.PasswordFile)
		if err != nil {
			return "", err
		}

		return strings.TrimSpace(string(pass)), nil
	case cfg.SystemdCredential != "":
		return readSystemdCredential(cfg.SystemdCredential)
	case cfg.KeyringKey != "":
		return readKeyring(cfg.KeyringKey)
	default:
		return "", fmt.Errorf("one of the \"password\", \"password-file\", \"systemd-credential\" or \"keyring-key\" flags is required")
	}
}

func (cfg *IMAPConfig) validateUserPass() (string, string, error) {
	if cfg.Username == "" {
		return "", "", fmt.Errorf("\"username\" is required when using %v auth", cfg.AuthMethod)
	}

	password, err := cfg.resolvePassword()
	if err != nil {
		return "", "", err
	}

	return cfg.Username, password, nil
}

func (cfg *IMAPConfig) resolveAuth() (imap.Authenticator, error) {
	user, pass, err := cfg.validateUserPass()
	if err != nil {
		return nil, err
	}

	switch strings.ToUpper(cfg.AuthMethod) {
	case "", AuthMethodLogin, "NORMAL":
		return imap.NewNormalAuthenticator(user, pass), nil
	case sasl.Plain:
		return imap.NewSASLAuthenticator(sasl.NewPlainClient("", user, pass)), nil
	case imap.CramMD5:
		return imap.NewSASLAuthenticator(imap.NewCramMD5Client(user, pass)), nil
	case sasl.OAuthBearer:
		if err := cfg.OAuth2.Resolve(); err != nil {
			return nil, err
		}

		// The configured secret is the refresh token.
		ts := cfg.OAuth2.Config.TokenSource(context.Background(), &oauth2.Token{RefreshToken: pass})
		return imap.NewOAuthBearerAuthenticator(user, ts), nil
	default:
		return nil, fmt.Errorf("unsupported auth method: %v", cfg.AuthMethod)
	}
}

func (cfg *IMAPConfig) Resolve() (imap.ConnectionConfig, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return imap.ConnectionConfig{}, err
	}

	hostPort, mailbox, wantTLS, err := extractUrl(u)
	if err != nil {
		return imap.ConnectionConfig{}, err
	}

	auth, err := cfg.resolveAuth()
	if err != nil {
		return imap.ConnectionConfig{}, err
	}

	connConfig := imap.ConnectionConfig{
		HostPort:          hostPort,
		Auth:              auth,
		Mailbox:           mailbox,
		TLS:               wantTLS,
		TLSConfig:         nil,
		Debug:             cfg.Debug,
		KeepaliveInterval: cfg.KeepaliveInterval,
	}

	if cfg.TLSSkipVerify {
		// #nosec G402
		connConfig.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return connConfig, nil
}
