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
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
	ProviderCustom    = "custom"
)

var oauthProviders = map[string]oauth2.Config{
	ProviderGoogle: {
		Endpoint: endpoints.Google,
		Scopes:   []string{"https://mail.google.com/"},
	},
	ProviderMicrosoft: {
		Endpoint: endpoints.AzureAD("common"),
		Scopes:   []string{"https://outlook.office.com/IMAP.AccessAsUser.All", "offline_access"},
	},
}

func DefaultOAuth2Config() OAuth2Config {
	return OAuth2Config{
		Provider: ProviderGoogle,
	}
}

func (cfg *OAuth2Config) Parameters() []cli.Flag {
	def := DefaultOAuth2Config()

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "oauth2-provider",
			Usage:       "oauth2 provider (google, microsoft, custom)",
			EnvVars:     []string{"MAILWATCH_OAUTH2_PROVIDER"},
			Destination: &cfg.Provider,
			Value:       def.Provider,
		},
		&cli.StringFlag{
			Name:        "oauth2-client-id",
			Usage:       "oauth2 client id",
			EnvVars:     []string{"MAILWATCH_OAUTH2_CLIENT_ID"},
			Destination: &cfg.ClientID,
			Value:       def.ClientID,
		},
		&cli.StringFlag{
			Name:        "oauth2-client-secret",
			Usage:       "oauth2 client secret",
			EnvVars:     []string{"MAILWATCH_OAUTH2_CLIENT_SECRET"},
			Destination: &cfg.ClientSecret,
			Value:       def.ClientSecret,
		},
		&cli.StringFlag{
			Name:        "oauth2-auth-url",
			Usage:       "oauth2 authorization url, custom provider only",
			EnvVars:     []string{"MAILWATCH_OAUTH2_AUTH_URL"},
			Destination: &cfg.AuthURL,
			Value:       def.AuthURL,
		},
		&cli.StringFlag{
			Name:        "oauth2-token-url",
			Usage:       "oauth2 token url, custom provider only",
			EnvVars:     []string{"MAILWATCH_OAUTH2_TOKEN_URL"},
			Destination: &cfg.TokenURL,
			Value:       def.TokenURL,
		},
	}
}

func (cfg *OAuth2Config) Resolve() error {
	if cfg.ClientID == "" {
		return fmt.Errorf("\"oauth2-client-id\" is required for oauth2")
	}

	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = ProviderGoogle
	}

	if provider == ProviderCustom {
		if cfg.AuthURL == "" || cfg.TokenURL == "" {
			return fmt.Errorf("\"oauth2-auth-url\" and \"oauth2-token-url\" are required for the custom provider")
		}

		cfg.Config = oauth2.Config{
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		}
	} else {
		base, ok := oauthProviders[provider]
		if !ok {
			return fmt.Errorf("unknown oauth2 provider: %v", cfg.Provider)
		}
		cfg.Config = base
		cfg.Config.Scopes = append([]string(nil), base.Scopes...)
	}

	cfg.Config.ClientID = cfg.ClientID
	cfg.Config.ClientSecret = cfg.ClientSecret
	return nil
}
