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

package oauthlogin

import (
	"fmt"

	"github.com/emersion/go-oauthdialog"
	"github.com/emersion/go-sasl"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"github.com/vs49688/mailwatch/cmd/config"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.OAuth2Config{}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "oauthlogin",
		Usage:  "Obtain an OAuth2 refresh token",
		Flags:  cfg.Parameters(),
		Action: func(context *cli.Context) error { return oauthlogin(context, cfg) },
	})
	return app
}

func oauthlogin(ctx *cli.Context, cfg *config.OAuth2Config) error {
	if err := cfg.Resolve(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"auth_url":  cfg.Config.Endpoint.AuthURL,
		"token_url": cfg.Config.Endpoint.TokenURL,
		"client_id": cfg.Config.ClientID,
		"scopes":    cfg.Config.Scopes,
	}).Info("using_provider")

	code, err := oauthdialog.Open(&cfg.Config)
	if err != nil {
		return err
	}

	tok, err := cfg.Config.Exchange(ctx.Context, code, oauth2.AccessTypeOffline)
	if err != nil {
		return err
	}

	if tok.RefreshToken == "" {
		return fmt.Errorf("provider did not return a refresh token")
	}

	w := ctx.App.Writer
	_, _ = fmt.Fprintf(w, "Your OAuth2 refresh token is:\n\n")
	_, _ = fmt.Fprintf(w, "  %v\n\n", tok.RefreshToken)
	_, _ = fmt.Fprintf(w, "You may now pass this via:\n")
	_, _ = fmt.Fprintf(w, "  --auth-method=%v (MAILWATCH_AUTH_METHOD=%v), and\n", sasl.OAuthBearer, sasl.OAuthBearer)
	_, _ = fmt.Fprintf(w, "  --password=<token> (MAILWATCH_PASSWORD=<token>) or --keyring-key\n")

	return nil
}
