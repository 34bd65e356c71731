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

package caps

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/vs49688/mailwatch/cmd/config"
	"github.com/vs49688/mailwatch/imap"
	"github.com/vs49688/mailwatch/imap/client"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}

	var flags []cli.Flag
	flags = append(flags, cfg.IMAP.Parameters()...)
	flags = append(flags, cfg.Log.Parameters()...)

	app.Commands = append(app.Commands, &cli.Command{
		Name:   "caps",
		Usage:  "Log in and print the server's capabilities",
		Flags:  flags,
		Action: func(context *cli.Context) error { return caps(context, cfg) },
	})
	return app
}

func printCapabilities(factory imap.Factory, connConfig *imap.ConnectionConfig, out io.Writer) error {
	c, err := factory.NewClient(connConfig)
	if err != nil {
		return err
	}

	capabilities, err := c.Capabilities()
	if err != nil {
		_ = c.Close()
		return err
	}

	for _, name := range capabilities {
		_, _ = fmt.Fprintln(out, name)
	}

	if mb := c.Mailbox(); mb != nil && mb.Name != "" {
		log.WithFields(log.Fields{
			"mailbox":     mb.Name,
			"messages":    mb.Messages,
			"uid_next":    mb.UIDNext,
			"uidvalidity": mb.UIDValidity,
		}).Info("mailbox_selected")
	}

	return c.Logout()
}

func caps(cctx *cli.Context, cfg *config.CliConfig) error {
	cfg.Log.Apply()

	connConfig, err := cfg.IMAP.Resolve()
	if err != nil {
		return err
	}

	return printCapabilities(&client.Factory{}, &connConfig, cctx.App.Writer)
}
