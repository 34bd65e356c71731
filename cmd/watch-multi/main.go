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

package watch_multi

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/vs49688/mailwatch/cmd/watch"
	"github.com/vs49688/mailwatch/imap/client"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := DefaultConfig()
	app.Commands = append(app.Commands, &cli.Command{
		Name:                   "watch-multi",
		Usage:                  "Watch mailboxes of several accounts, described by a json file",
		Flags:                  cfg.Parameters(),
		UseShortOptionHandling: true,
		Before: func(context *cli.Context) error {
			return cfg.Resolve()
		},
		Action: func(context *cli.Context) error {
			return run(context, &cfg)
		},
	})
	return app
}

func run(cctx *cli.Context, cfg *Configuration) error {
	logConfig := cfg.LogConfig()
	logConfig.Apply()

	labels := make([]string, 0, len(cfg.ResolvedTargets))
	for _, t := range cfg.ResolvedTargets {
		labels = append(labels, t.Label)
	}
	log.WithField("targets", labels).Info("starting")

	ctx, cancel := context.WithCancel(cctx.Context)
	defer cancel()

	go watch.HandleSignals(ctx, cancel)

	err := watch.Run(ctx, cfg.ResolvedTargets, &client.Factory{}, cctx.App.Writer)
	log.WithError(err).Info("watch_terminated")
	return err
}
