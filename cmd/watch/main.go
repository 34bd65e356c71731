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

package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vs49688/mailwatch/cmd/config"
	"github.com/vs49688/mailwatch/imap"
	"github.com/vs49688/mailwatch/imap/client"
	"github.com/vs49688/mailwatch/watcher"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "watch",
		Usage:  "Watch mailboxes for new mail",
		Flags:  cfg.Parameters(),
		Action: func(context *cli.Context) error { return watch(context, cfg) },
	})
	return app
}

type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) print(label string, msg *imap.Message) {
	subject, err := msg.Header.Subject()
	if err != nil {
		subject = msg.Header.Get("Subject")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, "%v\t%v\t%v\t%v\n", label, msg.UID, msg.Header.Get("From"), subject)
}

// HandleSignals cancels on the first SIGINT/SIGTERM and exits the
// process on the second.
func HandleSignals(ctx context.Context, cancel context.CancelFunc) {
	sigchan := make(chan os.Signal, 10)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)

	done := ctx.Done()
	sigcount := 0
	for {
		select {
		case sig := <-sigchan:
			log.WithFields(log.Fields{"signal": sig, "count": sigcount}).Trace("caught_signal")

			sigcount += 1
			if sigcount > 1 {
				log.WithFields(log.Fields{"signal": sig}).Warn("received_interrupt_force_exit")
				os.Exit(1)
			}
			log.WithFields(log.Fields{"signal": sig}).Info("received_interrupt")

			// From here on only a second signal matters.
			done = nil
			cancel()
		case <-done:
			signal.Stop(sigchan)
			return
		}
	}
}

// Target is a watcher and the label its messages are printed under.
type Target struct {
	Label  string
	Config watcher.Config
}

// Run starts a watcher per target and prints a line per new message
// until ctx ends or any watcher fails.
func Run(ctx context.Context, targets []Target, factory imap.Factory, out io.Writer) error {
	g, gctx := errgroup.WithContext(ctx)
	p := &printer{w: out}

	for i := range targets {
		ch := make(chan *imap.Message, 16)
		wcfg := targets[i].Config
		wcfg.Channel = ch

		w, err := watcher.New(&wcfg, factory)
		if err != nil {
			// Stop whatever already started.
			g.Go(func() error { return err })
			break
		}

		label := targets[i].Label
		g.Go(func() error { return w.Run(gctx) })
		g.Go(func() error {
			for {
				select {
				case msg := <-ch:
					p.print(label, msg)
				case <-gctx.Done():
					return nil
				}
			}
		})
	}

	return g.Wait()
}

func watch(cctx *cli.Context, cfg *config.CliConfig) error {
	cfg.Log.Apply()

	log.WithFields(cfg.LogFields()).Info("starting")

	cfgs, err := cfg.ResolveWatchers()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cctx.Context)
	defer cancel()

	go HandleSignals(ctx, cancel)

	targets := make([]Target, 0, len(cfgs))
	for _, c := range cfgs {
		targets = append(targets, Target{Label: c.Mailbox, Config: c})
	}

	err = Run(ctx, targets, &client.Factory{}, cctx.App.Writer)
	log.WithError(err).Info("watch_terminated")
	return err
}
