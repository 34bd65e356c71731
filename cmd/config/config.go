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
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/vs49688/mailwatch/imap"
	"github.com/vs49688/mailwatch/watcher"
)

func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

func DefaultConfig() CliConfig {
	return CliConfig{
		IMAP:             DefaultIMAPConfig(),
		Log:              DefaultLogConfig(),
		BatchSize:        watcher.DefaultBatchSize,
		FallbackInterval: watcher.DefaultFallbackInterval,
	}
}

func (cfg *LogConfig) Parameters() []cli.Flag {
	def := DefaultLogConfig()

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "logging level",
			EnvVars:     []string{"MAILWATCH_LOG_LEVEL"},
			Destination: &cfg.Level,
			Value:       def.Level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "logging format (text/json)",
			EnvVars:     []string{"MAILWATCH_LOG_FORMAT"},
			Destination: &cfg.Format,
			Value:       def.Format,
		},
	}
}

// Apply configures the global logger. An unparseable level is ignored.
func (cfg *LogConfig) Apply() {
	if logLevel, err := log.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(logLevel)
	}

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func (cfg *CliConfig) Parameters() []cli.Flag {
	def := DefaultConfig()

	var flags []cli.Flag
	flags = append(flags, cfg.IMAP.Parameters()...)
	flags = append(flags, cfg.Log.Parameters()...)
	flags = append(flags, []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "mailbox",
			Usage:       "mailbox to watch, may be repeated. defaults to the one in the url",
			EnvVars:     []string{"MAILWATCH_MAILBOX"},
			Destination: &cfg.Mailboxes,
		},
		&cli.UintFlag{
			Name:        "batch-size",
			Usage:       "maximum number of headers fetched at once",
			EnvVars:     []string{"MAILWATCH_BATCH_SIZE"},
			Destination: &cfg.BatchSize,
			Value:       def.BatchSize,
		},
		&cli.DurationFlag{
			Name:        "fallback-interval",
			Usage:       "poll interval when no push event arrives. negative to disable",
			EnvVars:     []string{"MAILWATCH_FALLBACK_INTERVAL"},
			Destination: &cfg.FallbackInterval,
			Value:       def.FallbackInterval,
		},
	}...)

	return flags
}

// ResolveWatchers builds one watcher config per mailbox. Without any
// --mailbox, the mailbox from the url, or INBOX, is watched.
func (cfg *CliConfig) ResolveWatchers() ([]watcher.Config, error) {
	def := DefaultConfig()

	connConfig, err := cfg.IMAP.Resolve()
	if err != nil {
		return nil, err
	}

	mailboxes := cfg.Mailboxes.Value()
	if len(mailboxes) == 0 {
		mailboxes = []string{connConfig.Mailbox}
		if connConfig.Mailbox == "" {
			mailboxes[0] = imap.InboxName
		}
	}

	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = def.BatchSize
	}

	fallbackInterval := cfg.FallbackInterval
	if fallbackInterval == 0 {
		fallbackInterval = def.FallbackInterval
	}

	seen := map[string]struct{}{}
	var out []watcher.Config
	for _, mb := range mailboxes {
		if _, ok := seen[mb]; ok {
			continue
		}
		seen[mb] = struct{}{}

		out = append(out, watcher.Config{
			Connection:       connConfig,
			Mailbox:          mb,
			BatchSize:        batchSize,
			FallbackInterval: fallbackInterval,
		})
	}

	return out, nil
}

func (cfg *CliConfig) LogFields() log.Fields {
	return log.Fields{
		"url":                cfg.IMAP.URL,
		"auth_method":        cfg.IMAP.AuthMethod,
		"username":           cfg.IMAP.Username,
		"password_file":      cfg.IMAP.PasswordFile,
		"systemd_credential": cfg.IMAP.SystemdCredential,
		"keyring_key":        cfg.IMAP.KeyringKey,
		"tls_skip_verify":    cfg.IMAP.TLSSkipVerify,
		"debug":              cfg.IMAP.Debug,
		"keepalive_interval": cfg.IMAP.KeepaliveInterval,
		"mailboxes":          cfg.Mailboxes.Value(),
		"log_level":          cfg.Log.Level,
		"log_format":         cfg.Log.Format,
		"batch_size":         cfg.BatchSize,
		"fallback_interval":  cfg.FallbackInterval,
	}
}
