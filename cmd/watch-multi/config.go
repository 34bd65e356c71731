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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vs49688/mailwatch/cmd/config"
	"github.com/vs49688/mailwatch/cmd/watch"
	"github.com/vs49688/mailwatch/watcher"
)

type Account struct {
	Connection       config.IMAPConfig `json:"connection"`
	Mailboxes        []string          `json:"mailboxes,omitempty"`
	BatchSize        uint              `json:"batch_size,omitempty"`
	FallbackInterval time.Duration     `json:"fallback_interval,omitempty"`
}

func DefaultAccount() Account {
	return Account{
		Connection:       config.DefaultIMAPConfig(),
		BatchSize:        watcher.DefaultBatchSize,
		FallbackInterval: watcher.DefaultFallbackInterval,
	}
}

// UnmarshalJSON fills in defaults for anything the file leaves out.
func (a *Account) UnmarshalJSON(b []byte) error {
	type plain Account
	p := plain(DefaultAccount())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	*a = Account(p)
	return nil
}

func (a *Account) resolve(name string) ([]watch.Target, error) {
	cc := config.CliConfig{
		IMAP:             a.Connection,
		Mailboxes:        *cli.NewStringSlice(a.Mailboxes...),
		BatchSize:        a.BatchSize,
		FallbackInterval: a.FallbackInterval,
	}

	cfgs, err := cc.ResolveWatchers()
	if err != nil {
		return nil, fmt.Errorf("account %v: %w", name, err)
	}

	targets := make([]watch.Target, 0, len(cfgs))
	for _, c := range cfgs {
		targets = append(targets, watch.Target{Label: name + "/" + c.Mailbox, Config: c})
	}

	return targets, nil
}

type Configuration struct {
	ConfigPath string `json:"-"`

	Accounts  map[string]*Account `json:"accounts,omitempty"`
	LogLevel  string              `json:"log_level,omitempty"`
	LogFormat string              `json:"log_format,omitempty"`

	ResolvedTargets []watch.Target `json:"-"`
}

func DefaultConfig() Configuration {
	def := config.DefaultLogConfig()

	return Configuration{
		ConfigPath: "config.json",
		LogLevel:   def.Level,
		LogFormat:  def.Format,
	}
}

func (cfg *Configuration) Parameters() []cli.Flag {
	def := DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to configuration file, or '-' to read from stdin",
			EnvVars:     []string{"MAILWATCH_CONFIG"},
			Value:       def.ConfigPath,
			Destination: &cfg.ConfigPath,
		},
	}
}

func (cfg *Configuration) Resolve() error {
	var err error
	var raw []byte

	if cfg.ConfigPath == "" || cfg.ConfigPath == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(cfg.ConfigPath)
	}

	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, cfg); err != nil {
		return err
	}

	if len(cfg.Accounts) == 0 {
		return fmt.Errorf("no accounts configured in %v", cfg.ConfigPath)
	}

	names := make([]string, 0, len(cfg.Accounts))
	for name := range cfg.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	cfg.ResolvedTargets = nil
	for _, name := range names {
		targets, err := cfg.Accounts[name].resolve(name)
		if err != nil {
			return err
		}

		cfg.ResolvedTargets = append(cfg.ResolvedTargets, targets...)
	}

	return nil
}

func (cfg *Configuration) LogConfig() config.LogConfig {
	return config.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat}
}
