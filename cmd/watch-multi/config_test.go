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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vs49688/mailwatch/imap"
)

func TestConfigResolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfigPath = "testdata/config.json"

	err := cfg.Resolve()
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	gmail := cfg.Accounts["gmail"]
	if assert.NotNil(t, gmail) {
		assert.Equal(t, "PLAIN", gmail.Connection.AuthMethod)
		assert.Equal(t, 5*time.Minute, gmail.Connection.KeepaliveInterval)
		assert.Equal(t, uint(15), gmail.BatchSize)
	}

	work := cfg.Accounts["work"]
	if assert.NotNil(t, work) {
		assert.Equal(t, "LOGIN", work.Connection.AuthMethod)
		assert.Equal(t, 10*time.Minute, work.Connection.KeepaliveInterval)
		assert.Equal(t, uint(5), work.BatchSize)
	}

	var labels []string
	for _, target := range cfg.ResolvedTargets {
		labels = append(labels, target.Label)
	}
	assert.Equal(t, []string{"gmail/INBOX", "work/INBOX", "work/Lists/golang-nuts"}, labels)

	last := cfg.ResolvedTargets[2].Config
	assert.Equal(t, "imap.example.com:993", last.Connection.HostPort)
	assert.True(t, last.Connection.TLS)
	assert.Equal(t, imap.NewNormalAuthenticator("user1@example.com", "password1"), last.Connection.Auth)
	assert.Equal(t, uint(5), last.BatchSize)
}

func TestConfigResolveEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfigPath = "testdata/empty.json"

	assert.Error(t, cfg.Resolve())
}
