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

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueOrder(t *testing.T) {
	q := newQueue()
	for _, s := range []string{"a", "b", "c"} {
		q.push(&Line{Text: s})
	}
	q.close()

	var got []string
	for {
		l, ok := q.pop()
		if !ok {
			break
		}
		got = append(got, l.Text)
	}

	assert.Equal(t, []string{"a", "b", "c"}, got)

	// Closed queues drop new items.
	q.push(&Line{Text: "d"})
	_, ok := q.pop()
	assert.False(t, ok)
}

func TestQueueBlocks(t *testing.T) {
	q := newQueue()

	got := make(chan string)
	go func() {
		l, ok := q.pop()
		if ok {
			got <- l.Text
		}
		close(got)
	}()

	select {
	case <-got:
		t.Fatal("pop returned on an empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	q.push(&Line{Text: "x"})
	assert.Equal(t, "x", <-got)
}
