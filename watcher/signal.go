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

package watcher

import "sync"

// signal counts events raised from the dispatcher goroutine and wakes
// the watcher loop once per burst.
type signal struct {
	mu    sync.Mutex
	count uint
	ch    chan struct{}
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{}, 1)}
}

func (s *signal) Raise(n uint) {
	if n == 0 {
		return
	}

	s.mu.Lock()
	s.count += n
	s.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *signal) C() <-chan struct{} {
	return s.ch
}

// Take returns the number of events raised since the last call and
// resets the count.
func (s *signal) Take() uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.count
	s.count = 0
	return n
}
