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

package imap

import (
	"sort"
	"strconv"
	"strings"
)

// SequenceSet renders ids in the shortest sequence-set notation:
// duplicates removed, maximal contiguous runs as "a:b", everything else
// as a bare number, ascending.
func SequenceSet(ids []uint32) (string, error) {
	if len(ids) == 0 {
		return "", ErrEmptySequenceSet
	}

	sorted := make([]uint32, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sb strings.Builder
	emit := func(start, end uint32) {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(start), 10))
		if end != start {
			sb.WriteByte(':')
			sb.WriteString(strconv.FormatUint(uint64(end), 10))
		}
	}

	start, prev := sorted[0], sorted[0]
	for _, id := range sorted[1:] {
		switch {
		case id == prev:
			continue
		case id == prev+1:
			prev = id
		default:
			emit(start, prev)
			start, prev = id, id
		}
	}
	emit(start, prev)

	return sb.String(), nil
}
