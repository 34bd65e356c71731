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
	"bufio"
	"errors"
	"fmt"
	"strings"

	goimap "github.com/emersion/go-imap"
)

var ErrBodyStructureFormat = errors.New("imap: malformed body structure")

type BodyPart = goimap.BodyStructure

// ParseBodyStructure parses the parenthesized BODYSTRUCTURE text and
// returns its leaf parts, depth-first. A single-part body yields one part.
func ParseBodyStructure(text string) ([]*BodyPart, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "(") {
		return nil, fmt.Errorf("%w: missing opening parenthesis", ErrBodyStructureFormat)
	}

	r := goimap.NewReader(bufio.NewReader(strings.NewReader(text + "\r\n")))
	fields, err := r.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyStructureFormat, err)
	}

	if len(fields) != 1 {
		return nil, fmt.Errorf("%w: expected a single list, got %v fields", ErrBodyStructureFormat, len(fields))
	}

	list, ok := fields[0].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: not a list", ErrBodyStructureFormat)
	}

	bs := &goimap.BodyStructure{}
	if err := bs.Parse(list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyStructureFormat, err)
	}

	var parts []*BodyPart
	var walk func(*goimap.BodyStructure)
	walk = func(b *goimap.BodyStructure) {
		if len(b.Parts) == 0 {
			parts = append(parts, b)
			return
		}
		for _, p := range b.Parts {
			walk(p)
		}
	}
	walk(bs)

	return parts, nil
}
