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
	"bytes"
	"fmt"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
)

// ParseHeader builds a message from a raw RFC 5322 header block, as
// returned by BODY[HEADER].
func ParseHeader(raw []byte) (*Message, error) {
	hdr, err := textproto.ReadHeader(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	return &Message{Header: mail.Header{Header: message.Header{Header: hdr}}}, nil
}

// ParseMessage builds a message from a full RFC 822 text. Unknown
// charsets and transfer encodings are not fatal.
func ParseMessage(raw []byte) (*Message, error) {
	ent, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
		return nil, fmt.Errorf("parsing message: %w", err)
	}

	return &Message{
		Size:   uint32(len(raw)),
		Header: mail.Header{Header: ent.Header},
		Entity: ent,
	}, nil
}
