// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

const (
	ulebDataMask         = 0x7f
	ulebContinuationFlag = 0x80
	ulebShift            = 7
)

// cursor reads sequentially from a byte buffer with a fixed byte order.
//
// All reads are bounds checked against the end of data. A failed read does
// not move the position.
type cursor struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func newCursor(data []byte, order binary.ByteOrder) *cursor {
	return &cursor{data: data, order: order}
}

// remaining returns the number of bytes left to read.
func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

// seek positions the cursor at the absolute position pos. Positioning at the
// very end of the buffer is allowed.
func (c *cursor) seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return fmt.Errorf("seek to %d of %d: %w", pos, len(c.data), ErrOutOfBounds)
	}

	c.pos = pos

	return nil
}

// sub returns a new cursor over length bytes starting at the absolute
// position start, sharing the byte order.
// The cursor itself is not moved.
func (c *cursor) sub(start, length int) (*cursor, error) {
	end := start + length
	if start < 0 || length < 0 || end > len(c.data) {
		return nil, fmt.Errorf("region [%d:%d] of %d: %w",
			start, end, len(c.data), ErrOutOfBounds)
	}

	return newCursor(c.data[start:end], c.order), nil
}

// readFixedUint reads an unsigned integer of the given width in bytes. The
// width must be one of 1, 2, 4 or 8.
func (c *cursor) readFixedUint(width int) (uint64, error) {
	value, err := fixedUint(c.data[c.pos:], width, c.order)
	if err != nil {
		return 0, err
	}

	c.pos += width

	return value, nil
}

func (c *cursor) readUint32() (uint32, error) {
	value, err := c.readFixedUint(4)
	return uint32(value), err
}

// readULEB128 decodes an unsigned LEB128 encoded integer of arbitrary size.
func (c *cursor) readULEB128() (*big.Int, error) {
	value, n, err := uleb128(c.data[c.pos:])
	if err != nil {
		return nil, err
	}

	c.pos += n

	return value, nil
}

// readString reads a null-terminated byte string. The terminator is consumed
// but not part of the returned string.
func (c *cursor) readString() (string, error) {
	s, n, err := ntbs(c.data[c.pos:])
	if err != nil {
		return "", err
	}

	c.pos += n

	return s, nil
}

// fixedUint decodes an unsigned integer of the given width from the start of
// buf.
func fixedUint(buf []byte, width int, order binary.ByteOrder) (uint64, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("%d: %w", width, ErrInvalidWidth)
	}

	if len(buf) < width {
		return 0, fmt.Errorf("%d bytes for uint%d: %w",
			len(buf), width*8, ErrOutOfBounds)
	}

	switch width {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(order.Uint16(buf)), nil
	case 4:
		return uint64(order.Uint32(buf)), nil
	default:
		return order.Uint64(buf), nil
	}
}

// uleb128 decodes an unsigned LEB128 value from the start of buf. It returns
// the value and the number of bytes consumed. Values are not limited in size,
// so malformed input with long continuation chains is not truncated.
func uleb128(buf []byte) (*big.Int, int, error) {
	var (
		result = new(big.Int)
		group  = new(big.Int)
		shift  uint
	)

	for n, b := range buf {
		group.SetUint64(uint64(b & ulebDataMask))
		result.Or(result, group.Lsh(group, shift))

		if b&ulebContinuationFlag == 0 {
			return result, n + 1, nil
		}

		shift += ulebShift
	}

	return nil, 0, fmt.Errorf("unterminated uleb128: %w", ErrOutOfBounds)
}

// ntbs decodes a null-terminated byte string from the start of buf. It returns
// the string and the number of bytes consumed including the terminator.
func ntbs(buf []byte) (string, int, error) {
	end := bytes.IndexByte(buf, 0)
	if end < 0 {
		return "", 0, fmt.Errorf("unterminated string: %w", ErrOutOfBounds)
	}

	return asciiString(buf[:end]), end + 1, nil
}

// asciiString decodes buf as ASCII. Bytes outside of the ASCII range are
// replaced by [utf8.RuneError].
func asciiString(buf []byte) string {
	var builder strings.Builder

	builder.Grow(len(buf))

	for _, b := range buf {
		if b >= utf8.RuneSelf {
			builder.WriteRune(utf8.RuneError)
			continue
		}

		builder.WriteByte(b)
	}

	return builder.String()
}
