// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorReadFixedUint(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	tests := []struct {
		name        string
		order       binary.ByteOrder
		width       int
		expected    uint64
		expectedErr error
	}{
		{
			name:     "uint8",
			order:    binary.LittleEndian,
			width:    1,
			expected: 0x01,
		},
		{
			name:     "uint16 little endian",
			order:    binary.LittleEndian,
			width:    2,
			expected: 0x0201,
		},
		{
			name:     "uint16 big endian",
			order:    binary.BigEndian,
			width:    2,
			expected: 0x0102,
		},
		{
			name:     "uint32 little endian",
			order:    binary.LittleEndian,
			width:    4,
			expected: 0x04030201,
		},
		{
			name:     "uint32 big endian",
			order:    binary.BigEndian,
			width:    4,
			expected: 0x01020304,
		},
		{
			name:     "uint64 little endian",
			order:    binary.LittleEndian,
			width:    8,
			expected: 0x0807060504030201,
		},
		{
			name:     "uint64 big endian",
			order:    binary.BigEndian,
			width:    8,
			expected: 0x0102030405060708,
		},
		{
			name:        "invalid width",
			order:       binary.LittleEndian,
			width:       3,
			expectedErr: ErrInvalidWidth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCursor(data, tt.order)

			actual, err := c.readFixedUint(tt.width)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				assert.Equal(t, 0, c.pos, "position must not move")
				return
			}

			assert.Equal(t, tt.expected, actual)
			assert.Equal(t, tt.width, c.pos)
		})
	}

	t.Run("out of bounds", func(t *testing.T) {
		c := newCursor(data, binary.LittleEndian)
		require.NoError(t, c.seek(6))

		_, err := c.readFixedUint(4)
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 6, c.pos, "position must not move")
	})
}

func TestCursorReadULEB128(t *testing.T) {
	maxUint128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	tests := []struct {
		name     string
		value    *big.Int
		encoding []byte
	}{
		{
			name:     "zero",
			value:    big.NewInt(0),
			encoding: []byte{0x00},
		},
		{
			name:     "127",
			value:    big.NewInt(127),
			encoding: []byte{0x7f},
		},
		{
			name:     "128",
			value:    big.NewInt(128),
			encoding: []byte{0x80, 0x01},
		},
		{
			name:     "max uint32",
			value:    new(big.Int).SetUint64(1<<32 - 1),
			encoding: []byte{0xff, 0xff, 0xff, 0xff, 0x0f},
		},
		{
			name:  "max uint64",
			value: new(big.Int).SetUint64(1<<64 - 1),
			encoding: []byte{
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01,
			},
		},
		{
			name:  "max uint128",
			value: maxUint128,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := AppendULEB128(nil, tt.value)
			if tt.encoding != nil {
				assert.Equal(t, tt.encoding, encoded, "encoding")
			}

			// Trailing byte must not be consumed.
			c := newCursor(append(encoded, 0x2a), binary.LittleEndian)

			actual, err := c.readULEB128()
			require.NoError(t, err)

			assert.Zero(t, tt.value.Cmp(actual), "expected %s, got %s", tt.value, actual)
			assert.Equal(t, len(encoded), c.pos, "position")
		})
	}

	t.Run("unterminated", func(t *testing.T) {
		c := newCursor([]byte{0x80, 0x80}, binary.LittleEndian)

		_, err := c.readULEB128()
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, c.pos, "position must not move")
	})

	t.Run("empty", func(t *testing.T) {
		c := newCursor(nil, binary.LittleEndian)

		_, err := c.readULEB128()
		require.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestCursorReadString(t *testing.T) {
	t.Run("terminated", func(t *testing.T) {
		c := newCursor([]byte("aeabi\x00extra"), binary.LittleEndian)

		actual, err := c.readString()
		require.NoError(t, err)

		assert.Equal(t, "aeabi", actual)
		assert.Equal(t, 6, c.pos, "position must be after terminator")
	})

	t.Run("empty string", func(t *testing.T) {
		c := newCursor([]byte{0x00, 0x01}, binary.LittleEndian)

		actual, err := c.readString()
		require.NoError(t, err)

		assert.Empty(t, actual)
		assert.Equal(t, 1, c.pos)
	})

	t.Run("unterminated", func(t *testing.T) {
		c := newCursor([]byte("aeabi"), binary.LittleEndian)

		_, err := c.readString()
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, c.pos, "position must not move")
	})

	t.Run("non ascii bytes", func(t *testing.T) {
		c := newCursor([]byte("7\xe9A\xff\x00"), binary.LittleEndian)

		actual, err := c.readString()
		require.NoError(t, err)

		assert.Equal(t, "7\uFFFDA\uFFFD", actual)
		assert.Equal(t, 5, c.pos)
	})

	t.Run("limited by sub cursor", func(t *testing.T) {
		c := newCursor([]byte("aeabi\x00"), binary.LittleEndian)

		sub, err := c.sub(0, 3)
		require.NoError(t, err)

		_, err = sub.readString()
		require.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestCursorSub(t *testing.T) {
	c := newCursor([]byte{1, 2, 3, 4}, binary.BigEndian)

	sub, err := c.sub(1, 2)
	require.NoError(t, err)

	value, err := sub.readFixedUint(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0203), value)
	assert.Zero(t, sub.remaining())

	_, err = c.sub(3, 2)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = c.sub(-1, 1)
	require.ErrorIs(t, err, ErrOutOfBounds)

	require.ErrorIs(t, c.seek(5), ErrOutOfBounds)
	require.NoError(t, c.seek(4))
	assert.Zero(t, c.remaining())
}
