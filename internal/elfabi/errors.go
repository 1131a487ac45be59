// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned if a read exceeds the buffer it is read from.
	ErrOutOfBounds = errors.New("read out of bounds")

	// ErrInvalidWidth is returned if a fixed size integer of unsupported width
	// is requested.
	ErrInvalidWidth = errors.New("invalid integer width")

	// ErrTruncated is returned if a region declared by the ELF structures lies
	// beyond the end of the file.
	ErrTruncated = errors.New("file truncated")

	// ErrSectionIndex is returned if the section name string table index
	// does not reference an existing section.
	ErrSectionIndex = errors.New("section index out of range")

	// ErrInvalidEntrySize is returned if the section header entry size is too
	// small to hold the fields of a section header.
	ErrInvalidEntrySize = errors.New("invalid section header entry size")

	// ErrMalformedAttributes is returned if the build attributes section can
	// not be decoded without losing track of attribute boundaries.
	ErrMalformedAttributes = errors.New("malformed build attributes")

	// ErrUnknownParameterType is returned if a tag carries a parameter type
	// the decoder does not know.
	ErrUnknownParameterType = errors.New("unknown parameter type")
)

// FormatError wraps errors that occur while decoding a structure of an ELF
// file that is already known to be an ELF file.
type FormatError struct {
	// Structure is the name of the structure that failed to decode.
	Structure string
	// Offset is the file offset of the structure.
	Offset int64
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s at offset %#x: %v", e.Structure, e.Offset, e.Err)
}

// Is implements the [errors.Is] interface.
func (*FormatError) Is(other error) bool {
	_, ok := other.(*FormatError)
	return ok
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
