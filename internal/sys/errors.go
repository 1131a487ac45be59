// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"
	"fmt"
)

var (
	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrMachineNotSupported is returned if the machine type of an ELF file
	// is not supported.
	ErrMachineNotSupported = errors.New("machine type not supported")

	// ErrEmptyPath is returned if an empty path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrArchNotSupported is returned if an architecture name can not be
	// mapped to a known architecture.
	ErrArchNotSupported = errors.New("architecture not supported")
)

// LDDExecError is returned if the "ldd" executable can not be run or exits
// with a non-zero exit code.
type LDDExecError struct {
	Err    error
	Stderr string
}

func (e *LDDExecError) Error() string {
	msg := "ldd failed"
	if e.Err != nil {
		msg = "ldd: " + e.Err.Error()
	}

	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*LDDExecError) Is(other error) bool {
	_, ok := other.(*LDDExecError)
	return ok
}

func (e *LDDExecError) Unwrap() error {
	return e.Err
}
