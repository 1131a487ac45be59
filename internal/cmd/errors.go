// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
)

var (
	// ErrHelp is returned if help or version information is requested.
	ErrHelp = flag.ErrHelp

	// ErrReadBuildInfo is returned if the build information of the binary is
	// not available.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrNotRegularFile is returned if an input is not a regular file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrUnknownFormat is returned for unsupported output formats.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrNotHardFloat is returned if hardfloat is required and an analysed
	// ARM file is not hardfloat.
	ErrNotHardFloat = errors.New("ARM file is not hardfloat")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
