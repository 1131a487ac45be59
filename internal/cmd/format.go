// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import "fmt"

// OutputFormat is the format reports are rendered in.
type OutputFormat string

// Supported output formats.
const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

func (f *OutputFormat) String() string {
	return string(*f)
}

// Set implements [flag.Value].
func (f *OutputFormat) Set(s string) error {
	switch format := OutputFormat(s); format {
	case FormatText, FormatJSON, FormatYAML:
		*f = format
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}

	return nil
}
