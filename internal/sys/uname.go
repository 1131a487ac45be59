// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package sys

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Machine returns the hardware name of the running kernel, like "x86_64" or
// "armv7l".
func Machine() (string, error) {
	var uts unix.Utsname

	err := unix.Uname(&uts)
	if err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}

	return unix.ByteSliceToString(uts.Machine[:]), nil
}
