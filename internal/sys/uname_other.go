// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !unix

package sys

import "runtime"

// Machine returns the architecture the running binary is built for, as there
// is no uname.
func Machine() (string, error) {
	return runtime.GOARCH, nil
}
