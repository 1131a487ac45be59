// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for elfabi. It handles flag
// parsing, concurrent analysis, report rendering and exit codes.
package cmd
