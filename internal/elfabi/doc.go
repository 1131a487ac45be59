// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package elfabi analyses ELF files for ABI details that can not be derived
// from OS and CPU names alone. Its main use is to find out if an ARM binary
// was built for the hardware floating-point procedure-call standard
// (hardfloat) or the software one (softfloat).
//
// For this, the ELF header, the section header table and the ARM build
// attributes section ".ARM.attributes" are parsed. Files that are not ELF
// files are not an error. They result in an [Analysis] that has all fields
// unset.
package elfabi
