// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"debug/elf"
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// Arch is a CPU architecture named like the Go toolchain does.
type Arch string

// Known architectures.
const (
	ArchUnknown Arch = ""
	AMD64       Arch = "amd64"
	ARM64       Arch = "arm64"
	ARM         Arch = "arm"
	I386        Arch = "386"
	RISCV64     Arch = "riscv64"
)

// Native is the architecture the running binary is built for.
const Native Arch = Arch(runtime.GOARCH)

type archAliases struct {
	arch    Arch
	aliases []string
}

// Order matters: for each alias position, later entries override earlier
// matches, so "x86_64-linux-gnu" resolves to [AMD64] although it contains
// "x86".
//
//nolint:gochecknoglobals
var archAliasTable = []archAliases{
	{ARM64, []string{"aarch64", "arm64"}},
	{ARM, []string{"arm", "armv7"}},
	{I386, []string{"x86", "i386", "i486", "i586", "i686"}},
	{AMD64, []string{"x86_64", "amd64", "x64"}},
	{RISCV64, []string{"riscv64"}},
}

// ParseArch maps an architecture name, as reported by uname or used by
// toolchains, to an [Arch].
//
// The name is matched case-insensitively against the known aliases. An exact
// match takes precedence. Otherwise aliases are matched by substring. Alias
// positions are tried in order, and within a position the last matching
// architecture wins.
func ParseArch(name string) (Arch, error) {
	return matchAliases(strings.ToLower(name), archAliasTable,
		func(e archAliases) []string { return e.aliases },
		func(e archAliases) (Arch, bool) { return e.arch, true },
		func(name string) (Arch, error) {
			return ArchUnknown, fmt.Errorf("%w: %s", ErrArchNotSupported, name)
		},
	)
}

// MachineArch returns the architecture of the given ELF machine.
func MachineArch(machine elf.Machine) (Arch, error) {
	switch machine {
	case elf.EM_X86_64:
		return AMD64, nil
	case elf.EM_AARCH64:
		return ARM64, nil
	case elf.EM_ARM:
		return ARM, nil
	case elf.EM_386:
		return I386, nil
	case elf.EM_RISCV:
		return RISCV64, nil
	default:
		return ArchUnknown, fmt.Errorf("%w: %s", ErrMachineNotSupported, machine)
	}
}

func (a *Arch) String() string {
	return string(*a)
}

// Set implements [flag.Value].
func (a *Arch) Set(s string) error {
	arch, err := ParseArch(s)
	if err != nil {
		return err
	}

	*a = arch

	return nil
}

// IsNative returns true if a is the architecture the running binary is built
// for.
func (a *Arch) IsNative() bool {
	return Native == *a
}

// matchAliases returns the value of the table entry with an alias equal to
// name. If there is none, the entry whose alias is contained in name is
// searched. All entries are tried for the first alias, then all entries for
// the second alias and so on. The last match wins. Entries for which accept
// returns false are skipped.
func matchAliases[E any, V any](
	name string,
	table []E,
	aliases func(E) []string,
	accept func(E) (V, bool),
	notFound func(string) (V, error),
) (V, error) {
	var (
		result V
		found  bool
	)

	maxAliases := 0

	for _, entry := range table {
		maxAliases = max(maxAliases, len(aliases(entry)))

		if !slices.Contains(aliases(entry), name) {
			continue
		}

		if value, ok := accept(entry); ok {
			return value, nil
		}
	}

	for idx := range maxAliases {
		for _, entry := range table {
			entryAliases := aliases(entry)
			if idx >= len(entryAliases) || !strings.Contains(name, entryAliases[idx]) {
				continue
			}

			value, ok := accept(entry)
			if !ok {
				continue
			}

			result, found = value, true
		}
	}

	if !found {
		return notFound(name)
	}

	return result, nil
}
