// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"debug/elf"
	"flag"
	"testing"

	"github.com/aibor/elfabi/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArch(t *testing.T) {
	tests := []struct {
		name     string
		expected sys.Arch
	}{
		{name: "x86_64", expected: sys.AMD64},
		{name: "amd64", expected: sys.AMD64},
		{name: "AMD64", expected: sys.AMD64},
		{name: "x64", expected: sys.AMD64},
		{name: "x86_64-linux-gnu", expected: sys.AMD64},
		{name: "aarch64", expected: sys.ARM64},
		{name: "arm64", expected: sys.ARM64},
		{name: "aarch64-linux-gnu", expected: sys.ARM64},
		{name: "arm", expected: sys.ARM},
		{name: "armv7", expected: sys.ARM},
		{name: "armv7l", expected: sys.ARM},
		{name: "armv6l", expected: sys.ARM},
		{name: "x86", expected: sys.I386},
		{name: "i386", expected: sys.I386},
		{name: "i686", expected: sys.I386},
		{name: "riscv64", expected: sys.RISCV64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := sys.ParseArch(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}

	for _, name := range []string{"", "sparc64", "mips", "ppc64le"} {
		t.Run("unsupported "+name, func(t *testing.T) {
			actual, err := sys.ParseArch(name)
			require.ErrorIs(t, err, sys.ErrArchNotSupported)
			assert.Equal(t, sys.ArchUnknown, actual)
		})
	}
}

func TestArchFlagValue(t *testing.T) {
	var arch sys.Arch

	flagSet := flag.NewFlagSet("test", flag.ContinueOnError)
	flagSet.Var(&arch, "arch", "")

	require.NoError(t, flagSet.Parse([]string{"-arch", "aarch64"}))
	assert.Equal(t, sys.ARM64, arch)
	assert.Equal(t, "arm64", arch.String())

	require.ErrorIs(t, arch.Set("sparc"), sys.ErrArchNotSupported)
	assert.Equal(t, sys.ARM64, arch, "must not change on error")
}

func TestArchIsNative(t *testing.T) {
	native := sys.Native
	assert.True(t, native.IsNative())

	other := sys.RISCV64
	if native == sys.RISCV64 {
		other = sys.AMD64
	}

	assert.False(t, other.IsNative())
}

func TestMachineArch(t *testing.T) {
	tests := []struct {
		machine  elf.Machine
		expected sys.Arch
	}{
		{machine: elf.EM_X86_64, expected: sys.AMD64},
		{machine: elf.EM_AARCH64, expected: sys.ARM64},
		{machine: elf.EM_ARM, expected: sys.ARM},
		{machine: elf.EM_386, expected: sys.I386},
		{machine: elf.EM_RISCV, expected: sys.RISCV64},
	}

	for _, tt := range tests {
		t.Run(tt.machine.String(), func(t *testing.T) {
			actual, err := sys.MachineArch(tt.machine)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}

	_, err := sys.MachineArch(elf.EM_PPC64)
	require.ErrorIs(t, err, sys.ErrMachineNotSupported)
}
