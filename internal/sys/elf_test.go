// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"debug/elf"
	"testing"

	"github.com/aibor/elfabi/internal/elfabi"
	"github.com/aibor/elfabi/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateELF(t *testing.T) {
	tests := []struct {
		name        string
		analysis    elfabi.Analysis
		arch        sys.Arch
		expectedErr error
	}{
		{
			name:     "arm",
			analysis: elfabi.Analysis{ELF: true, Machine: elf.EM_ARM, ARM: true},
			arch:     sys.ARM,
		},
		{
			name:     "amd64",
			analysis: elfabi.Analysis{ELF: true, Is64: true, Machine: elf.EM_X86_64},
			arch:     sys.AMD64,
		},
		{
			name:        "arm on amd64",
			analysis:    elfabi.Analysis{ELF: true, Machine: elf.EM_ARM, ARM: true},
			arch:        sys.AMD64,
			expectedErr: sys.ErrMachineNotSupported,
		},
		{
			name:        "unsupported machine",
			analysis:    elfabi.Analysis{ELF: true, Machine: elf.EM_SPARCV9},
			arch:        sys.AMD64,
			expectedErr: sys.ErrMachineNotSupported,
		},
		{
			name:        "not elf",
			arch:        sys.AMD64,
			expectedErr: sys.ErrNotELFFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sys.ValidateELF(tt.analysis, tt.arch)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestARMVariant(t *testing.T) {
	tests := []struct {
		name     string
		analysis elfabi.Analysis
		expected string
	}{
		{
			name:     "hard float flag",
			analysis: elfabi.Analysis{ELF: true, ARM: true, ARMHardFloatFlag: true},
			expected: "armhf",
		},
		{
			name:     "vfp args attribute",
			analysis: elfabi.Analysis{ELF: true, ARM: true, ARMEABIAAPCSVFP: true},
			expected: "armhf",
		},
		{
			name:     "soft float",
			analysis: elfabi.Analysis{ELF: true, ARM: true, ARMSoftFloatFlag: true},
			expected: "armel",
		},
		{
			name:     "not arm",
			analysis: elfabi.Analysis{ELF: true, Machine: elf.EM_AARCH64},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sys.ARMVariant(tt.analysis))
		})
	}
}
