// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive_test

import (
	"bytes"
	"debug/elf"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/aibor/elfabi/internal/archive"
	"github.com/aibor/elfabi/internal/elfabi"
	"github.com/cavaliergopher/cpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMembers() []archive.TestMember {
	return []archive.TestMember{
		{Name: "usr", Mode: cpio.TypeDir | 0o755},
		{Name: "usr/lib", Mode: cpio.TypeDir | 0o755},
		{
			Name: "usr/lib/libarmhf.so",
			Body: elfabi.TestFile{
				Class:   elf.ELFCLASS32,
				Machine: elf.EM_ARM,
				Flags:   0x05000000 | elfabi.ARMFlagABIFloatHard,
			}.Bytes(),
		},
		{
			Name: "./usr/lib/libarmel.so",
			Body: elfabi.TestFile{
				Class:   elf.ELFCLASS32,
				Machine: elf.EM_ARM,
				Flags:   0x05000000 | elfabi.ARMFlagABIFloatSoft,
			}.Bytes(),
		},
		{Name: "lib", Mode: cpio.TypeSymlink | 0o777, Body: []byte("usr/lib")},
		{Name: "init", Body: []byte("#!/bin/sh\nexec /bin/sh\n")},
		{Name: "empty", Body: nil},
	}
}

func TestScan(t *testing.T) {
	data := archive.TestArchive(t, testMembers()...)

	tests := []struct {
		name     string
		pattern  string
		expected map[string]bool
	}{
		{
			name:    "all",
			pattern: "",
			expected: map[string]bool{
				"/usr/lib/libarmhf.so": true,
				"/usr/lib/libarmel.so": false,
				"/init":                false,
				"/empty":               false,
			},
		},
		{
			name:    "shared objects",
			pattern: "/usr/lib/*.so",
			expected: map[string]bool{
				"/usr/lib/libarmhf.so": true,
				"/usr/lib/libarmel.so": false,
			},
		},
		{
			name:    "star does not cross directories",
			pattern: "/*",
			expected: map[string]bool{
				"/init":  false,
				"/empty": false,
			},
		},
		{
			name:     "no match",
			pattern:  "/bin/**",
			expected: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner, err := archive.NewScanner(tt.pattern)
			require.NoError(t, err)

			entries, err := scanner.Scan(bytes.NewReader(data))
			require.NoError(t, err)

			actual := make(map[string]bool, len(entries))
			for _, entry := range entries {
				actual[entry.Name] = entry.Analysis.ARMHardFloat()
			}

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestScanEntries(t *testing.T) {
	data := archive.TestArchive(t, testMembers()...)

	scanner, err := archive.NewScanner("")
	require.NoError(t, err)

	entries, err := scanner.Scan(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "/usr/lib/libarmhf.so", entries[0].Name, "archive order")
	assert.True(t, entries[0].Analysis.ELF)
	assert.True(t, entries[0].Analysis.ARM)
	assert.Equal(t, int64(len(testMembers()[2].Body)), entries[0].Size)

	assert.Equal(t, "/init", entries[2].Name)
	assert.False(t, entries[2].Analysis.ELF)
}

func TestScanErrors(t *testing.T) {
	t.Run("invalid pattern", func(t *testing.T) {
		_, err := archive.NewScanner("/usr/[lib")
		require.Error(t, err)
	})

	t.Run("member too large", func(t *testing.T) {
		data := archive.TestArchive(t, testMembers()...)
		scanner := archive.Scanner{MaxMemberSize: 16}

		entries, err := scanner.Scan(bytes.NewReader(data))
		require.ErrorIs(t, err, archive.ErrMemberTooLarge)
		assert.Empty(t, entries)
	})

	t.Run("malformed member", func(t *testing.T) {
		data := archive.TestArchive(t,
			archive.TestMember{Name: "init", Body: []byte("#!/bin/sh\n")},
			archive.TestMember{Name: "broken.so", Body: []byte("\x7fELF\x01\x01\x01\x00")},
		)
		scanner := archive.Scanner{}

		entries, err := scanner.Scan(bytes.NewReader(data))
		require.ErrorIs(t, err, elfabi.ErrTruncated)
		require.Len(t, entries, 1, "entries before the error")
	})

	t.Run("not an archive", func(t *testing.T) {
		scanner := archive.Scanner{}

		_, err := scanner.Scan(bytes.NewReader([]byte("not a cpio archive at all, really not")))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		scanner := archive.Scanner{}

		_, err := scanner.ScanFile(filepath.Join(t.TempDir(), "missing.cpio"))
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestScanFile(t *testing.T) {
	path := elfabi.WriteTestFile(t, "initramfs.cpio", archive.TestArchive(t, testMembers()...))

	scanner, err := archive.NewScanner("/usr/lib/libarmhf.so")
	require.NoError(t, err)

	entries, err := scanner.ScanFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Analysis.ARMHardFloatFlag)
}
