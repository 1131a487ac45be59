// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"debug/elf"
	"os/exec"
	"slices"
	"testing"

	"github.com/aibor/elfabi/internal/elfabi"
	"github.com/aibor/elfabi/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectLibsFor(t *testing.T) {
	elfFile := elfabi.WriteTestFile(t, "main", elfabi.TestFile{
		Class:   elf.ELFCLASS64,
		Machine: elf.EM_X86_64,
	}.Bytes())
	script := elfabi.WriteTestFile(t, "script.sh", []byte("#!/bin/sh\n"))

	t.Run("dynamically linked", func(t *testing.T) {
		sys.FakeLdd(t, fakeLddLibs)

		collection, err := sys.CollectLibsFor(t.Context(), elfFile, elfFile)
		require.NoError(t, err)

		expected := []string{
			"/usr/lib/libc.so.6",
			sys.MustAbsPath(t, "testdata/lib/libfunc1.so"),
		}
		slices.Sort(expected)

		assert.Equal(t, expected, slices.Collect(collection.Libs()))
		assert.Equal(t, 2, collection.Len())
		sys.AssertContainsPaths(t, slices.Collect(collection.Libs()), []string{
			"testdata/lib/libfunc1.so",
		})
	})

	t.Run("not elf", func(t *testing.T) {
		sys.FakeLdd(t, fakeLddLibs)

		collection, err := sys.CollectLibsFor(t.Context(), script)
		require.NoError(t, err)
		assert.Zero(t, collection.Len())
	})

	t.Run("statically linked", func(t *testing.T) {
		sys.FakeLdd(t, "echo '	not a dynamic executable' >&2; exit 1")

		collection, err := sys.CollectLibsFor(t.Context(), elfFile)
		require.NoError(t, err)
		assert.Zero(t, collection.Len())
	})

	t.Run("no ldd", func(t *testing.T) {
		t.Setenv("PATH", "")

		_, err := sys.CollectLibsFor(t.Context(), elfFile)
		require.ErrorIs(t, err, exec.ErrNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		sys.FakeLdd(t, fakeLddLibs)

		_, err := sys.CollectLibsFor(t.Context(), elfFile+".missing")
		require.Error(t, err)
	})
}
