// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"testing"
	"testing/fstest"

	"github.com/aibor/elfabi/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvArgs(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		output []string
	}{
		{
			name:   "empty",
			env:    "",
			output: []string{},
		},
		{
			name:   "multiple args",
			env:    "-format json  -debug",
			output: []string{"-format", "json", "-debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ELFABI_ARGS", tt.env)
			assert.Equal(t, tt.output, cmd.EnvArgs())
		})
	}
}

func TestLocalConfigArgs(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		expected []string
	}{
		{
			name:     "empty",
			content:  "",
			expected: []string{},
		},
		{
			name:     "single line",
			content:  "-format=yaml\n-match=/usr/lib/*.so",
			expected: []string{"-format=yaml", "-match=/usr/lib/*.so"},
		},
		{
			name:     "multiple lines",
			content:  "-jobs\n3\n\n  -sections  \n",
			expected: []string{"-jobs", "3", "-sections"},
		},
		{
			name:     "with env vars",
			content:  "-arch=${ARCH}\n-match=$ROOT/lib/*\n-format=${FORMAT}json\n",
			env:      map[string]string{"ARCH": "arm", "ROOT": "/usr"},
			expected: []string{"-arch=arm", "-match=/usr/lib/*", "-format=json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFS := fstest.MapFS{
				"conf": &fstest.MapFile{
					Data: []byte(tt.content),
				},
			}

			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			content, err := cmd.LocalConfigArgs(testFS, "conf")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, content)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		content, err := cmd.LocalConfigArgs(fstest.MapFS{}, "conf")
		require.NoError(t, err)
		assert.Nil(t, content)
	})
}

func TestMergedArgs(t *testing.T) {
	testFS := fstest.MapFS{
		".elfabi-args": &fstest.MapFile{
			Data: []byte("-format=yaml\n-jobs=2\n"),
		},
	}

	t.Setenv("ELFABI_ARGS", "-format=json -debug")

	args, err := cmd.MergedArgs([]string{"-format=text", "file"}, testFS, ".elfabi-args")
	require.NoError(t, err)

	expected := []string{
		"-format=yaml",
		"-jobs=2",
		"-format=json",
		"-debug",
		"-format=text",
		"file",
	}
	assert.Equal(t, expected, args)
}
