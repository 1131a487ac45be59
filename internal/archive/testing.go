// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"bytes"
	"testing"

	"github.com/cavaliergopher/cpio"
)

// TestMember is a member of an archive created by [TestArchive].
type TestMember struct {
	Name string
	// Mode defaults to a regular file.
	Mode cpio.FileMode
	// Body is the content of regular files and the target of symbolic links.
	Body []byte
}

// TestArchive creates a cpio archive with the given members.
func TestArchive(tb testing.TB, members ...TestMember) []byte {
	tb.Helper()

	var buf bytes.Buffer

	writer := cpio.NewWriter(&buf)

	for _, member := range members {
		mode := member.Mode
		if mode == 0 {
			mode = cpio.TypeReg | 0o644
		}

		hdr := &cpio.Header{
			Name: member.Name,
			Mode: mode,
			Size: int64(len(member.Body)),
		}

		err := writer.WriteHeader(hdr)
		if err != nil {
			tb.Fatalf("write header for %s: %v", member.Name, err)
		}

		_, err = writer.Write(member.Body)
		if err != nil {
			tb.Fatalf("write body for %s: %v", member.Name, err)
		}
	}

	err := writer.Close()
	if err != nil {
		tb.Fatalf("close archive: %v", err)
	}

	return buf.Bytes()
}
