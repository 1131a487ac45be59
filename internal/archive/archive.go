// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive analyses the members of cpio archives, like initramfs
// images, without unpacking them.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/aibor/elfabi/internal/elfabi"
	"github.com/cavaliergopher/cpio"
	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
)

// DefaultMaxMemberSize is the size limit of a single member used if
// [Scanner.MaxMemberSize] is not set. Members are loaded into memory for
// analysis.
const DefaultMaxMemberSize = 256 << 20

// ErrMemberTooLarge is returned if a member exceeds the size limit.
var ErrMemberTooLarge = errors.New("archive member too large")

// Entry is the analysis of a single regular file member.
type Entry struct {
	// Name is the absolute, cleaned path of the member.
	Name     string
	Size     int64
	Analysis elfabi.Analysis
}

// Scanner analyses all regular file members of an archive.
type Scanner struct {
	Analyser elfabi.Analyser
	// Match filters members by their absolute, cleaned path. All members are
	// analysed if it is nil.
	Match glob.Glob
	// MaxMemberSize limits the size of members. [DefaultMaxMemberSize] is
	// used if it is not positive.
	MaxMemberSize int64
}

// NewScanner creates a [Scanner] that analyses members matching the given
// glob pattern. Path separators are not matched by "*". An empty pattern
// matches all members.
func NewScanner(pattern string) (*Scanner, error) {
	scanner := &Scanner{}

	if pattern != "" {
		match, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern: %w", err)
		}

		scanner.Match = match
	}

	return scanner, nil
}

// ScanFile opens the archive with the given path and calls [Scanner.Scan].
func (s *Scanner) ScanFile(name string) ([]Entry, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	return s.Scan(file)
}

// Scan reads the cpio archive from r and analyses each matching regular file
// member. The entries are returned in archive order.
//
// Reading stops at the first error. Entries analysed so far are returned
// along with the error.
func (s *Scanner) Scan(r io.Reader) ([]Entry, error) {
	var entries []Entry

	reader := cpio.NewReader(r)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return entries, fmt.Errorf("read header: %w", err)
		}

		if !hdr.Mode.IsRegular() {
			continue
		}

		name := path.Clean("/" + hdr.Name)
		if s.Match != nil && !s.Match.Match(name) {
			continue
		}

		entry, err := s.analyse(reader, name, hdr.Size)
		if err != nil {
			return entries, err
		}

		slog.Debug("Analysed archive member",
			slog.String("name", name),
			slog.String("size", humanize.IBytes(uint64(hdr.Size))),
			slog.Bool("elf", entry.Analysis.ELF),
		)

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *Scanner) analyse(r io.Reader, name string, size int64) (Entry, error) {
	entry := Entry{
		Name: name,
		Size: size,
	}

	if size > s.maxMemberSize() {
		return entry, fmt.Errorf("%s (%s): %w",
			name, humanize.IBytes(uint64(size)), ErrMemberTooLarge)
	}

	data := make([]byte, size)

	_, err := io.ReadFull(r, data)
	if err != nil {
		return entry, fmt.Errorf("read %s: %w", name, err)
	}

	entry.Analysis, err = s.Analyser.AnalyseReader(bytes.NewReader(data), size)
	if err != nil {
		return entry, fmt.Errorf("analyse %s: %w", name, err)
	}

	return entry, nil
}

func (s *Scanner) maxMemberSize() int64 {
	if s.MaxMemberSize > 0 {
		return s.MaxMemberSize
	}

	return DefaultMaxMemberSize
}
