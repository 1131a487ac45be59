// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"debug/elf"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Analysis is the result of analysing a single file.
//
// If ELF is false, all other fields are unset.
type Analysis struct {
	// ELF is true if the file starts with the ELF magic number.
	ELF bool
	// Is64 is true for the ELF64 file class.
	Is64 bool
	// BigEndian is true for big endian data encoding.
	BigEndian bool
	// Machine is the raw e_machine field.
	Machine elf.Machine
	// ARM is true if the file is built for the 32 bit ARM architecture.
	ARM bool
	// ARMHardFloatFlag is true if the e_flags declare conformance to the
	// hardware floating-point procedure-call standard.
	ARMHardFloatFlag bool
	// ARMSoftFloatFlag is true if the e_flags declare conformance to the
	// software floating-point procedure-call standard. It is recorded
	// independently of ARMHardFloatFlag. Both may be set.
	ARMSoftFloatFlag bool
	// ARMEABIAAPCSVFP is true if the build attributes declare that
	// floating-point parameters are passed conforming to the AAPCS VFP
	// variant.
	ARMEABIAAPCSVFP bool
}

// ARMHardFloat returns true if the file is detected to not be soft float.
func (a Analysis) ARMHardFloat() bool {
	return a.ARMEABIAAPCSVFP || a.ARMHardFloatFlag
}

// Analyser analyses ELF files using a tag registry for decoding build
// attributes. The zero value uses [DefaultTagRegistry].
type Analyser struct {
	Tags *TagRegistry
}

// Analyse analyses the file with the given path using [DefaultTagRegistry].
func Analyse(path string) (Analysis, error) {
	return Analyser{Tags: DefaultTagRegistry}.Analyse(path)
}

// Analyse analyses the file with the given path.
//
// It returns an error if the file can not be opened or if regions declared by
// the ELF structures are not present in the file. Files that are not ELF files
// are not an error.
func (a Analyser) Analyse(path string) (Analysis, error) {
	file, err := os.Open(path)
	if err != nil {
		return Analysis{}, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Analysis{}, fmt.Errorf("stat: %w", err)
	}

	analysis, err := a.AnalyseReader(file, info.Size())
	if err != nil {
		return Analysis{}, err
	}

	slog.Debug("Analysed file",
		slog.String("path", path),
		slog.Bool("elf", analysis.ELF),
		slog.String("machine", analysis.Machine.String()),
		slog.Bool("hardfloat", analysis.ARMHardFloat()),
	)

	return analysis, nil
}

// AnalyseReader analyses the file r reads from. The size is the total size of
// the file.
func (a Analyser) AnalyseReader(r io.ReaderAt, size int64) (Analysis, error) {
	var analysis Analysis

	hdr, isELF, err := ReadHeader(r, size)
	if err != nil {
		return Analysis{}, err
	}

	if !isELF {
		return analysis, nil
	}

	analysis.ELF = true
	analysis.Is64 = hdr.Is64()
	analysis.BigEndian = hdr.Data == elf.ELFDATA2MSB
	analysis.Machine = hdr.Machine

	if hdr.Machine != elf.EM_ARM {
		return analysis, nil
	}

	analysis.ARM = true
	analysis.ARMHardFloatFlag = hdr.Flags&ARMFlagABIFloatHard == ARMFlagABIFloatHard
	analysis.ARMSoftFloatFlag = hdr.Flags&ARMFlagABIFloatSoft == ARMFlagABIFloatSoft

	sections, err := ReadSections(r, size, hdr)
	if err != nil {
		return Analysis{}, err
	}

	attrs, found, err := ReadBuildAttributes(r, size, hdr, sections, a.tags())
	if err != nil {
		return Analysis{}, err
	}

	if found {
		analysis.ARMEABIAAPCSVFP = attrs.VFPArgs()
	}

	return analysis, nil
}

func (a Analyser) tags() *TagRegistry {
	if a.Tags == nil {
		return DefaultTagRegistry
	}

	return a.Tags
}
