// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"
)

// Field offsets of a section header entry.
const (
	section32Size         = 40
	section32FlagsOffset  = 0x08
	section32OffsetOffset = 0x10
	section32SizeOffset   = 0x14
	section32WordWidth    = 4

	section64Size         = 64
	section64FlagsOffset  = 0x08
	section64OffsetOffset = 0x18
	section64SizeOffset   = 0x20
	section64WordWidth    = 8

	sectionNameOffset = 0x00
	sectionTypeOffset = 0x04
)

// SectionHeader is a single entry of the section header table.
//
// Flags, Offset and Size are 32 bit fields in ELF32 files. They are widened
// to 64 bit.
type SectionHeader struct {
	NameOffset uint32
	Name       string
	Type       elf.SectionType
	Flags      uint64
	Offset     uint64
	Size       uint64
}

// Sections is the section header table in file order.
type Sections []SectionHeader

// Lookup returns the first section with the given name.
func (s Sections) Lookup(name string) (SectionHeader, bool) {
	for _, section := range s {
		if section.Name == name {
			return section, true
		}
	}

	return SectionHeader{}, false
}

// ReadSections reads the section header table described by hdr and resolves
// the names of all sections from the section name string table.
func ReadSections(r io.ReaderAt, size int64, hdr Header) (Sections, error) {
	if hdr.ShNum == 0 {
		return nil, nil
	}

	entrySize := section32Size
	if hdr.Is64() {
		entrySize = section64Size
	}

	if int(hdr.ShEntSize) < entrySize {
		return nil, &FormatError{
			Structure: "section header table",
			Offset:    int64(hdr.ShOff),
			Err:       fmt.Errorf("%d: %w", hdr.ShEntSize, ErrInvalidEntrySize),
		}
	}

	if hdr.ShStrNdx >= hdr.ShNum {
		return nil, &FormatError{
			Structure: "section header table",
			Offset:    int64(hdr.ShOff),
			Err: fmt.Errorf("string table %d of %d: %w",
				hdr.ShStrNdx, hdr.ShNum, ErrSectionIndex),
		}
	}

	var table []byte

	tableSize := int(hdr.ShNum) * int(hdr.ShEntSize)

	err := checkRegion(size, hdr.ShOff, uint64(tableSize))
	if err == nil {
		table = make([]byte, tableSize)
		err = readFull(r, size, hdr.ShOff, table)
	}

	if err != nil {
		return nil, &FormatError{
			Structure: "section header table",
			Offset:    int64(hdr.ShOff),
			Err:       err,
		}
	}

	tableCursor := newCursor(table, hdr.ByteOrder())
	sections := make(Sections, hdr.ShNum)

	for idx := range sections {
		entryStart := idx * int(hdr.ShEntSize)

		entry, err := tableCursor.sub(entryStart, int(hdr.ShEntSize))
		if err == nil {
			err = sections[idx].decode(entry, hdr.Is64())
		}

		if err != nil {
			return nil, &FormatError{
				Structure: fmt.Sprintf("section header %d", idx),
				Offset:    int64(hdr.ShOff) + int64(entryStart),
				Err:       err,
			}
		}
	}

	err = sections.resolveNames(r, size, sections[hdr.ShStrNdx])
	if err != nil {
		return nil, err
	}

	return sections, nil
}

// decode reads the fields of a single section header entry.
func (s *SectionHeader) decode(c *cursor, is64 bool) error {
	flagsOffset := section32FlagsOffset
	offsetOffset := section32OffsetOffset
	sizeOffset := section32SizeOffset
	width := section32WordWidth

	if is64 {
		flagsOffset = section64FlagsOffset
		offsetOffset = section64OffsetOffset
		sizeOffset = section64SizeOffset
		width = section64WordWidth
	}

	fields := []struct {
		offset, width int
		set           func(uint64)
	}{
		{sectionNameOffset, 4, func(v uint64) { s.NameOffset = uint32(v) }},
		{sectionTypeOffset, 4, func(v uint64) { s.Type = elf.SectionType(v) }},
		{flagsOffset, width, func(v uint64) { s.Flags = v }},
		{offsetOffset, width, func(v uint64) { s.Offset = v }},
		{sizeOffset, width, func(v uint64) { s.Size = v }},
	}

	for _, field := range fields {
		err := c.seek(field.offset)
		if err != nil {
			return err
		}

		value, err := c.readFixedUint(field.width)
		if err != nil {
			return err
		}

		field.set(value)
	}

	return nil
}

// resolveNames reads the string table section and sets the name of every
// section from it.
func (s Sections) resolveNames(
	r io.ReaderAt,
	size int64,
	stringTable SectionHeader,
) error {
	data, err := readSection(r, size, stringTable)
	if err != nil {
		return &FormatError{
			Structure: "section name string table",
			Offset:    int64(stringTable.Offset),
			Err:       err,
		}
	}

	for idx := range s {
		offset := int(s[idx].NameOffset)
		if offset > len(data) {
			return &FormatError{
				Structure: fmt.Sprintf("name of section %d", idx),
				Offset:    int64(stringTable.Offset) + int64(offset),
				Err: fmt.Errorf("%d of %d: %w",
					offset, len(data), ErrOutOfBounds),
			}
		}

		// A name that is not terminated ends with the string table.
		name := data[offset:]
		if end := bytes.IndexByte(name, 0); end >= 0 {
			name = name[:end]
		}

		s[idx].Name = asciiString(name)
	}

	return nil
}

// readSection reads the complete content of the given section.
func readSection(r io.ReaderAt, size int64, section SectionHeader) ([]byte, error) {
	// Do not allocate more than the file could possibly provide.
	err := checkRegion(size, section.Offset, section.Size)
	if err != nil {
		return nil, err
	}

	data := make([]byte, section.Size)

	err = readFull(r, size, section.Offset, data)
	if err != nil {
		return nil, err
	}

	return data, nil
}
