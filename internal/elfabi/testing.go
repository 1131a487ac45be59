// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"debug/elf"
	"encoding/binary"
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

// TestSection is a section of a [TestFile].
type TestSection struct {
	Name string
	Type elf.SectionType
	Data []byte
}

// TestFile describes a minimal ELF file for tests. It consists of the file
// header, the section contents, the section name string table and the section
// header table, in this order.
type TestFile struct {
	Class     elf.Class
	ByteOrder binary.ByteOrder
	Machine   elf.Machine
	Flags     uint32
	Sections  []TestSection
}

// Bytes encodes the file.
func (f TestFile) Bytes() []byte {
	order := f.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}

	is64 := f.Class == elf.ELFCLASS64

	headerSize, entrySize := header32Size, section32Size
	if is64 {
		headerSize, entrySize = header64Size, section64Size
	}

	// Index 0 is the reserved null section, the string table comes last.
	sections := append([]TestSection{{}}, f.Sections...)

	strtab := []byte{0}
	nameOffsets := make([]int, len(sections)+1)

	for idx, section := range append(sections, TestSection{Name: ".shstrtab"}) {
		if section.Name == "" {
			continue
		}

		nameOffsets[idx] = len(strtab)
		strtab = append(append(strtab, section.Name...), 0)
	}

	sections = append(sections, TestSection{
		Name: ".shstrtab",
		Type: elf.SHT_STRTAB,
		Data: strtab,
	})

	buf := make([]byte, headerSize)
	offsets := make([]int, len(sections))

	for idx, section := range sections {
		offsets[idx] = len(buf)
		buf = append(buf, section.Data...)
	}

	shoff := len(buf)

	for idx, section := range sections {
		entry := make([]byte, entrySize)
		order.PutUint32(entry[sectionNameOffset:], uint32(nameOffsets[idx]))
		order.PutUint32(entry[sectionTypeOffset:], uint32(section.Type))

		if is64 {
			order.PutUint64(entry[section64OffsetOffset:], uint64(offsets[idx]))
			order.PutUint64(entry[section64SizeOffset:], uint64(len(section.Data)))
		} else {
			order.PutUint32(entry[section32OffsetOffset:], uint32(offsets[idx]))
			order.PutUint32(entry[section32SizeOffset:], uint32(len(section.Data)))
		}

		buf = append(buf, entry...)
	}

	copy(buf, elfMagic)
	buf[identClassOffset] = byte(f.Class)
	buf[identClassOffset+1] = byte(elf.ELFDATA2LSB)

	if order == binary.BigEndian {
		buf[identClassOffset+1] = byte(elf.ELFDATA2MSB)
	}

	buf[identClassOffset+2] = byte(elf.EV_CURRENT)

	order.PutUint16(buf[machineOffset:], uint16(f.Machine))

	if is64 {
		order.PutUint32(buf[header64FlagsOffset:], f.Flags)
		order.PutUint64(buf[header64ShoffOffset:], uint64(shoff))
		order.PutUint16(buf[header64ShentOffset:], uint16(entrySize))
		order.PutUint16(buf[header64ShnumOffset:], uint16(len(sections)))
		order.PutUint16(buf[header64ShstrndxOffset:], uint16(len(sections)-1))
	} else {
		order.PutUint32(buf[header32FlagsOffset:], f.Flags)
		order.PutUint32(buf[header32ShoffOffset:], uint32(shoff))
		order.PutUint16(buf[header32ShentOffset:], uint16(entrySize))
		order.PutUint16(buf[header32ShnumOffset:], uint16(len(sections)))
		order.PutUint16(buf[header32ShstrndxOffset:], uint16(len(sections)-1))
	}

	return buf
}

// WriteTestFile writes the given content into a file in a temporary directory
// and returns its path.
func WriteTestFile(tb testing.TB, name string, content []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)

	err := os.WriteFile(path, content, 0o600)
	if err != nil {
		tb.Fatalf("failed to write test file %s: %v", path, err)
	}

	return path
}

// AppendULEB128 appends the unsigned LEB128 encoding of value to buf.
func AppendULEB128(buf []byte, value *big.Int) []byte {
	var (
		rest  = new(big.Int).Set(value)
		group = new(big.Int)
		mask  = big.NewInt(ulebDataMask)
	)

	for {
		b := byte(group.And(rest, mask).Uint64())
		rest.Rsh(rest, ulebShift)

		if rest.Sign() == 0 {
			return append(buf, b)
		}

		buf = append(buf, b|ulebContinuationFlag)
	}
}

// EncodeAttributesSection encodes a build attributes section of format version
// "A" with the given vendor subsections.
func EncodeAttributesSection(vendorSubsections ...[]byte) []byte {
	data := []byte{attributesFormatVersionA}

	for _, subsection := range vendorSubsections {
		data = append(data, subsection...)
	}

	return data
}

// EncodeVendorSubsection encodes a vendor subsection with the given vendor name
// and body.
func EncodeVendorSubsection(order binary.ByteOrder, vendor string, body []byte) []byte {
	length := subsectionLengthWidth + len(vendor) + 1 + len(body)

	data := make([]byte, subsectionLengthWidth)
	order.PutUint32(data, uint32(length))
	data = append(append(data, vendor...), 0)

	return append(data, body...)
}

// EncodeScopeSubsection encodes an aeabi subsection of the given scope tag
// holding the given encoded attributes.
func EncodeScopeSubsection(order binary.ByteOrder, scope uint64, attrs []byte) []byte {
	tag := AppendULEB128(nil, new(big.Int).SetUint64(scope))
	length := len(tag) + subsectionLengthWidth + len(attrs)

	data := make([]byte, subsectionLengthWidth)
	order.PutUint32(data, uint32(length))

	return append(append(tag, data...), attrs...)
}
