// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Field offsets of the ELF file header. ELF32 and ELF64 share the layout up to
// e_entry. From there on, address sized fields shift all further offsets.
const (
	identClassOffset = 4
	machineOffset    = 0x12

	header32Size           = 52
	header32FlagsOffset    = 0x24
	header32ShoffOffset    = 0x20
	header32ShentOffset    = 0x2e
	header32ShnumOffset    = 0x30
	header32ShstrndxOffset = 0x32

	header64Size           = 64
	header64FlagsOffset    = 0x30
	header64ShoffOffset    = 0x28
	header64ShentOffset    = 0x3a
	header64ShnumOffset    = 0x3c
	header64ShstrndxOffset = 0x3e
)

// e_flags masks of ARM ABI version 5.
const (
	// ARMFlagABIFloatHard is set if the file conforms to the hardware
	// floating-point procedure-call standard.
	ARMFlagABIFloatHard = 0x00000400
	// ARMFlagABIFloatSoft is set if the file conforms to the software
	// floating-point procedure-call standard.
	ARMFlagABIFloatSoft = 0x00000200
)

//nolint:gochecknoglobals
var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Header holds the ELF file header fields required to locate the section
// headers.
type Header struct {
	Class     elf.Class
	Data      elf.Data
	Machine   elf.Machine
	Flags     uint32
	ShOff     uint64
	ShEntSize uint16
	ShNum     uint16
	ShStrNdx  uint16
}

// Is64 returns true if the file uses the 64 bit layout.
func (h *Header) Is64() bool {
	return h.Class == elf.ELFCLASS64
}

// ByteOrder returns the byte order of the file.
func (h *Header) ByteOrder() binary.ByteOrder {
	if h.Data == elf.ELFDATA2MSB {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// ReadHeader reads the ELF file header from r. The size is the total size of
// the file r reads from.
//
// If the file does not start with the ELF magic number, false and no error is
// returned. Once the magic number matched, any read beyond the file is an
// error.
func ReadHeader(r io.ReaderAt, size int64) (Header, bool, error) {
	var hdr Header

	// Files not larger than the magic number are not considered ELF files.
	if size <= int64(len(elfMagic)) {
		return hdr, false, nil
	}

	magic := make([]byte, len(elfMagic))

	err := readFull(r, size, 0, magic)
	if err != nil {
		return hdr, false, err
	}

	if !bytes.Equal(magic, elfMagic) {
		return hdr, false, nil
	}

	ident := make([]byte, 2)

	err = readFull(r, size, identClassOffset, ident)
	if err != nil {
		return hdr, true, &FormatError{
			Structure: "identification",
			Offset:    identClassOffset,
			Err:       err,
		}
	}

	hdr.Class = elf.Class(ident[0])
	hdr.Data = elf.Data(ident[1])

	headerSize := header32Size
	if hdr.Is64() {
		headerSize = header64Size
	}

	data := make([]byte, headerSize)

	err = readFull(r, size, 0, data)
	if err == nil {
		err = hdr.decode(newCursor(data, hdr.ByteOrder()))
	}

	if err != nil {
		return hdr, true, &FormatError{Structure: "file header", Err: err}
	}

	return hdr, true, nil
}

// decode reads the class dependent fields from the complete header buffer.
func (h *Header) decode(c *cursor) error {
	offsets := struct {
		flags, shoff, shent, shnum, shstrndx int
		shoffWidth                           int
	}{
		header32FlagsOffset,
		header32ShoffOffset,
		header32ShentOffset,
		header32ShnumOffset,
		header32ShstrndxOffset,
		4,
	}

	if h.Is64() {
		offsets.flags = header64FlagsOffset
		offsets.shoff = header64ShoffOffset
		offsets.shent = header64ShentOffset
		offsets.shnum = header64ShnumOffset
		offsets.shstrndx = header64ShstrndxOffset
		offsets.shoffWidth = 8
	}

	fields := []struct {
		offset, width int
		set           func(uint64)
	}{
		{machineOffset, 2, func(v uint64) { h.Machine = elf.Machine(v) }},
		{offsets.flags, 4, func(v uint64) { h.Flags = uint32(v) }},
		{offsets.shoff, offsets.shoffWidth, func(v uint64) { h.ShOff = v }},
		{offsets.shent, 2, func(v uint64) { h.ShEntSize = uint16(v) }},
		{offsets.shnum, 2, func(v uint64) { h.ShNum = uint16(v) }},
		{offsets.shstrndx, 2, func(v uint64) { h.ShStrNdx = uint16(v) }},
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

// readFull reads len(buf) bytes at offset off. If the region is not
// completely within the file of the given size, [ErrTruncated] is returned.
func readFull(r io.ReaderAt, size int64, off uint64, buf []byte) error {
	err := checkRegion(size, off, uint64(len(buf)))
	if err != nil {
		return err
	}

	n, err := r.ReadAt(buf, int64(off))
	if err != nil && n < len(buf) {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%d bytes at %#x: %w", len(buf), off, ErrTruncated)
		}

		return fmt.Errorf("read: %w", err)
	}

	return nil
}

// checkRegion returns [ErrTruncated] if the region of the given length at
// offset off does not fit into a file of the given size.
func checkRegion(size int64, off, length uint64) error {
	end := off + length
	if size < 0 || end < off || end > uint64(size) {
		return fmt.Errorf("%d bytes at %#x of %d: %w",
			length, off, size, ErrTruncated)
	}

	return nil
}
