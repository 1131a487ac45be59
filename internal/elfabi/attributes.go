// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"math/big"
)

// ARMAttributesSection is the name of the section holding ARM build
// attributes.
const ARMAttributesSection = ".ARM.attributes"

// SHTARMAttributes is the section type of the [ARMAttributesSection].
const SHTARMAttributes = elf.SHT_LOPROC + 3

const (
	attributesFormatVersionA = 'A'
	aeabiVendor              = "aeabi"
	subsectionLengthWidth    = 4
)

// Values of Tag_ABI_VFP_args.
const (
	// VFPArgsBase is AAPCS base variant parameter passing.
	VFPArgsBase = 0
	// VFPArgsVFP is AAPCS VFP variant parameter passing (hardfloat).
	VFPArgsVFP = 1
	// VFPArgsToolchain is tool chain-specific parameter passing.
	VFPArgsToolchain = 2
	// VFPArgsCompatible is code compatible with both base and VFP variants.
	VFPArgsCompatible = 3
)

// Attribute is a single decoded build attribute. Depending on the parameter
// type of the tag, either Number or Text is set. Number is set for
// [FixedUint32] and [Uleb128] attributes, Text for [NullTerminatedString]
// attributes.
type Attribute struct {
	Tag    Tag
	Number *big.Int
	Text   string
}

// Uint64 returns the numeric value of the attribute. It returns false if the
// attribute is not numeric or if it does not fit into 64 bits.
func (a Attribute) Uint64() (uint64, bool) {
	if a.Number == nil || !a.Number.IsUint64() {
		return 0, false
	}

	return a.Number.Uint64(), true
}

func (a Attribute) String() string {
	if a.Tag.Type == NullTerminatedString {
		return a.Text
	}

	if a.Number == nil {
		return ""
	}

	return a.Number.String()
}

// Attributes maps tag values to decoded attributes of one scope.
type Attributes map[uint64]Attribute

// VFPArgs returns true if the attributes declare that floating-point
// parameters and results are passed conforming to the AAPCS VFP variant.
func (a Attributes) VFPArgs() bool {
	attr, exists := a[TagABIVFPArgs]
	if !exists {
		return false
	}

	value, ok := attr.Uint64()

	return ok && value == VFPArgsVFP
}

// ReadBuildAttributes reads the file scope ARM build attributes of the "aeabi"
// vendor. It returns false if the file has no [ARMAttributesSection] or no
// file scope attributes are found.
func ReadBuildAttributes(
	r io.ReaderAt,
	size int64,
	hdr Header,
	sections Sections,
	tags *TagRegistry,
) (Attributes, bool, error) {
	section, exists := sections.Lookup(ARMAttributesSection)
	if !exists {
		return nil, false, nil
	}

	data, err := readSection(r, size, section)
	if err == nil {
		var (
			attrs Attributes
			found bool
		)

		attrs, found, err = ParseBuildAttributes(data, hdr.ByteOrder(), tags)
		if err == nil {
			return attrs, found, nil
		}
	}

	return nil, false, &FormatError{
		Structure: ARMAttributesSection,
		Offset:    int64(section.Offset),
		Err:       err,
	}
}

// ParseBuildAttributes parses the content of an ARM build attributes section.
//
// Only format version "A" is supported. For other versions false is returned
// without error. Only the first "aeabi" vendor subsection is parsed. It
// returns false if no file scope attributes are present.
func ParseBuildAttributes(
	data []byte,
	order binary.ByteOrder,
	tags *TagRegistry,
) (Attributes, bool, error) {
	if tags == nil {
		tags = DefaultTagRegistry
	}

	c := newCursor(data, order)

	version, err := c.readFixedUint(1)
	if err != nil || version != attributesFormatVersionA {
		return nil, false, nil
	}

	for c.remaining() > 0 {
		start := c.pos

		length, err := c.readUint32()
		if err != nil {
			return nil, false, fmt.Errorf("%w: vendor subsection length: %w",
				ErrMalformedAttributes, err)
		}

		// Empty and, read as signed 32 bit, negative lengths end the section.
		if int32(length) <= 0 {
			break
		}

		vendorSection, err := c.sub(start, int(length))
		if err == nil {
			err = vendorSection.seek(subsectionLengthWidth)
		}

		if err != nil {
			return nil, false, fmt.Errorf("%w: vendor subsection: %w",
				ErrMalformedAttributes, err)
		}

		vendor, err := vendorSection.readString()
		if err != nil {
			return nil, false, fmt.Errorf("%w: vendor name: %w",
				ErrMalformedAttributes, err)
		}

		if vendor == aeabiVendor {
			return parseAEABI(vendorSection, tags)
		}

		// Within bounds, vendorSection covers it.
		c.pos = start + int(length)
	}

	return nil, false, nil
}

// parseAEABI parses the subsections of the "aeabi" vendor. Only file scope
// subsections are decoded. Section and symbol scope subsections are skipped.
func parseAEABI(c *cursor, tags *TagRegistry) (Attributes, bool, error) {
	var (
		file  Attributes
		found bool
	)

	for c.remaining() > 0 {
		start := c.pos

		scope, err := c.readULEB128()
		if err != nil {
			return nil, false, fmt.Errorf("%w: subsection tag: %w",
				ErrMalformedAttributes, err)
		}

		length, err := c.readUint32()
		if err != nil {
			return nil, false, fmt.Errorf("%w: subsection length: %w",
				ErrMalformedAttributes, err)
		}

		headerLength := c.pos - start
		if int(length) < headerLength {
			return nil, false, fmt.Errorf("%w: subsection length %d",
				ErrMalformedAttributes, length)
		}

		body, err := c.sub(c.pos, int(length)-headerLength)
		if err != nil {
			return nil, false, fmt.Errorf("%w: subsection: %w",
				ErrMalformedAttributes, err)
		}

		if scope.IsUint64() && scope.Uint64() == TagFile {
			attrs, err := parseAttributes(body, tags)
			if err != nil {
				return nil, false, err
			}

			if file == nil {
				file = attrs
			} else {
				maps.Copy(file, attrs)
			}

			found = true
		}

		// Within bounds, body ends there.
		c.pos = start + int(length)
	}

	return file, found, nil
}

// parseAttributes decodes tag and value pairs until the end of c.
func parseAttributes(c *cursor, tags *TagRegistry) (Attributes, error) {
	attrs := make(Attributes)

	for c.remaining() > 0 {
		number, err := c.readULEB128()
		if err != nil {
			return nil, fmt.Errorf("%w: tag: %w", ErrMalformedAttributes, err)
		}

		if !number.IsUint64() {
			return nil, fmt.Errorf("%w: tag %s exceeds 64 bit",
				ErrMalformedAttributes, number)
		}

		tag := tags.Lookup(number.Uint64())

		attr, err := decodeAttribute(c, tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedAttributes, tag, err)
		}

		attrs[tag.Value] = attr
	}

	return attrs, nil
}

// decodeAttribute reads the value of the given tag according to its parameter
// type.
func decodeAttribute(c *cursor, tag Tag) (Attribute, error) {
	attr := Attribute{Tag: tag}

	switch tag.Type {
	case FixedUint32:
		value, err := c.readUint32()
		if err != nil {
			return attr, err
		}

		attr.Number = new(big.Int).SetUint64(uint64(value))
	case NullTerminatedString:
		value, err := c.readString()
		if err != nil {
			return attr, err
		}

		attr.Text = value
	case Uleb128:
		value, err := c.readULEB128()
		if err != nil {
			return attr, err
		}

		attr.Number = value
	default:
		return attr, fmt.Errorf("%s: %w", tag.Type, ErrUnknownParameterType)
	}

	return attr, nil
}
