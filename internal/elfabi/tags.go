// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package elfabi

import (
	"slices"
	"strconv"
)

// ParameterType is the encoding of an ARM build attribute value.
type ParameterType int

const (
	// FixedUint32 values are 4 byte unsigned integers in file byte order.
	FixedUint32 ParameterType = iota + 1
	// NullTerminatedString values are null-terminated byte strings.
	NullTerminatedString
	// Uleb128 values are unsigned LEB128 encoded integers.
	Uleb128
)

func (t ParameterType) String() string {
	switch t {
	case FixedUint32:
		return "uint32"
	case NullTerminatedString:
		return "ntbs"
	case Uleb128:
		return "uleb128"
	default:
		return "ParameterType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Tag is an ARM EABI build attribute tag.
type Tag struct {
	Value uint64
	Name  string
	Type  ParameterType
}

func (t Tag) String() string {
	return t.Name + " (" + strconv.FormatUint(t.Value, 10) + ")"
}

// Well known tag values.
const (
	TagFile       uint64 = 1
	TagCPUName    uint64 = 5
	TagCPUArch    uint64 = 6
	TagABIVFPArgs uint64 = 28
)

// Enumerated from ARM IHI 0045E, 2.5 Attributes summary and history.
//
//nolint:gochecknoglobals
var knownTags = []Tag{
	{1, "File", FixedUint32},
	{2, "Section", FixedUint32},
	{3, "Symbol", FixedUint32},
	{4, "CPU_raw_name", NullTerminatedString},
	{5, "CPU_name", NullTerminatedString},
	{6, "CPU_arch", Uleb128},
	{7, "CPU_arch_profile", Uleb128},
	{8, "ARM_ISA_use", Uleb128},
	{9, "THUMB_ISA_use", Uleb128},
	{10, "FP_arch", Uleb128},
	{11, "WMMX_arch", Uleb128},
	{12, "Advanced_SIMD_arch", Uleb128},
	{13, "PCS_config", Uleb128},
	{14, "ABI_PCS_R9_use", Uleb128},
	{15, "ABI_PCS_RW_data", Uleb128},
	{16, "ABI_PCS_RO_data", Uleb128},
	{17, "ABI_PCS_GOT_use", Uleb128},
	{18, "ABI_PCS_wchar_t", Uleb128},
	{19, "ABI_FP_rounding", Uleb128},
	{20, "ABI_FP_denormal", Uleb128},
	{21, "ABI_FP_exceptions", Uleb128},
	{22, "ABI_FP_user_exceptions", Uleb128},
	{23, "ABI_FP_number_model", Uleb128},
	{24, "ABI_align_needed", Uleb128},
	{25, "ABI_align8_preserved", Uleb128},
	{26, "ABI_enum_size", Uleb128},
	{27, "ABI_HardFP_use", Uleb128},
	{28, "ABI_VFP_args", Uleb128},
	{29, "ABI_WMMX_args", Uleb128},
	{30, "ABI_optimization_goals", Uleb128},
	{31, "ABI_FP_optimization_goals", Uleb128},
	{32, "compatibility", NullTerminatedString},
	{34, "CPU_unaligned_access", Uleb128},
	{36, "FP_HP_extension", Uleb128},
	{38, "ABI_FP_16bit_format", Uleb128},
	{42, "MPextension_use", Uleb128},
	{44, "DIV_use", Uleb128},
	{64, "nodefaults", Uleb128},
	{65, "also_compatible_with", NullTerminatedString},
	{67, "conformance", NullTerminatedString},
	{66, "T2EE_use", Uleb128},
	{68, "Virtualization_use", Uleb128},
	{70, "MPextension_use", Uleb128},
}

// DefaultTagRegistry is the registry of all known ARM EABI tags. It is built
// once and must not be modified.
//
//nolint:gochecknoglobals
var DefaultTagRegistry = NewTagRegistry()

// TagRegistry is a read-only lookup table for ARM EABI build attribute tags.
// It is safe for concurrent use.
type TagRegistry struct {
	tags    []Tag
	byValue map[uint64]Tag
	byName  map[string]Tag
}

// NewTagRegistry creates a registry of all known tags. If a value or name is
// present more than once, the first registration wins.
func NewTagRegistry() *TagRegistry {
	registry := &TagRegistry{
		tags:    slices.Clone(knownTags),
		byValue: make(map[uint64]Tag, len(knownTags)),
		byName:  make(map[string]Tag, len(knownTags)),
	}

	for _, tag := range registry.tags {
		if _, exists := registry.byValue[tag.Value]; !exists {
			registry.byValue[tag.Value] = tag
		}

		if _, exists := registry.byName[tag.Name]; !exists {
			registry.byName[tag.Name] = tag
		}
	}

	return registry
}

// Lookup returns the tag registered for the given value.
//
// Tags that are not registered are synthesized with the name "Unknown N".
// Their parameter type follows the convention of the ARM EABI: even tags
// carry ULEB128 values, odd tags carry null-terminated strings.
func (r *TagRegistry) Lookup(value uint64) Tag {
	if tag, exists := r.byValue[value]; exists {
		return tag
	}

	paramType := NullTerminatedString
	if value%2 == 0 {
		paramType = Uleb128
	}

	return Tag{
		Value: value,
		Name:  "Unknown " + strconv.FormatUint(value, 10),
		Type:  paramType,
	}
}

// ByName returns the tag registered with the given name.
func (r *TagRegistry) ByName(name string) (Tag, bool) {
	tag, exists := r.byName[name]
	return tag, exists
}

// Tags returns all registered tags in registration order.
func (r *TagRegistry) Tags() []Tag {
	return slices.Clone(r.tags)
}
