// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"cmp"
	"debug/elf"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/aibor/elfabi/internal/archive"
	"github.com/aibor/elfabi/internal/elfabi"
	"github.com/aibor/elfabi/internal/sys"
)

// Report is the result of a single invocation.
type Report struct {
	Platform *sys.Platform `json:"platform,omitempty" yaml:"platform,omitempty"`
	Files    []FileReport  `json:"files"              yaml:"files"`
}

// FileReport is the analysis of a single file or archive member.
type FileReport struct {
	Path string `json:"path" yaml:"path"`
	// Archive is the path of the archive the file is a member of.
	Archive string `json:"archive,omitempty" yaml:"archive,omitempty"`
	// Library is true for shared objects found by resolving dependencies.
	Library bool `json:"library,omitempty" yaml:"library,omitempty"`
	ELF     bool `json:"elf"               yaml:"elf"`

	Class      string     `json:"class,omitempty"     yaml:"class,omitempty"`
	Data       string     `json:"data,omitempty"      yaml:"data,omitempty"`
	Machine    string     `json:"machine,omitempty"   yaml:"machine,omitempty"`
	ARM        *ARMReport `json:"arm,omitempty"       yaml:"arm,omitempty"`
	Sections   []Section  `json:"sections,omitempty"  yaml:"sections,omitempty"`
	Attributes []Attr     `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	analysis elfabi.Analysis
}

// ARMReport holds the floating-point ABI facts of 32 bit ARM files.
type ARMReport struct {
	HardFloat     bool   `json:"hardfloat"     yaml:"hardfloat"`
	Variant       string `json:"variant"       yaml:"variant"`
	HardFloatFlag bool   `json:"hardfloatFlag" yaml:"hardfloatFlag"`
	SoftFloatFlag bool   `json:"softfloatFlag" yaml:"softfloatFlag"`
	VFPArgs       bool   `json:"vfpArgs"       yaml:"vfpArgs"`
}

// Section is an entry of the section header table.
type Section struct {
	Name   string `json:"name"   yaml:"name"`
	Type   string `json:"type"   yaml:"type"`
	Offset uint64 `json:"offset" yaml:"offset"`
	Size   uint64 `json:"size"   yaml:"size"`
}

// Attr is a decoded file scope build attribute.
type Attr struct {
	Tag   uint64 `json:"tag"   yaml:"tag"`
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// HardFloatViolation returns true if the file is a 32 bit ARM file that is
// not hardfloat.
func (r FileReport) HardFloatViolation() bool {
	return r.ARM != nil && !r.ARM.HardFloat
}

// DisplayName returns the path prefixed with the archive path, if any.
func (r FileReport) DisplayName() string {
	if r.Archive != "" {
		return r.Archive + ":" + r.Path
	}

	return r.Path
}

func newFileReport(path string, analysis elfabi.Analysis) FileReport {
	report := FileReport{
		Path:     path,
		ELF:      analysis.ELF,
		analysis: analysis,
	}

	if !analysis.ELF {
		return report
	}

	report.Class = "ELF32"
	if analysis.Is64 {
		report.Class = "ELF64"
	}

	report.Data = "little endian"
	if analysis.BigEndian {
		report.Data = "big endian"
	}

	report.Machine = analysis.Machine.String()

	if analysis.ARM {
		report.ARM = &ARMReport{
			HardFloat:     analysis.ARMHardFloat(),
			Variant:       sys.ARMVariant(analysis),
			HardFloatFlag: analysis.ARMHardFloatFlag,
			SoftFloatFlag: analysis.ARMSoftFloatFlag,
			VFPArgs:       analysis.ARMEABIAAPCSVFP,
		}
	}

	return report
}

type inspector struct {
	analyser   elfabi.Analyser
	sections   bool
	attributes bool
}

// inspectFile analyses the file with the given path. Section and attribute
// details are added if requested.
func (i inspector) inspectFile(path string) (FileReport, error) {
	err := ValidateFilePath(path)
	if err != nil {
		return FileReport{}, fmt.Errorf("validate: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return FileReport{}, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return FileReport{}, fmt.Errorf("stat: %w", err)
	}

	size := info.Size()

	analysis, err := i.analyser.AnalyseReader(file, size)
	if err != nil {
		return FileReport{}, fmt.Errorf("analyse: %w", err)
	}

	report := newFileReport(path, analysis)

	if !analysis.ELF || (!i.sections && !i.attributes) {
		return report, nil
	}

	hdr, _, err := elfabi.ReadHeader(file, size)
	if err != nil {
		return FileReport{}, fmt.Errorf("read header: %w", err)
	}

	sections, err := elfabi.ReadSections(file, size, hdr)
	if err != nil {
		return FileReport{}, fmt.Errorf("read sections: %w", err)
	}

	if i.sections {
		report.Sections = sectionReports(sections)
	}

	if i.attributes && analysis.ARM {
		attrs, _, err := elfabi.ReadBuildAttributes(file, size, hdr, sections, i.tags())
		if err != nil {
			return FileReport{}, fmt.Errorf("read build attributes: %w", err)
		}

		report.Attributes = attrReports(attrs)
	}

	return report, nil
}

func (i inspector) inspectArchive(path string, scanner *archive.Scanner) ([]FileReport, error) {
	scanner.Analyser = i.analyser

	entries, err := scanner.ScanFile(path)
	if err != nil {
		return nil, fmt.Errorf("scan archive %s: %w", path, err)
	}

	reports := make([]FileReport, 0, len(entries))

	for _, entry := range entries {
		report := newFileReport(entry.Name, entry.Analysis)
		report.Archive = path
		reports = append(reports, report)
	}

	return reports, nil
}

func (i inspector) tags() *elfabi.TagRegistry {
	if i.analyser.Tags == nil {
		return elfabi.DefaultTagRegistry
	}

	return i.analyser.Tags
}

func sectionReports(sections elfabi.Sections) []Section {
	reports := make([]Section, 0, len(sections))

	for _, section := range sections {
		reports = append(reports, Section{
			Name:   section.Name,
			Type:   sectionTypeName(section.Type),
			Offset: section.Offset,
			Size:   section.Size,
		})
	}

	return reports
}

func attrReports(attrs elfabi.Attributes) []Attr {
	reports := make([]Attr, 0, len(attrs))

	for _, attr := range slices.SortedFunc(maps.Values(attrs), func(a, b elfabi.Attribute) int {
		return cmp.Compare(a.Tag.Value, b.Tag.Value)
	}) {
		reports = append(reports, Attr{
			Tag:   attr.Tag.Value,
			Name:  attr.Tag.Name,
			Value: attr.String(),
		})
	}

	return reports
}

func sectionTypeName(sectionType elf.SectionType) string {
	// debug/elf names processor specific types after MIPS.
	if sectionType == elfabi.SHTARMAttributes {
		return "SHT_ARM_ATTRIBUTES"
	}

	return sectionType.String()
}
