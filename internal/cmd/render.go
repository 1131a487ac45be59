// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

func writeReport(w io.Writer, report Report, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatYAML:
		return writeYAML(w, report)
	case FormatText, "":
		return writeText(w, report)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, report Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	err := encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}

func writeText(w io.Writer, report Report) error {
	var buf strings.Builder

	if report.Platform != nil {
		osName := report.Platform.OS
		fmt.Fprintf(&buf, "platform: %s (family %s, libraries %s*%s)\n",
			report.Platform, osName.Family(),
			osName.NativePrefix(), osName.NativeSuffix())
	}

	for _, file := range report.Files {
		buf.WriteString(fileSummary(file))
		buf.WriteByte('\n')

		for idx, section := range file.Sections {
			fmt.Fprintf(&buf, "  [%2d] %-20s %-18s offset %#x size %s\n",
				idx, section.Name, section.Type, section.Offset,
				humanize.IBytes(section.Size))
		}

		for _, attr := range file.Attributes {
			fmt.Fprintf(&buf, "  %s (%d): %s\n", attr.Name, attr.Tag, attr.Value)
		}
	}

	_, err := io.WriteString(w, buf.String())
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

func fileSummary(file FileReport) string {
	name := file.DisplayName()
	if file.Library {
		name += " (library)"
	}

	if !file.ELF {
		return name + ": not an ELF file"
	}

	summary := fmt.Sprintf("%s: %s %s %s", name, file.Class, file.Data, file.Machine)

	if file.ARM != nil {
		summary += fmt.Sprintf(" %s (hardfloat flag: %t, softfloat flag: %t, vfp args: %t)",
			file.ARM.Variant, file.ARM.HardFloatFlag,
			file.ARM.SoftFloatFlag, file.ARM.VFPArgs)
	}

	return summary
}
