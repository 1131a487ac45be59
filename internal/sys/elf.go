// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"

	"github.com/aibor/elfabi/internal/elfabi"
)

// ValidateELF validates that the analysed ELF file matches the requested
// architecture.
func ValidateELF(analysis elfabi.Analysis, arch Arch) error {
	if !analysis.ELF {
		return ErrNotELFFile
	}

	archReq, err := MachineArch(analysis.Machine)
	if err != nil {
		return err
	}

	if archReq != arch {
		return fmt.Errorf(
			"%w: %s on %s",
			ErrMachineNotSupported,
			analysis.Machine,
			arch,
		)
	}

	return nil
}

// ARMVariant returns the Debian style name of the floating-point ABI variant
// of an analysed 32 bit ARM file. It returns an empty string for all other
// files.
func ARMVariant(analysis elfabi.Analysis) string {
	switch {
	case !analysis.ARM:
		return ""
	case analysis.ARMHardFloat():
		return "armhf"
	default:
		return "armel"
	}
}
