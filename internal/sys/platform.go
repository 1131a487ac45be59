// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/aibor/elfabi/internal/elfabi"
)

// Platform is an operating system paired with an architecture.
type Platform struct {
	OS   OS   `json:"os"   yaml:"os"`
	Arch Arch `json:"arch" yaml:"arch"`
	// Variant is "armhf" or "armel" on 32 bit ARM Linux, empty otherwise.
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`
}

func (p Platform) String() string {
	s := string(p.OS) + "-" + string(p.Arch)
	if p.Variant != "" {
		s += "-" + p.Variant
	}

	return s
}

// Prober provides the facts about the running system [DetectPlatform] needs.
type Prober interface {
	// GOOS returns the operating system name.
	GOOS() string
	// Machine returns the hardware name, like uname does.
	Machine() (string, error)
	// Libc returns the flavor of the C standard library.
	Libc(ctx context.Context) Libc
	// Executable returns the path of an executable that is representative
	// for the floating-point ABI of the system.
	Executable() (string, error)
}

// SystemProber probes the running system.
type SystemProber struct{}

var _ Prober = SystemProber{}

// GOOS returns [runtime.GOOS].
func (SystemProber) GOOS() string {
	return runtime.GOOS
}

// Machine returns the hardware name as reported by the kernel.
func (SystemProber) Machine() (string, error) {
	return Machine()
}

// Libc detects the C standard library by [LibcFlavor].
func (SystemProber) Libc(ctx context.Context) Libc {
	return LibcFlavor(ctx)
}

// Executable returns the canonical path of the running executable.
func (SystemProber) Executable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("running executable: %w", err)
	}

	return CanonicalPath(path)
}

// DetectPlatform detects the platform using the given [Prober].
//
// On Linux, the C standard library is probed to distinguish musl based
// systems. On 32 bit ARM Linux the executable returned by the prober is
// analysed to determine the floating-point ABI variant.
func DetectPlatform(ctx context.Context, prober Prober) (Platform, error) {
	var (
		platform Platform
		env      OSEnv
		goos     = prober.GOOS()
	)

	env.Android = goos == string(Android)
	if ParseOS(goos, OSEnv{}) == Linux {
		env.Musl = prober.Libc(ctx) == LibcMusl
	}

	platform.OS = ParseOS(goos, env)

	machine, err := prober.Machine()
	if err != nil {
		return platform, fmt.Errorf("machine: %w", err)
	}

	platform.Arch, err = ParseArch(machine)
	if err != nil {
		return platform, err
	}

	if platform.Arch != ARM || (platform.OS != Linux && platform.OS != LinuxMusl) {
		return platform, nil
	}

	path, err := prober.Executable()
	if err != nil {
		return platform, fmt.Errorf("executable: %w", err)
	}

	analysis, err := elfabi.Analyse(path)
	if err != nil {
		return platform, fmt.Errorf("analyse %s: %w", path, err)
	}

	platform.Variant = ARMVariant(analysis)

	slog.Debug("Detected ARM floating-point ABI",
		slog.String("executable", path),
		slog.String("variant", platform.Variant),
	)

	return platform, nil
}

//nolint:gochecknoglobals
var currentPlatform = sync.OnceValues(func() (Platform, error) {
	return DetectPlatform(context.Background(), SystemProber{})
})

// CurrentPlatform returns the platform of the running system. It is detected
// once with [SystemProber].
func CurrentPlatform() (Platform, error) {
	return currentPlatform()
}
