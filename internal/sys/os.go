// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"slices"
	"strings"
)

// OS is an operating system. Linux is split by its C standard library and
// Android.
type OS string

// Known operating systems.
const (
	Windows   OS = "windows"
	Linux     OS = "linux"
	LinuxMusl OS = "linux-musl"
	Android   OS = "android"
	Darwin    OS = "darwin"
	Solaris   OS = "solaris"
	FreeBSD   OS = "freebsd"
	NetBSD    OS = "netbsd"
	OpenBSD   OS = "openbsd"
	Dragonfly OS = "dragonfly"
	AIX       OS = "aix"
	UnknownOS OS = "unknown"
)

// OSEnv holds the facts about the running system that distinguish operating
// systems sharing the same name.
type OSEnv struct {
	Musl    bool
	Android bool
}

type osAliases struct {
	os      OS
	aliases []string
	check   func(OSEnv) bool
}

//nolint:gochecknoglobals
var osAliasTable = []osAliases{
	{Windows, []string{"windows", "win"}, nil},
	{Linux, []string{"linux", "nix", "nux"}, func(e OSEnv) bool {
		return !e.Musl && !e.Android
	}},
	{LinuxMusl, []string{"linux", "nix", "nux"}, func(e OSEnv) bool {
		return e.Musl && !e.Android
	}},
	{Android, []string{"android", "linux", "nix", "nux"}, func(e OSEnv) bool {
		return e.Android
	}},
	{Darwin, []string{"darwin", "macos", "osx"}, nil},
	{Solaris, []string{"solaris", "sunos"}, nil},
	{FreeBSD, []string{"freebsd"}, nil},
	{NetBSD, []string{"netbsd"}, nil},
	{OpenBSD, []string{"openbsd"}, nil},
	{Dragonfly, []string{"dragonfly"}, nil},
	{AIX, []string{"aix"}, nil},
	{UnknownOS, []string{"unknown"}, nil},
}

// ParseOS maps an operating system name, like [runtime.GOOS], to an [OS].
//
// Matching works like for [ParseArch]. Linux variants are only matched if env
// fits them. Names that match nothing result in [UnknownOS].
func ParseOS(name string, env OSEnv) OS {
	result, _ := matchAliases(strings.ToLower(name), osAliasTable,
		func(e osAliases) []string { return e.aliases },
		func(e osAliases) (OS, bool) {
			return e.os, e.check == nil || e.check(env)
		},
		func(string) (OS, error) { return UnknownOS, nil },
	)

	return result
}

// NativePrefix returns the file name prefix of shared libraries.
func (o OS) NativePrefix() string {
	if o == Windows {
		return ""
	}

	return "lib"
}

// NativeSuffix returns the file name suffix of shared libraries.
func (o OS) NativeSuffix() string {
	switch o {
	case Windows:
		return ".dll"
	case Darwin:
		return ".dylib"
	default:
		return ".so"
	}
}

// Family is a group of related operating systems.
type Family string

// Known operating system families.
const (
	FamilyWindows Family = "windows"
	FamilyBSD     Family = "bsd"
	FamilyUnix    Family = "unix"
	FamilyUnknown Family = "unknown"
)

type familyMembers struct {
	members []OS
	parent  Family
}

// Unix contains BSD as a sub family.
//
//nolint:gochecknoglobals
var familyTable = map[Family]familyMembers{
	FamilyWindows: {members: []OS{Windows}},
	FamilyBSD:     {members: []OS{OpenBSD, FreeBSD, NetBSD, Dragonfly}},
	FamilyUnix: {
		members: []OS{Linux, LinuxMusl, Android, Darwin, AIX, Solaris},
		parent:  FamilyBSD,
	},
	FamilyUnknown: {members: []OS{UnknownOS}},
}

// Contains returns true if the operating system is a member of the family or
// of its sub family.
func (f Family) Contains(o OS) bool {
	family, exists := familyTable[f]
	if !exists {
		return false
	}

	if slices.Contains(family.members, o) {
		return true
	}

	return family.parent != "" && family.parent.Contains(o)
}

// Family returns the most specific family the operating system belongs to.
func (o OS) Family() Family {
	for _, family := range []Family{FamilyWindows, FamilyBSD, FamilyUnix} {
		if family.Contains(o) {
			return family
		}
	}

	return FamilyUnknown
}
