// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/aibor/elfabi/internal/sys"
)

const (
	name = "elfabi"

	usageMessage = `Usage of 'elfabi':
    elfabi [flags...] file...

Report whether ELF files are built for the ARM hardfloat ABI:
	elfabi /usr/bin/*

Check all shared objects in an initramfs archive:
	elfabi -archive -match '/usr/lib/**.so*' -require-hardfloat initramfs.cpio

All elfabi flags can also be provided via environment variable ELFABI_ARGS:
	ELFABI_ARGS="-format=json -debug" elfabi ./my_binary

All elfabi flags can also be provided via file ./.elfabi-args, with one
argument per line.
`
)

type flags struct {
	Files []string

	Format           OutputFormat
	Arch             sys.Arch
	Match            string
	Jobs             int
	Sections         bool
	Attributes       bool
	Libs             bool
	Archive          bool
	Platform         bool
	RequireHardFloat bool
	Debug            bool
	Version          bool

	flagSet *flag.FlagSet
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	f := &flags{
		Format: FormatText,
		Jobs:   jobsDefault,
	}

	f.initFlagset(output)

	err := f.parseArgs(args)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (f *flags) parseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// Version is handled by the caller. All other flags are irrelevant then.
	if f.Version {
		return nil
	}

	if f.Match != "" && !f.Archive {
		return f.fail("-match requires -archive", nil)
	}

	if f.Archive && f.Libs {
		return f.fail("-libs can not be used with -archive", nil)
	}

	positionalArgs := f.flagSet.Args()

	if len(positionalArgs) < 1 && !f.Platform {
		return f.fail("no file given", nil)
	}

	f.Files = make([]string, 0, len(positionalArgs))

	for _, arg := range positionalArgs {
		path, err := sys.AbsolutePath(arg)
		if err != nil {
			return f.fail("file path", err)
		}

		f.Files = append(f.Files, path)
	}

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.Var(
		&f.Format,
		"format",
		"output format: text, json, yaml",
	)

	flagSet.BoolVar(
		&f.Sections,
		"sections",
		f.Sections,
		"include the section header table in the report",
	)

	flagSet.BoolVar(
		&f.Attributes,
		"attributes",
		f.Attributes,
		"include the file scope ARM build attributes in the report",
	)

	flagSet.BoolVar(
		&f.Libs,
		"libs",
		f.Libs,
		"also analyse the shared objects the files are linked against "+
			"(requires ldd)",
	)

	flagSet.BoolVar(
		&f.Archive,
		"archive",
		f.Archive,
		"treat files as cpio archives and analyse their members",
	)

	flagSet.StringVar(
		&f.Match,
		"match",
		f.Match,
		"glob pattern archive member paths must match. \"*\" does not match "+
			"\"/\", \"**\" does (default matches all members)",
	)

	flagSet.Var(
		(*jobsValue)(&f.Jobs),
		"jobs",
		"number of files analysed concurrently, 1 to 64",
	)

	flagSet.Var(
		&f.Arch,
		"arch",
		"require all ELF files to be built for the given architecture",
	)

	flagSet.BoolVar(
		&f.Platform,
		"platform",
		f.Platform,
		"include the detected platform of the running system in the report",
	)

	flagSet.BoolVar(
		&f.RequireHardFloat,
		"require-hardfloat",
		f.RequireHardFloat,
		"exit with code 1 if an analysed ARM file is not hardfloat",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
