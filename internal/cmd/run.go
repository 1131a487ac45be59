// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/aibor/elfabi/internal/archive"
	"github.com/aibor/elfabi/internal/elfabi"
	"github.com/aibor/elfabi/internal/sys"
	"golang.org/x/sync/errgroup"
)

const localConfigFile = ".elfabi-args"

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

type input struct {
	path    string
	library bool
}

func collectInputs(ctx context.Context, flags *flags) ([]input, error) {
	inputs := make([]input, 0, len(flags.Files))
	for _, file := range flags.Files {
		inputs = append(inputs, input{path: file})
	}

	if !flags.Libs || len(flags.Files) == 0 {
		return inputs, nil
	}

	libs, err := sys.CollectLibsFor(ctx, flags.Files...)
	if err != nil {
		return nil, fmt.Errorf("collect libs: %w", err)
	}

	slog.Debug("Collected shared objects", slog.Int("count", libs.Len()))

	for lib := range libs.Libs() {
		inputs = append(inputs, input{path: lib, library: true})
	}

	return inputs, nil
}

// analyseInputs runs fn for all inputs with at most jobs concurrent calls.
// The reports are returned in input order.
func analyseInputs(
	ctx context.Context,
	jobs int,
	inputs []input,
	fn func(input) ([]FileReport, error),
) ([]FileReport, error) {
	results := make([][]FileReport, len(inputs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for idx, in := range inputs {
		group.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return fmt.Errorf("%s: %w", in.path, err)
			}

			reports, err := fn(in)
			if err != nil {
				return fmt.Errorf("%s: %w", in.path, err)
			}

			slog.Debug("Analysed input",
				slog.String("path", in.path),
				slog.Int("files", len(reports)),
			)

			results[idx] = reports

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return slices.Concat(results...), nil
}

func newAnalyseFunc(flags *flags) (func(input) ([]FileReport, error), error) {
	inspector := inspector{
		analyser:   elfabi.Analyser{Tags: elfabi.DefaultTagRegistry},
		sections:   flags.Sections,
		attributes: flags.Attributes,
	}

	if !flags.Archive {
		return func(in input) ([]FileReport, error) {
			report, err := inspector.inspectFile(in.path)
			if err != nil {
				return nil, err
			}

			report.Library = in.library

			return []FileReport{report}, nil
		}, nil
	}

	scanner, err := archive.NewScanner(flags.Match)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	return func(in input) ([]FileReport, error) {
		// Each archive gets its own scanner copy.
		archiveScanner := *scanner
		return inspector.inspectArchive(in.path, &archiveScanner)
	}, nil
}

// checkReports validates the analysed files against the requirements given
// by flags.
func checkReports(files []FileReport, flags *flags) error {
	var errs []error

	if flags.Arch != sys.ArchUnknown {
		slog.Debug("Validating architecture",
			slog.String("arch", flags.Arch.String()),
			slog.Bool("native", flags.Arch.IsNative()))

		for _, file := range files {
			if !file.ELF {
				continue
			}

			err := sys.ValidateELF(file.analysis, flags.Arch)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", file.DisplayName(), err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if !flags.RequireHardFloat {
		return nil
	}

	var violations []string

	for _, file := range files {
		if file.HardFloatViolation() {
			violations = append(violations, file.DisplayName())
		}
	}

	if len(violations) > 0 {
		return fmt.Errorf("%w: %s", ErrNotHardFloat, strings.Join(violations, ", "))
	}

	return nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	var report Report

	if flags.Platform {
		platform, err := sys.CurrentPlatform()
		if err != nil {
			return fmt.Errorf("detect platform: %w", err)
		}

		report.Platform = &platform
	}

	inputs, err := collectInputs(ctx, flags)
	if err != nil {
		return err
	}

	analyseFunc, err := newAnalyseFunc(flags)
	if err != nil {
		return err
	}

	report.Files, err = analyseInputs(ctx, flags.Jobs, inputs, analyseFunc)
	if err != nil {
		return err
	}

	if report.Files == nil {
		report.Files = []FileReport{}
	}

	err = writeReport(cfg.Stdout, report, flags.Format)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return checkReports(report.Files, flags)
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	if errors.Is(err, ErrNotHardFloat) {
		slog.Warn(err.Error())
		return 1
	}

	slog.Error(err.Error())

	return -1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.Debug)

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return -1
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return 0
	}

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
