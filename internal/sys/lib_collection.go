// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"os/exec"
	"slices"

	"github.com/aibor/elfabi/internal/elfabi"
)

// LibCollection is a deduplicated collection of dynamically linked libraries.
type LibCollection struct {
	libs map[string]int
}

// Libs returns an iterator that iterates all libraries sorted by path.
func (c *LibCollection) Libs() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range slices.Sorted(maps.Keys(c.libs)) {
			if !yield(name) {
				return
			}
		}
	}
}

// Len returns the number of collected libraries.
func (c *LibCollection) Len() int {
	return len(c.libs)
}

// CollectLibsFor resolves the dynamically linked shared objects of all given
// files. ldd resolves them recursively.
//
// Files that are not ELF files or that are not dynamically linked are
// skipped. The dynamic linker consumes LD_LIBRARY_PATH from the environment.
func CollectLibsFor(
	ctx context.Context,
	files ...string,
) (LibCollection, error) {
	collection := LibCollection{
		libs: make(map[string]int),
	}

	for _, name := range files {
		err := collectLibsFor(ctx, collection.libs, name)
		if err != nil {
			return collection, fmt.Errorf("[%s]: %w", name, err)
		}
	}

	return collection, nil
}

func collectLibsFor(
	ctx context.Context,
	libs map[string]int,
	name string,
) error {
	analysis, err := elfabi.Analyse(name)
	if err != nil {
		return fmt.Errorf("analyse: %w", err)
	}

	if !analysis.ELF {
		return nil
	}

	paths, err := Ldd(ctx, name)
	if err != nil {
		// ldd exits non-zero for statically linked files.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Debug("Skip file without dynamic libraries",
				slog.String("file", name),
				slog.Any("error", err),
			)

			return nil
		}

		return err
	}

	for _, p := range paths {
		absPath, err := AbsolutePath(p)
		if err != nil {
			return err
		}

		libs[absPath]++
	}

	return nil
}
