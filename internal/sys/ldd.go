// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	lddCommand = "ldd"
	lddTimeout = 5 * time.Second
)

// Libc is the flavor of the C standard library of the system.
type Libc string

// Known C standard libraries.
const (
	LibcUnknown Libc = ""
	LibcGlibc   Libc = "glibc"
	LibcMusl    Libc = "musl"
)

// Ldd gathers the required shared objects of the ELF file with the given path.
//
// It invokes the "ldd" executable which is expected to be present on the
// system. It returns an [LDDExecError] in case "ldd" is not available or it
// returned with a non-zero exit code. This might be the case if the binary is
// not dynamically linked.
func Ldd(ctx context.Context, path string) ([]string, error) {
	var lddOutput bytes.Buffer

	err := runLdd(ctx, &lddOutput, path)
	if err != nil {
		return nil, err
	}

	var infos ldInfos

	infos.parseFrom(&lddOutput)

	return infos.realPaths(), nil
}

// LibcFlavor detects the C standard library of the system by the version
// output of "ldd".
//
// musl prints its version to stderr and exits non-zero, so the first line of
// stdout is used if present, the first line of stderr otherwise. If "ldd" can
// not be run at all, [LibcUnknown] is returned.
func LibcFlavor(ctx context.Context) Libc {
	var stdout bytes.Buffer

	err := runLdd(ctx, &stdout, "--version")

	var execErr *LDDExecError
	if errors.As(err, &execErr) {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			slog.Debug("Failed to run ldd", slog.Any("error", err))
			return LibcUnknown
		}

		return parseLibcFlavor(&stdout, strings.NewReader(execErr.Stderr))
	}

	return parseLibcFlavor(&stdout)
}

func parseLibcFlavor(outputs ...io.Reader) Libc {
	for _, output := range outputs {
		scanner := bufio.NewScanner(output)
		if !scanner.Scan() {
			continue
		}

		if strings.HasPrefix(strings.ToLower(scanner.Text()), "musl") {
			return LibcMusl
		}

		return LibcGlibc
	}

	return LibcUnknown
}

func runLdd(ctx context.Context, outW io.Writer, args ...string) error {
	var stderrBuf bytes.Buffer

	ctx, stop := context.WithTimeout(ctx, lddTimeout)
	defer stop()

	cmd := exec.CommandContext(ctx, lddCommand, args...)
	cmd.Stdout = outW
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err != nil {
		return &LDDExecError{
			Err:    err,
			Stderr: stderrBuf.String(),
		}
	}

	return nil
}

type ldInfos []ldInfo

// parseFrom takes a ldd output, processes each line and adds an [ldInfo] to
// the list.
func (l *ldInfos) parseFrom(lddOutput io.Reader) {
	scanner := bufio.NewScanner(lddOutput)
	for scanner.Scan() {
		var info ldInfo

		info.parseFrom(scanner.Text())

		*l = append(*l, info)
	}
}

// realPaths returns all shared objects that are a real file in the file system.
// So, everything except vdso.
func (l *ldInfos) realPaths() []string {
	var paths []string

	for _, i := range *l {
		switch {
		case filepath.IsAbs(i.name):
			paths = append(paths, i.name)
		case i.path != "":
			paths = append(paths, i.path)
		}
	}

	return paths
}

type ldInfo struct {
	name  string
	path  string
	start uint
}

// parseFrom sets the fields from a single line of ldd output.
func (l *ldInfo) parseFrom(line string) {
	// Format for shared objects that reference an absolute path.
	// From glibc rtld.c: _dl_printf ("\t%s => %s (0x%0*zx)\n",
	_, err := fmt.Sscanf(line, "\t%s => %s (0x%x)", &l.name, &l.path, &l.start)
	if err == nil {
		return
	}
	// Format for shared objects that do not reference anything and might be
	// an absolute path already.
	// From glibc rtld.c: _dl_printf ("\t%s (0x%0*zx)\n"
	_, _ = fmt.Sscanf(line, "\t%s (0x%x)", &l.name, &l.start)
}
