// Package tools wraps the external programs nasher drives: the archive
// tool that packs and unpacks module containers, the converter between the
// game's binary formats and JSON, and the script compiler.
//
// Each tool is an interface so the build pipeline can be tested without
// the real binaries installed.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrToolFailed indicates an external tool exited with a nonzero status.
var ErrToolFailed = errors.New("tool failed")

// Archiver packs and unpacks archive files.
type Archiver interface {
	// Extract unpacks the archive at path into destDir.
	Extract(ctx context.Context, path, destDir string) error

	// Create writes files into a new archive at out, replacing it.
	Create(ctx context.Context, out string, files []string) error
}

// Converter converts a file between its binary and JSON forms in place:
// "x.utc" produces "x.utc.json" and "x.utc.json" produces "x.utc" in the
// same directory. The input file is left untouched.
type Converter interface {
	Convert(ctx context.Context, path string) error
}

// CompileRequest describes one compiler invocation.
type CompileRequest struct {
	Binary string
	Args   []string

	// Dir is the working directory of the compiler process.
	Dir string
}

// Compiler runs the script compiler.
type Compiler interface {
	// Run returns the compiler's exit code. The error is non-nil only if the
	// process could not be run at all.
	Run(ctx context.Context, req CompileRequest) (int, error)
}

// ConvertedPath returns the output path Converter.Convert produces for path.
func ConvertedPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return path[:len(path)-len(".json")]
	}
	return path + ".json"
}

// Runner executes external commands.
type Runner struct {
	// Stdout and Stderr receive the tool's output. Nil discards stdout;
	// stderr is always captured for error messages.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes name with args in dir and returns its exit code.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stdout = r.Stdout
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), fmt.Errorf("%w: %s exited with status %d: %s",
			ErrToolFailed, name, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	}
	return -1, fmt.Errorf("failed to run %s: %w", name, err)
}
