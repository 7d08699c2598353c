package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultERFBinary and DefaultGFFBinary are the tools from neverwinter.nim.
const (
	DefaultERFBinary = "nwn_erf"
	DefaultGFFBinary = "nwn_gff"
)

// ERF implements Archiver with the nwn_erf command line tool.
type ERF struct {
	Binary string
	Runner *Runner
}

// NewERF creates an ERF archiver. An empty binary uses DefaultERFBinary.
func NewERF(binary string, r *Runner) *ERF {
	if binary == "" {
		binary = DefaultERFBinary
	}
	return &ERF{Binary: binary, Runner: r}
}

// Extract unpacks path into destDir. nwn_erf extracts into its working
// directory, so the process runs in destDir.
func (e *ERF) Extract(ctx context.Context, path, destDir string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := e.Runner.Run(ctx, destDir, e.Binary, "-x", "-f", abs); err != nil {
		return fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return nil
}

// Create packs files into out. The archive type is taken from out's
// extension. Files sharing one directory are passed by base name with the
// process running in that directory, so entries carry no path prefix.
func (e *ERF) Create(ctx context.Context, out string, files []string) error {
	if len(files) == 0 {
		return errors.New("no files to pack")
	}

	absOut, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	dir := filepath.Dir(files[0])
	names := make([]string, 0, len(files))
	for _, f := range files {
		if filepath.Dir(f) != dir {
			dir = ""
			break
		}
		names = append(names, filepath.Base(f))
	}
	if dir == "" {
		names = files
	}

	args := []string{"-c", "-e", archiveType(out), "-f", absOut}
	args = append(args, names...)
	if _, err := e.Runner.Run(ctx, dir, e.Binary, args...); err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	return nil
}

func archiveType(path string) string {
	switch ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "MOD", "HAK", "ERF":
		return ext
	default:
		return "ERF"
	}
}

// GFF implements Converter with the nwn_gff command line tool.
type GFF struct {
	Binary string
	Runner *Runner
}

// NewGFF creates a GFF converter. An empty binary uses DefaultGFFBinary.
func NewGFF(binary string, r *Runner) *GFF {
	if binary == "" {
		binary = DefaultGFFBinary
	}
	return &GFF{Binary: binary, Runner: r}
}

// Convert writes the converted form of path next to it.
func (g *GFF) Convert(ctx context.Context, path string) error {
	out := ConvertedPath(path)
	if _, err := g.Runner.Run(ctx, filepath.Dir(path), g.Binary, "-i", path, "-o", out); err != nil {
		return fmt.Errorf("failed to convert %s: %w", path, err)
	}
	return nil
}

// ExecCompiler implements Compiler by running the configured binary.
type ExecCompiler struct {
	Runner *Runner
}

// NewExecCompiler creates an ExecCompiler.
func NewExecCompiler(r *Runner) *ExecCompiler {
	return &ExecCompiler{Runner: r}
}

// Run executes the compiler. A nonzero exit is reported through the exit
// code only.
func (c *ExecCompiler) Run(ctx context.Context, req CompileRequest) (int, error) {
	code, err := c.Runner.Run(ctx, req.Dir, req.Binary, req.Args...)
	if err != nil && !errors.Is(err, ErrToolFailed) {
		return code, err
	}
	return code, nil
}
