// Package engine provides the build pipeline for nasher projects.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. It stages a target's sources into a scratch build
// directory, drives the external compiler, converter and archive tools, and
// installs the packaged artifact, asking before it overwrites anything that
// looks fresher than what would replace it.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Build: compile, pack and install a target
//   - Unpack: turn an artifact back into a source tree
package engine

import (
	"fmt"

	"github.com/danieljhkim/nasher/internal/clock"
	"github.com/danieljhkim/nasher/internal/fsops"
	"github.com/danieljhkim/nasher/internal/hash"
	"github.com/danieljhkim/nasher/internal/tools"
	"github.com/danieljhkim/nasher/internal/ui"
)

// Engine orchestrates all nasher build operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs        fsops.FS
	archiver  tools.Archiver
	converter tools.Converter
	compiler  tools.Compiler
	hasher    hash.Hasher
	prompter  ui.Prompter
	log       ui.Logger
	clock     clock.Clock
}

// New creates a new Engine with the given dependencies.
func New(
	fs fsops.FS,
	archiver tools.Archiver,
	converter tools.Converter,
	compiler tools.Compiler,
	hasher hash.Hasher,
	prompter ui.Prompter,
	log ui.Logger,
	clk clock.Clock,
) *Engine {
	return &Engine{
		fs:        fs,
		archiver:  archiver,
		converter: converter,
		compiler:  compiler,
		hasher:    hasher,
		prompter:  prompter,
		log:       log,
		clock:     clk,
	}
}

func (e *Engine) debugf(format string, a ...any) {
	e.log.Log(ui.LevelDebug, fmt.Sprintf(format, a...))
}

func (e *Engine) infof(format string, a ...any) {
	e.log.Log(ui.LevelInfo, fmt.Sprintf(format, a...))
}

func (e *Engine) successf(format string, a ...any) {
	e.log.Log(ui.LevelSuccess, fmt.Sprintf(format, a...))
}

func (e *Engine) warnf(format string, a ...any) {
	e.log.Log(ui.LevelWarn, fmt.Sprintf(format, a...))
}

// recreateDir removes dir and everything under it, then creates it empty.
func (e *Engine) recreateDir(stage, dir string) error {
	if err := e.fs.RemoveAll(dir); err != nil {
		return &StageError{Stage: stage, Path: dir, Err: fmt.Errorf("failed to remove directory: %w", err)}
	}
	if err := e.fs.MkdirAll(dir, 0755); err != nil {
		return &StageError{Stage: stage, Path: dir, Err: fmt.Errorf("failed to create directory: %w", err)}
	}
	return nil
}
