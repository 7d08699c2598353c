package engine

import (
	"time"

	"github.com/danieljhkim/nasher/internal/config"
)

// Op is a build operation. Each op implies every op before it.
type Op int

const (
	OpCompile Op = iota + 1
	OpPack
	OpInstall
)

func (o Op) String() string {
	switch o {
	case OpCompile:
		return "compile"
	case OpPack:
		return "pack"
	case OpInstall:
		return "install"
	default:
		return "unknown"
	}
}

// BuildRequest represents a request to build one target.
type BuildRequest struct {
	// Root is the project root
	Root string

	// Model is the merged configuration
	Model *config.Model

	// Target is the resolved target to build
	Target config.Target

	// Op is how far the pipeline runs
	Op Op
}

// BuildResult reports what a build did.
type BuildResult struct {
	// BuildDir is the target's scratch directory
	BuildDir string

	// Staged lists the source files copied into BuildDir, in copy order
	Staged []string

	// ReferenceTime is the modification time of the newest staged source.
	// It is zero when no source matched.
	ReferenceTime time.Time

	// Compiled is true if the compiler ran
	Compiled bool

	// CompilerExit is the compiler's exit code when Compiled is true
	CompilerExit int

	// Converted lists the files produced by conversion
	Converted []string

	// Artifact is the packaged file path
	Artifact string

	// Packed is true if Artifact was written
	Packed bool

	// Installed is the installed file path, if installed
	Installed string

	// Declined is true if the user declined an overwrite; the run stopped
	// there without error
	Declined bool

	// Elapsed is how long the build took
	Elapsed time.Duration
}

// UnpackRequest represents a request to unpack an artifact.
type UnpackRequest struct {
	// Root is the project root; the extraction cache lives under it
	Root string

	// File is the artifact to unpack
	File string

	// Dir is the destination source tree (default: Root)
	Dir string
}

// UnpackResult reports what an unpack did.
type UnpackResult struct {
	// CacheDir is where the artifact was extracted
	CacheDir string

	// Written lists destination files created or replaced
	Written []string

	// Unchanged lists destination files whose content already matched
	Unchanged []string

	// Kept lists destination files the user chose not to overwrite
	Kept []string

	// Skipped lists extracted files of unrecognized type
	Skipped []string
}
