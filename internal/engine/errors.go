package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates a required input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInstallDirMissing indicates the install destination does not exist.
	// Nasher never creates the game's directories itself.
	ErrInstallDirMissing = errors.New("install directory does not exist")

	// ErrNoArtifact indicates a target without an output file.
	ErrNoArtifact = errors.New("target has no output file")

	// ErrNothingToPack indicates an empty build directory at pack time.
	ErrNothingToPack = errors.New("no files to pack")

	// ErrArchive indicates the archive tool failed.
	ErrArchive = errors.New("archive tool failed")

	// ErrConvert indicates the converter failed.
	ErrConvert = errors.New("conversion failed")
)

// Stage names used in StageError.
const (
	StagePrepare = "prepare"
	StageStage   = "stage"
	StageCompile = "compile"
	StageConvert = "convert"
	StagePack    = "pack"
	StageInstall = "install"
	StageUnpack  = "unpack"
)

// StageError reports a fatal failure in one pipeline stage.
type StageError struct {
	Stage string
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
