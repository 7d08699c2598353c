package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/nasher/internal/config"
	"github.com/danieljhkim/nasher/internal/staleness"
)

// installSubdirs maps artifact extensions to their directory under the
// install root. Other extensions install into the root itself.
var installSubdirs = map[string]string{
	".mod": "modules",
	".hak": "hak",
	".erf": "erf",
}

// InstallDir returns the directory an artifact is installed into.
func InstallDir(root, artifact string) string {
	if sub, ok := installSubdirs[strings.ToLower(filepath.Ext(artifact))]; ok {
		return filepath.Join(root, sub)
	}
	return root
}

// confirmOverwrite compares candidate with dest and asks when dest exists.
// It returns errDeclined if the user says no.
func (e *Engine) confirmOverwrite(stage, what string, cmp staleness.Comparison) error {
	if !cmp.NeedsPrompt() {
		return nil
	}
	if cmp.Known {
		e.debugf("%s is %s %s", what, cmp.Hint(), cmp.Path)
	}
	if !e.prompter.Confirm(cmp.Prompt(what), cmp.DefaultAnswer()) {
		e.infof("Keeping existing %s; %s aborted", cmp.Path, stage)
		return errDeclined
	}
	return nil
}

// pack assembles the build directory into the target's artifact and stamps
// it with the reference time.
func (e *Engine) pack(ctx context.Context, root string, target config.Target, result *BuildResult) error {
	if target.File == "" {
		return &StageError{Stage: StagePack, Err: fmt.Errorf("%w: %s", ErrNoArtifact, target.Name)}
	}

	artifact := target.File
	if !filepath.IsAbs(artifact) {
		artifact = filepath.Join(root, artifact)
	}
	result.Artifact = artifact

	names, err := e.fs.ReadDir(result.BuildDir)
	if err != nil {
		return &StageError{Stage: StagePack, Path: result.BuildDir, Err: err}
	}
	if len(names) == 0 {
		return &StageError{Stage: StagePack, Path: result.BuildDir, Err: ErrNothingToPack}
	}
	files := make([]string, len(names))
	for i, n := range names {
		files[i] = filepath.Join(result.BuildDir, n)
	}

	cmp, err := staleness.Compare(e.fs, result.ReferenceTime, artifact)
	if err != nil {
		return &StageError{Stage: StagePack, Path: artifact, Err: err}
	}
	if err := e.confirmOverwrite(StagePack, "The packed file", cmp); err != nil {
		return err
	}

	if err := e.fs.MkdirAll(filepath.Dir(artifact), 0755); err != nil {
		return &StageError{Stage: StagePack, Path: artifact, Err: err}
	}

	e.infof("Packing %d files into %s", len(files), artifact)
	if err := e.archiver.Create(ctx, artifact, files); err != nil {
		return &StageError{Stage: StagePack, Path: artifact, Err: fmt.Errorf("%w: %w", ErrArchive, err)}
	}

	if !result.ReferenceTime.IsZero() {
		if err := e.fs.Chtimes(artifact, result.ReferenceTime); err != nil {
			return &StageError{Stage: StagePack, Path: artifact, Err: err}
		}
	}

	result.Packed = true
	e.successf("Packed %s", artifact)
	return nil
}

// install copies the artifact into the game's directory, keeping its
// modification time.
func (e *Engine) install(installRoot string, result *BuildResult) error {
	artifact := result.Artifact
	destDir := InstallDir(installRoot, artifact)

	exists, err := e.fs.Exists(destDir)
	if err != nil {
		return &StageError{Stage: StageInstall, Path: destDir, Err: err}
	}
	if !exists {
		return &StageError{Stage: StageInstall, Path: destDir, Err: ErrInstallDirMissing}
	}

	info, err := e.fs.Stat(artifact)
	if err != nil {
		return &StageError{Stage: StageInstall, Path: artifact, Err: err}
	}
	mtime := info.ModTime()

	dest := filepath.Join(destDir, filepath.Base(artifact))
	cmp, err := staleness.Compare(e.fs, mtime, dest)
	if err != nil {
		return &StageError{Stage: StageInstall, Path: dest, Err: err}
	}
	if err := e.confirmOverwrite(StageInstall, "The file to install", cmp); err != nil {
		return err
	}

	if err := e.fs.Copy(artifact, dest); err != nil {
		return &StageError{Stage: StageInstall, Path: dest, Err: err}
	}
	if err := e.fs.Chtimes(dest, mtime); err != nil {
		return &StageError{Stage: StageInstall, Path: dest, Err: err}
	}

	result.Installed = dest
	e.successf("Installed %s", dest)
	return nil
}
