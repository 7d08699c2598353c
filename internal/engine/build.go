package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/danieljhkim/nasher/internal/clock"
	"github.com/danieljhkim/nasher/internal/config"
	"github.com/danieljhkim/nasher/internal/tools"
)

// errDeclined stops the pipeline after the user declined an overwrite.
var errDeclined = errors.New("declined")

// Build runs the pipeline for one target up to req.Op.
//
// Algorithm steps:
// 1. Recreate the target's build directory
// 2. Stage sources, tracking the newest source time
// 3. Compile scripts (nonzero compiler exit is only a warning)
// 4. Convert JSON files to their binary form (pack, install)
// 5. Pack the build directory into the artifact (pack, install)
// 6. Install the artifact (install)
func (e *Engine) Build(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	start := e.clock.Now()
	target := req.Target

	if err := e.fs.ValidateIdentifier(target.Name); err != nil {
		return nil, &StageError{Stage: StagePrepare, Err: fmt.Errorf("target %q: %w", target.Name, err)}
	}

	paths := config.ProjectPaths(req.Root)
	result := &BuildResult{BuildDir: paths.BuildDir(target.Name)}

	e.infof("Building target %s (%s)", target.Name, req.Op)
	if err := e.recreateDir(StagePrepare, result.BuildDir); err != nil {
		return nil, err
	}

	if err := e.stageSources(req.Root, target, result); err != nil {
		return nil, err
	}

	if err := e.compile(ctx, req.Model.Compiler, result); err != nil {
		return nil, err
	}

	if req.Op >= OpPack {
		if err := e.convert(ctx, result); err != nil {
			return nil, err
		}

		if err := e.pack(ctx, req.Root, target, result); err != nil {
			if errors.Is(err, errDeclined) {
				result.Declined = true
				result.Elapsed = clock.Elapsed(e.clock, start)
				return result, nil
			}
			return nil, err
		}
	}

	if req.Op >= OpInstall {
		if err := e.install(req.Model.User.InstallDir, result); err != nil {
			if errors.Is(err, errDeclined) {
				result.Declined = true
				result.Elapsed = clock.Elapsed(e.clock, start)
				return result, nil
			}
			return nil, err
		}
	}

	result.Elapsed = clock.Elapsed(e.clock, start)
	return result, nil
}

// stageSources copies every file matched by the target's source patterns
// into the build directory. Patterns are expanded in declaration order and
// files copied in expansion order. The newest file's modification time
// becomes the reference time; on ties the first file seen wins.
func (e *Engine) stageSources(root string, target config.Target, result *BuildResult) error {
	var matches []string
	for _, pattern := range target.Sources {
		found, err := e.fs.Glob(root, pattern)
		if err != nil {
			return &StageError{Stage: StageStage, Path: pattern, Err: err}
		}
		if len(found) == 0 {
			e.warnf("Source pattern %q matched no files", pattern)
		}
		matches = append(matches, found...)
	}

	progress := e.log.Progress(len(matches), "Staging sources")
	defer progress.Finish()

	origins := make(map[string]string, len(matches))
	var newest time.Time
	for _, src := range matches {
		info, err := e.fs.Stat(src)
		if err != nil {
			return &StageError{Stage: StageStage, Path: src, Err: err}
		}

		name := filepath.Base(src)
		if prev, ok := origins[name]; ok && prev != src {
			e.warnf("%s overwrites %s in the build directory", src, prev)
		}
		origins[name] = src

		if err := e.fs.Copy(src, filepath.Join(result.BuildDir, name)); err != nil {
			return &StageError{Stage: StageStage, Path: src, Err: err}
		}
		result.Staged = append(result.Staged, src)

		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		progress.Add(1)
	}

	result.ReferenceTime = newest
	e.debugf("Staged %d files into %s", len(result.Staged), result.BuildDir)
	return nil
}

// compile runs the compiler over every script in the build directory.
func (e *Engine) compile(ctx context.Context, settings config.Compiler, result *BuildResult) error {
	files, err := e.fs.ReadDir(result.BuildDir)
	if err != nil {
		return &StageError{Stage: StageCompile, Path: result.BuildDir, Err: err}
	}

	scripts := filterExt(files, ".nss")
	if len(scripts) == 0 {
		e.infof("No scripts to compile")
		return nil
	}

	var args []string
	for _, f := range settings.Flags {
		args = append(args, strings.Fields(f)...)
	}
	args = append(args, scripts...)

	e.infof("Compiling %d scripts", len(scripts))
	code, err := e.compiler.Run(ctx, tools.CompileRequest{
		Binary: settings.Binary,
		Args:   args,
		Dir:    result.BuildDir,
	})
	if err != nil {
		return &StageError{Stage: StageCompile, Path: settings.Binary, Err: err}
	}

	result.Compiled = true
	result.CompilerExit = code
	if code != 0 {
		e.warnf("%s exited with status %d; continuing", settings.Binary, code)
	}
	return nil
}

// convert turns every JSON file in the build directory into its binary
// form and removes the JSON original.
func (e *Engine) convert(ctx context.Context, result *BuildResult) error {
	files, err := e.fs.ReadDir(result.BuildDir)
	if err != nil {
		return &StageError{Stage: StageConvert, Path: result.BuildDir, Err: err}
	}

	jsons := filterExt(files, ".json")
	if len(jsons) > 0 {
		e.infof("Converting %d files", len(jsons))
	}
	for _, name := range jsons {
		path := filepath.Join(result.BuildDir, name)
		if err := e.converter.Convert(ctx, path); err != nil {
			return &StageError{Stage: StageConvert, Path: path, Err: fmt.Errorf("%w: %w", ErrConvert, err)}
		}
		if err := e.fs.Remove(path); err != nil {
			return &StageError{Stage: StageConvert, Path: path, Err: err}
		}
		result.Converted = append(result.Converted, tools.ConvertedPath(path))
	}
	return nil
}

// filterExt returns the names with extension ext, ignoring case.
func filterExt(names []string, ext string) []string {
	var out []string
	for _, n := range names {
		if strings.EqualFold(filepath.Ext(n), ext) {
			out = append(out, n)
		}
	}
	return out
}
