package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/danieljhkim/nasher/internal/config"
	"github.com/danieljhkim/nasher/internal/hash"
	"github.com/danieljhkim/nasher/internal/staleness"
	"github.com/danieljhkim/nasher/internal/tools"
)

// gffExtensions are the resource types unpacked as JSON, each into a
// directory named after the extension.
var gffExtensions = map[string]bool{
	"are": true, "dlg": true, "fac": true, "gic": true, "git": true,
	"ifo": true, "itp": true, "jrl": true, "utc": true, "utd": true,
	"ute": true, "uti": true, "utm": true, "utp": true, "uts": true,
	"utt": true, "utw": true,
}

// scriptDir is where unpacked scripts are placed under the source tree.
const scriptDir = "sources"

// Unpack extracts an artifact and lays its contents out as a source tree.
//
// Algorithm steps:
// 1. Recreate the artifact's cache directory and extract into it
// 2. Convert game resources to JSON and move them to <Dir>/<ext>/
// 3. Copy scripts to <Dir>/sources/
//
// Destination files with identical content are left untouched. A changed
// destination is replaced only after confirmation; the artifact's
// modification time decides the default answer.
func (e *Engine) Unpack(ctx context.Context, req *UnpackRequest) (*UnpackResult, error) {
	info, err := e.fs.Stat(req.File)
	if err != nil {
		return nil, &StageError{Stage: StageUnpack, Path: req.File, Err: ErrFileNotFound}
	}
	archiveTime := info.ModTime()

	dir := req.Dir
	if dir == "" {
		dir = req.Root
	}

	result := &UnpackResult{CacheDir: config.ProjectPaths(req.Root).CacheDir(req.File)}
	if err := e.recreateDir(StageUnpack, result.CacheDir); err != nil {
		return nil, err
	}

	e.infof("Extracting %s", req.File)
	if err := e.archiver.Extract(ctx, req.File, result.CacheDir); err != nil {
		return nil, &StageError{Stage: StageUnpack, Path: req.File, Err: fmt.Errorf("%w: %w", ErrArchive, err)}
	}

	names, err := e.fs.ReadDir(result.CacheDir)
	if err != nil {
		return nil, &StageError{Stage: StageUnpack, Path: result.CacheDir, Err: err}
	}

	progress := e.log.Progress(len(names), "Unpacking")
	defer progress.Finish()

	for _, name := range names {
		src := filepath.Join(result.CacheDir, name)
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

		switch {
		case gffExtensions[ext]:
			if err := e.converter.Convert(ctx, src); err != nil {
				return nil, &StageError{Stage: StageUnpack, Path: src, Err: fmt.Errorf("%w: %w", ErrConvert, err)}
			}
			converted := tools.ConvertedPath(src)
			dest := filepath.Join(dir, ext, filepath.Base(converted))
			if err := e.place(converted, dest, archiveTime, true, result); err != nil {
				return nil, err
			}
		case ext == "nss":
			dest := filepath.Join(dir, scriptDir, name)
			if err := e.place(src, dest, archiveTime, false, result); err != nil {
				return nil, err
			}
		default:
			e.debugf("Skipping %s", name)
			result.Skipped = append(result.Skipped, name)
		}
		progress.Add(1)
	}

	e.successf("Unpacked %s: %d written, %d unchanged", filepath.Base(req.File), len(result.Written), len(result.Unchanged))
	return result, nil
}

// place moves or copies src to dest unless dest already holds the same
// content or the user declines to overwrite it.
func (e *Engine) place(src, dest string, archiveTime time.Time, move bool, result *UnpackResult) error {
	same, err := hash.SameContent(e.fs, e.hasher, src, dest)
	if err != nil {
		return &StageError{Stage: StageUnpack, Path: dest, Err: err}
	}
	if same {
		result.Unchanged = append(result.Unchanged, dest)
		return nil
	}

	cmp, err := staleness.Compare(e.fs, archiveTime, dest)
	if err != nil {
		return &StageError{Stage: StageUnpack, Path: dest, Err: err}
	}
	if cmp.NeedsPrompt() {
		e.logDiff(dest, src)
	}
	if cmp.NeedsPrompt() && !e.prompter.Confirm(cmp.Prompt("The unpacked file"), cmp.DefaultAnswer()) {
		result.Kept = append(result.Kept, dest)
		return nil
	}

	if move {
		err = e.fs.Rename(src, dest)
	} else {
		err = e.fs.Copy(src, dest)
	}
	if err != nil {
		return &StageError{Stage: StageUnpack, Path: dest, Err: err}
	}
	result.Written = append(result.Written, dest)
	return nil
}

// logDiff shows at debug level how the unpacked file differs from the one
// it would replace.
func (e *Engine) logDiff(existing, incoming string) {
	before, err := e.fs.ReadFile(existing)
	if err != nil {
		return
	}
	after, err := e.fs.ReadFile(incoming)
	if err != nil {
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(string(before), string(after), false))
	e.debugf("Changes to %s:\n%s", existing, dmp.DiffPrettyText(diffs))
}
