// Package integration exercises the config cascade and the build pipeline
// together against a real filesystem, with the external tools replaced by
// in-process fakes.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/nasher/internal/clock"
	"github.com/danieljhkim/nasher/internal/config"
	"github.com/danieljhkim/nasher/internal/engine"
	"github.com/danieljhkim/nasher/internal/fsops"
	"github.com/danieljhkim/nasher/internal/hash"
	"github.com/danieljhkim/nasher/internal/tools"
	"github.com/danieljhkim/nasher/internal/ui"
)

// dirArchiver stores an "archive" as a directory of files next to a
// marker file, so extraction can reproduce exactly what was packed.
type dirArchiver struct{}

func (dirArchiver) Create(_ context.Context, out string, files []string) error {
	store := out + ".contents"
	if err := os.RemoveAll(store); err != nil {
		return err
	}
	if err := os.MkdirAll(store, 0755); err != nil {
		return err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(store, filepath.Base(f)), data, 0644); err != nil {
			return err
		}
		names = append(names, filepath.Base(f))
	}
	sort.Strings(names)
	return os.WriteFile(out, []byte(strings.Join(names, "\n")), 0644)
}

func (dirArchiver) Extract(_ context.Context, path, destDir string) error {
	store := path + ".contents"
	entries, err := os.ReadDir(store)
	if err != nil {
		return err
	}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(store, e.Name()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(destDir, e.Name()), data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// prefixConverter marks binary files with a "gff:" prefix that JSON files
// lack, so a round trip is lossless.
type prefixConverter struct{}

func (prefixConverter) Convert(_ context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out := tools.ConvertedPath(path)
	if strings.HasSuffix(path, ".json") {
		data = append([]byte("gff:"), data...)
	} else {
		data = []byte(strings.TrimPrefix(string(data), "gff:"))
	}
	return os.WriteFile(out, data, 0644)
}

// ncsCompiler writes an .ncs next to every script it is given.
type ncsCompiler struct {
	runs int
}

func (c *ncsCompiler) Run(_ context.Context, req tools.CompileRequest) (int, error) {
	c.runs++
	for _, arg := range req.Args {
		if strings.HasSuffix(arg, ".nss") {
			ncs := strings.TrimSuffix(arg, ".nss") + ".ncs"
			if err := os.WriteFile(filepath.Join(req.Dir, ncs), []byte("ncs"), 0644); err != nil {
				return -1, err
			}
		}
	}
	return 0, nil
}

type testProject struct {
	root     string
	install  string
	compiler *ncsCompiler
	prompter *ui.Scripted
	log      *ui.Recorder
	engine   *engine.Engine
	model    *config.Model
}

// setupTestProject writes a global and a package config and builds an
// engine around fake tools.
func setupTestProject(t *testing.T, packageCfg string) *testProject {
	t.Helper()

	tmp := t.TempDir()
	p := &testProject{
		root:     filepath.Join(tmp, "project"),
		install:  filepath.Join(tmp, "nwn"),
		compiler: &ncsCompiler{},
		prompter: &ui.Scripted{},
		log:      &ui.Recorder{},
	}
	for _, dir := range []string{p.root, filepath.Join(p.install, "modules")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	global := filepath.Join(tmp, "global.cfg")
	globalCfg := "[User]\ninstall = \"" + filepath.ToSlash(p.install) + "\"\n\n[Compiler]\nflags = \"-lowqey\"\n"
	writeFile(t, global, globalCfg, time.Now())
	t.Setenv("NASHER_CONFIG", global)
	writeFile(t, filepath.Join(p.root, config.PackageFile), packageCfg, time.Now())

	fs := fsops.NewRealFS()
	m, err := config.NewLoader(fs, nil).LoadProject(p.root)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	p.model = m

	p.engine = engine.New(
		fs,
		dirArchiver{},
		prefixConverter{},
		p.compiler,
		hash.NewBlake3Hasher(),
		p.prompter,
		p.log,
		clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	)
	return p
}

func (p *testProject) build(t *testing.T, target string, op engine.Op) *engine.BuildResult {
	t.Helper()
	resolved, err := p.model.ResolveTarget(target)
	if err != nil {
		t.Fatalf("ResolveTarget(%q) failed: %v", target, err)
	}
	result, err := p.engine.Build(context.Background(), &engine.BuildRequest{
		Root:   p.root,
		Model:  p.model,
		Target: resolved,
		Op:     op,
	})
	if err != nil {
		t.Fatalf("Build(%s) failed: %v", op, err)
	}
	return result
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
