package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/nasher/internal/config"
	"github.com/danieljhkim/nasher/internal/fsops"
	"github.com/danieljhkim/nasher/internal/ui"
)

// resetFlags clears global flag state left over from earlier Execute calls
// and restores the real prompter when the test ends.
func resetFlags(t *testing.T) {
	t.Helper()
	answerYes, answerNo, answerDefault = false, false, false
	verbose, quiet, noColor = false, false, false
	unpackDir = ""
	for _, name := range []string{"yes", "no", "default", "verbose", "quiet", "no-color"} {
		if f := rootCmd.PersistentFlags().Lookup(name); f != nil {
			f.Changed = false
		}
	}

	saved := newPrompter
	t.Cleanup(func() { newPrompter = saved })
}

// setupTestEnv points the global config at a prepared file so commands
// never ask for user settings.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	resetFlags(t)

	tmpDir := t.TempDir()
	global := filepath.Join(tmpDir, "global.cfg")
	content := "[User]\nname = \"Tester\"\nemail = \"tester@example.com\"\ninstall = \"" +
		filepath.ToSlash(filepath.Join(tmpDir, "nwn")) + "\"\n"
	if err := os.WriteFile(global, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write global config: %v", err)
	}
	t.Setenv("NASHER_CONFIG", global)

	project := filepath.Join(tmpDir, "project")
	if err := os.MkdirAll(project, 0755); err != nil {
		t.Fatalf("Failed to create project dir: %v", err)
	}
	return project
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
	})
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	var bufOut, bufErr bytes.Buffer
	rootCmd.SetOut(&bufOut)
	rootCmd.SetErr(&bufErr)
	return rootCmd.Execute()
}

func TestInitCommand_CreatesPackageConfig(t *testing.T) {
	project := setupTestEnv(t)
	prompter := &ui.Scripted{}
	newPrompter = func() ui.Prompter { return prompter }

	if err := execute(t, "init", project); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	cfg := filepath.Join(project, config.PackageFile)
	if _, err := os.Stat(cfg); err != nil {
		t.Fatalf("expected %s to be created: %v", cfg, err)
	}
	if _, err := os.Stat(filepath.Join(project, config.StateDir)); !os.IsNotExist(err) {
		t.Error("init should not create the build state directory")
	}
	if len(prompter.Asked) == 0 {
		t.Error("expected init to ask for package settings")
	}

	m, err := config.NewLoader(fsops.NewRealFS(), nil).LoadProject(project)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if m.Package.Name != "project" {
		t.Errorf("Package.Name = %q, want %q", m.Package.Name, "project")
	}
	if len(m.Package.Authors) != 1 || m.Package.Authors[0] != "Tester <tester@example.com>" {
		t.Errorf("Package.Authors = %v", m.Package.Authors)
	}
	target, err := m.ResolveTarget("")
	if err != nil {
		t.Fatalf("ResolveTarget() error = %v", err)
	}
	if target.Name != "default" || target.File != "project.mod" {
		t.Errorf("default target = %+v", target)
	}
}

func TestInitCommand_RefusesExistingProject(t *testing.T) {
	project := setupTestEnv(t)
	newPrompter = func() ui.Prompter { return &ui.Scripted{} }

	if err := os.WriteFile(filepath.Join(project, config.PackageFile), []byte("[Package]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "init", project); err == nil {
		t.Error("expected error when nasher.cfg already exists")
	}
}

func TestListCommand_OutsideProject(t *testing.T) {
	project := setupTestEnv(t)
	chdir(t, project)

	err := execute(t, "list")
	if !errors.Is(err, config.ErrNoProject) {
		t.Errorf("expected ErrNoProject, got %v", err)
	}
}

func TestCompileCommand_UnknownTarget(t *testing.T) {
	project := setupTestEnv(t)
	cfg := "[Package]\nname = \"demo\"\n\n[Target]\nname = \"default\"\nfile = \"demo.mod\"\nsource = \"src/*.nss\"\n"
	if err := os.WriteFile(filepath.Join(project, config.PackageFile), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, project)

	err := execute(t, "compile", "missing")
	if !errors.Is(err, config.ErrUnknownTarget) {
		t.Errorf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestCompileCommand_WithoutScripts(t *testing.T) {
	project := setupTestEnv(t)
	cfg := "[Package]\nname = \"demo\"\n\n[Target]\nname = \"default\"\nfile = \"demo.mod\"\nsource = \"src/*.json\"\n"
	if err := os.WriteFile(filepath.Join(project, config.PackageFile), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(project, "src", "module.ifo.json")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, filepath.Join(project, "src"))

	if err := execute(t, "--quiet", "compile"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	staged := filepath.Join(project, config.StateDir, "build", "default", "module.ifo.json")
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("expected staged file %s: %v", staged, err)
	}
}

func TestAnswerPolicy(t *testing.T) {
	resetFlags(t)

	tests := []struct {
		name  string
		set   func()
		want  ui.Policy
		level ui.Level
	}{
		{"no flags", func() {}, ui.PolicyAsk, ui.LevelInfo},
		{"yes", func() { answerYes = true }, ui.PolicyYes, ui.LevelInfo},
		{"no", func() { answerNo = true }, ui.PolicyNo, ui.LevelInfo},
		{"default verbose", func() { answerDefault, verbose = true, true }, ui.PolicyDefault, ui.LevelDebug},
		{"quiet", func() { quiet = true }, ui.PolicyAsk, ui.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			tt.set()
			if got := answerPolicy(); got != tt.want {
				t.Errorf("answerPolicy() = %v, want %v", got, tt.want)
			}
			if got := logLevel(); got != tt.level {
				t.Errorf("logLevel() = %v, want %v", got, tt.level)
			}
		})
	}
	resetFlags(t)
}
