package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/nasher/internal/fsops"
	"github.com/danieljhkim/nasher/internal/ui"
)

// Render writes the sections belonging to kind in config file syntax.
// Global configs hold [User] and [Compiler]; package configs hold
// [Package] followed by one [Target] per target.
func Render(kind Kind, m *Model) []byte {
	var b strings.Builder
	w := func(key, value string) {
		fmt.Fprintf(&b, "%s = %s\n", key, quote(value))
	}

	if kind == KindGlobal {
		b.WriteString("[User]\n")
		w("name", m.User.Name)
		w("email", m.User.Email)
		w("install", m.User.InstallDir)
		b.WriteString("\n[Compiler]\n")
		w("binary", m.Compiler.Binary)
		for _, f := range m.Compiler.Flags {
			w("flags", f)
		}
		return []byte(b.String())
	}

	b.WriteString("[Package]\n")
	w("name", m.Package.Name)
	w("description", m.Package.Description)
	w("version", m.Package.Version)
	w("url", m.Package.URL)
	for _, a := range m.Package.Authors {
		w("author", a)
	}
	for _, t := range m.Targets.All() {
		b.WriteString("\n[Target]\n")
		w("name", t.Name)
		w("description", t.Description)
		w("file", t.File)
		for _, s := range t.Sources {
			w("source", s)
		}
	}
	return []byte(b.String())
}

// PromptGenerator creates missing config files by asking the user.
type PromptGenerator struct {
	Prompter ui.Prompter
	FS       fsops.FS
	Log      ui.Logger
}

// NewPromptGenerator creates a PromptGenerator.
func NewPromptGenerator(p ui.Prompter, fs fsops.FS, log ui.Logger) *PromptGenerator {
	return &PromptGenerator{Prompter: p, FS: fs, Log: log}
}

// Generate asks for the settings of kind and writes them to path.
func (g *PromptGenerator) Generate(kind Kind, path string, current *Model) error {
	if g.Log != nil {
		g.Log.Log(ui.LevelInfo, fmt.Sprintf("Generating %s config %s", kind, path))
	}

	m := &Model{}
	if kind == KindGlobal {
		g.askGlobal(m, current)
	} else {
		g.askPackage(m, path, current)
	}

	if err := g.FS.AtomicWrite(path, Render(kind, m), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (g *PromptGenerator) askGlobal(m *Model, current *Model) {
	p := g.Prompter
	m.User.Name = p.Ask("User name", current.User.Name)
	m.User.Email = p.Ask("User email", current.User.Email)
	m.User.InstallDir = p.Ask("Game user directory", current.User.InstallDir)
	m.Compiler.Binary = p.Ask("Script compiler binary", current.Compiler.Binary)
	if flags := p.Ask("Script compiler flags (space separated)", "-lowqey"); flags != "" {
		m.Compiler.Flags = strings.Fields(flags)
	}
}

func (g *PromptGenerator) askPackage(m *Model, path string, current *Model) {
	p := g.Prompter

	defName := filepath.Base(filepath.Dir(path))
	if abs, err := filepath.Abs(path); err == nil {
		defName = filepath.Base(filepath.Dir(abs))
	}

	m.Package.Name = p.Ask("Package name", defName)
	m.Package.Description = p.Ask("Package description", "")
	m.Package.Version = p.Ask("Package version", "0.1.0")
	m.Package.URL = p.Ask("Package URL", "")
	if author := p.Ask("Package author", defaultAuthor(current.User)); author != "" {
		m.Package.Authors = []string{author}
	}

	for {
		var t Target
		t.Name = p.Ask("Target name", defaultTargetName(m.Targets.Len()))
		t.File = p.Ask("Target output file", defaultTargetFile(m.Package.Name, m.Targets.Len()))
		t.Description = p.Ask("Target description", "")
		for {
			if src := p.Ask("Source pattern", "src/**/*.{nss,json}"); src != "" {
				t.Sources = append(t.Sources, src)
			}
			if !p.Confirm("Add another source pattern?", false) {
				break
			}
		}
		m.Targets.merge(t)

		if !p.Confirm("Add another target?", false) {
			break
		}
	}
}

func defaultAuthor(u User) string {
	switch {
	case u.Name != "" && u.Email != "":
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	case u.Name != "":
		return u.Name
	case os.Getenv("USER") != "":
		return os.Getenv("USER")
	}
	return ""
}

func defaultTargetName(n int) string {
	if n == 0 {
		return "default"
	}
	return fmt.Sprintf("target%d", n+1)
}

func defaultTargetFile(pkg string, n int) string {
	name := strings.ReplaceAll(strings.ToLower(pkg), " ", "_")
	if name == "" {
		name = "module"
	}
	if n > 0 {
		name = fmt.Sprintf("%s_%d", name, n+1)
	}
	return name + ".mod"
}
