package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/danieljhkim/nasher/internal/fsops"
	"github.com/danieljhkim/nasher/internal/ui"
)

// writeConfigs writes each content string to its own file and returns the
// sources in the same order.
func writeConfigs(t *testing.T, contents ...string) []Source {
	t.Helper()
	dir := t.TempDir()
	var sources []Source
	for i, c := range contents {
		path := filepath.Join(dir, "cfg"+string(rune('a'+i))+".cfg")
		if err := os.WriteFile(path, []byte(c), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		sources = append(sources, Source{Path: path, Kind: KindPackage})
	}
	return sources
}

func load(t *testing.T, contents ...string) *Model {
	t.Helper()
	m, err := NewLoader(fsops.NewRealFS(), nil).Load(writeConfigs(t, contents...)...)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

func TestLoad_Defaults(t *testing.T) {
	m := load(t)
	if m.Compiler.Binary != DefaultCompiler {
		t.Errorf("Compiler.Binary = %q, want %q", m.Compiler.Binary, DefaultCompiler)
	}
	if m.User.InstallDir != DefaultInstallDir() {
		t.Errorf("User.InstallDir = %q, want %q", m.User.InstallDir, DefaultInstallDir())
	}
	if m.Targets.Len() != 0 {
		t.Errorf("expected no targets, got %d", m.Targets.Len())
	}
}

func TestLoad_ScalarsLastWriteWins(t *testing.T) {
	a := `[User]
name = "Alice"
install = "/games/a"

[Compiler]
binary = "nwnsc"

[Package]
name = "first"
version = "1.0"
`
	b := `[user]
NAME = "Bob"

[compiler]
Binary = "nwn_script_comp"

[package]
version = "2.0"
`

	t.Run("later file wins", func(t *testing.T) {
		m := load(t, a, b)
		if m.User.Name != "Bob" {
			t.Errorf("User.Name = %q, want Bob", m.User.Name)
		}
		if m.Compiler.Binary != "nwn_script_comp" {
			t.Errorf("Compiler.Binary = %q", m.Compiler.Binary)
		}
		if m.Package.Version != "2.0" {
			t.Errorf("Package.Version = %q", m.Package.Version)
		}
	})

	t.Run("unset keys keep earlier value", func(t *testing.T) {
		m := load(t, a, b)
		if m.User.InstallDir != "/games/a" {
			t.Errorf("User.InstallDir = %q, want /games/a", m.User.InstallDir)
		}
		if m.Package.Name != "first" {
			t.Errorf("Package.Name = %q, want first", m.Package.Name)
		}
	})

	t.Run("reversed order flips the winner", func(t *testing.T) {
		m := load(t, b, a)
		if m.User.Name != "Alice" {
			t.Errorf("User.Name = %q, want Alice", m.User.Name)
		}
		if m.Package.Version != "1.0" {
			t.Errorf("Package.Version = %q", m.Package.Version)
		}
	})
}

func TestLoad_ListsAccumulate(t *testing.T) {
	a := `[Compiler]
flags = "-lowqey"
flags = "-e"

[Package]
author = "Alice"
`
	b := `[Compiler]
flags = "-e"

[Package]
author = "Bob"
author = "Alice"
`
	m := load(t, a, b)

	if want := []string{"-lowqey", "-e", "-e"}; !reflect.DeepEqual(m.Compiler.Flags, want) {
		t.Errorf("Flags = %v, want %v", m.Compiler.Flags, want)
	}
	if want := []string{"Alice", "Bob", "Alice"}; !reflect.DeepEqual(m.Package.Authors, want) {
		t.Errorf("Authors = %v, want %v", m.Package.Authors, want)
	}
}

func TestLoad_TargetMerge(t *testing.T) {
	a := `[Target]
name = "Default"
file = "demo.mod"
description = "first"
source = "src/*.nss"

[Target]
name = "haks"
file = "demo.hak"
source = "hak/*"
`
	b := `[Target]
name = "DEFAULT"
description = "second"
source = "src/*.json"
source = "src/*.nss"
`
	m := load(t, a, b)

	if got := m.Targets.Names(); !reflect.DeepEqual(got, []string{"default", "haks"}) {
		t.Fatalf("target order = %v", got)
	}

	def, ok := m.Targets.Get("Default")
	if !ok {
		t.Fatal("default target missing")
	}
	if def.Description != "second" {
		t.Errorf("Description = %q, want second", def.Description)
	}
	if def.File != "demo.mod" {
		t.Errorf("File = %q, want demo.mod", def.File)
	}
	want := []string{"src/*.nss", "src/*.json", "src/*.nss"}
	if !reflect.DeepEqual(def.Sources, want) {
		t.Errorf("Sources = %v, want %v", def.Sources, want)
	}
}

func TestLoad_TargetFlushing(t *testing.T) {
	t.Run("unnamed target is discarded", func(t *testing.T) {
		m := load(t, `[Target]
file = "orphan.mod"
source = "*.nss"

[Target]
name = "real"
`)
		if got := m.Targets.Names(); !reflect.DeepEqual(got, []string{"real"}) {
			t.Errorf("targets = %v, want [real]", got)
		}
	})

	t.Run("target closed by a later non-target section", func(t *testing.T) {
		m := load(t, `[Target]
name = "one"
source = "a/*"

[Package]
name = "pkg"
`)
		one, ok := m.Targets.Get("one")
		if !ok {
			t.Fatal("target one missing")
		}
		if len(one.Sources) != 1 {
			t.Errorf("Sources = %v", one.Sources)
		}
		if m.Package.Name != "pkg" {
			t.Errorf("Package.Name = %q", m.Package.Name)
		}
	})

	t.Run("first seen order spans files", func(t *testing.T) {
		m := load(t, "[Target]\nname = \"b\"\n", "[Target]\nname = \"a\"\n[Target]\nname = \"b\"\n")
		if got := m.Targets.Names(); !reflect.DeepEqual(got, []string{"b", "a"}) {
			t.Errorf("targets = %v, want [b a]", got)
		}
	})
}

func TestLoad_Syntax(t *testing.T) {
	t.Run("comments quoting and unknown sections", func(t *testing.T) {
		m := load(t, `# comment
; another comment
[Package]
name = "quoted \"name\""
description = bare value here
url = "https://example.com" # trailing comment

[Extras]
anything = "ignored"
`)
		if m.Package.Name != `quoted "name"` {
			t.Errorf("Name = %q", m.Package.Name)
		}
		if m.Package.Description != "bare value here" {
			t.Errorf("Description = %q", m.Package.Description)
		}
		if m.Package.URL != "https://example.com" {
			t.Errorf("URL = %q", m.Package.URL)
		}
	})

	t.Run("bare values drop trailing comments", func(t *testing.T) {
		m := load(t, `[Package]
name = demo # the package
version = 1.0;rc ;release
url = https://example.com/#top

[Target]
name = default
source = src/*.nss	# scripts only
`)
		if m.Package.Name != "demo" {
			t.Errorf("Name = %q, want %q", m.Package.Name, "demo")
		}
		if m.Package.Version != "1.0;rc" {
			t.Errorf("Version = %q, want %q", m.Package.Version, "1.0;rc")
		}
		if m.Package.URL != "https://example.com/#top" {
			t.Errorf("URL = %q", m.Package.URL)
		}
		target, _ := m.Targets.Get("default")
		if !reflect.DeepEqual(target.Sources, []string{"src/*.nss"}) {
			t.Errorf("Sources = %v", target.Sources)
		}
	})

	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg []string
	}{
		{
			name:    "unknown key names section and key",
			content: "[Package]\nname = \"x\"\nlicense = \"MIT\"\n",
			wantErr: ErrUnknownKey,
			wantMsg: []string{":3:", "[Package]", `"license"`},
		},
		{
			name:    "unknown key in target",
			content: "[Target]\nname = \"x\"\nsources = \"*.nss\"\n",
			wantErr: ErrUnknownKey,
			wantMsg: []string{"[Target]", `"sources"`},
		},
		{
			name:    "line without equals",
			content: "[User]\nname\n",
			wantErr: ErrSyntax,
			wantMsg: []string{":2:"},
		},
		{
			name:    "unterminated quote",
			content: "[User]\nname = \"Alice\n",
			wantErr: ErrSyntax,
			wantMsg: []string{"[User]", `"name"`},
		},
		{
			name:    "unterminated section header",
			content: "[User\n",
			wantErr: ErrSyntax,
			wantMsg: []string{":1:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(fsops.NewRealFS(), nil).Load(writeConfigs(t, tt.content)...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %T is not *config.Error", err)
			}
			if !strings.HasSuffix(cfgErr.File, ".cfg") {
				t.Errorf("File = %q", cfgErr.File)
			}
			for _, s := range tt.wantMsg {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("error %q does not mention %q", err.Error(), s)
				}
			}
		})
	}
}

func TestLoad_MissingWithoutGenerator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nasher.cfg")
	_, err := NewLoader(fsops.NewRealFS(), nil).Load(Source{Path: path, Kind: KindPackage})
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("error = %v, want ErrMissingConfig", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the path", err)
	}
}

func TestLoad_GeneratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "home", "nasher", "nasher.cfg")
	pkg := filepath.Join(dir, "demo", "nasher.cfg")

	prompter := &ui.Scripted{Answers: []string{
		// global
		"Alice", "alice@example.com", "/games/nwn", "", "-lowqey -e",
		// package
		"", "A demo", "", "", "",
		// first target
		"Module", "demo.mod", "The module", "src/*.nss", "y", "src/*.json", "n",
		"y",
		// second target
		"haks", "demo.hak", "", "hak/*", "n",
		"n",
	}}
	gen := NewPromptGenerator(prompter, fsops.NewRealFS(), &ui.Recorder{})

	m, err := NewLoader(fsops.NewRealFS(), gen).Load(
		Source{Path: global, Kind: KindGlobal},
		Source{Path: pkg, Kind: KindPackage},
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, p := range []string{global, pkg} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("config %s was not written: %v", p, err)
		}
	}

	if m.User.Name != "Alice" || m.User.InstallDir != "/games/nwn" {
		t.Errorf("User = %+v", m.User)
	}
	if m.Compiler.Binary != DefaultCompiler {
		t.Errorf("Compiler.Binary = %q", m.Compiler.Binary)
	}
	if !reflect.DeepEqual(m.Compiler.Flags, []string{"-lowqey", "-e"}) {
		t.Errorf("Flags = %v", m.Compiler.Flags)
	}
	if m.Package.Name != "demo" {
		t.Errorf("Package.Name = %q, want directory name", m.Package.Name)
	}
	if !reflect.DeepEqual(m.Package.Authors, []string{"Alice <alice@example.com>"}) {
		t.Errorf("Authors = %v", m.Package.Authors)
	}
	if got := m.Targets.Names(); !reflect.DeepEqual(got, []string{"module", "haks"}) {
		t.Fatalf("targets = %v", got)
	}
	mod, _ := m.Targets.Get("module")
	if !reflect.DeepEqual(mod.Sources, []string{"src/*.nss", "src/*.json"}) {
		t.Errorf("module sources = %v", mod.Sources)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	orig := load(t, `[Package]
name = "demo"
description = "has \"quotes\" and \\ slashes"
version = "1.2.3"
url = "https://example.com"
author = "Alice"
author = "Bob"

[Target]
name = "default"
file = "demo.mod"
description = "d"
source = "src/*.nss"
source = "src/**/*.json"
`)

	again := load(t, string(Render(KindPackage, orig)))
	if !reflect.DeepEqual(orig.Package, again.Package) {
		t.Errorf("Package changed:\n got %+v\nwant %+v", again.Package, orig.Package)
	}
	if !reflect.DeepEqual(orig.Targets.All(), again.Targets.All()) {
		t.Errorf("Targets changed:\n got %+v\nwant %+v", again.Targets.All(), orig.Targets.All())
	}
}
