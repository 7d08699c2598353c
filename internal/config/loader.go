package config

import (
	"bytes"
	"fmt"

	"github.com/danieljhkim/nasher/internal/fsops"
)

// Kind identifies which config file a source is.
type Kind int

const (
	// KindGlobal is the per-user config.
	KindGlobal Kind = iota
	// KindPackage is the per-project config.
	KindPackage
)

func (k Kind) String() string {
	if k == KindGlobal {
		return "global"
	}
	return "package"
}

// Source is one config file in the cascade.
type Source struct {
	Path string
	Kind Kind
}

// Generator writes a config file that does not exist yet. current holds
// everything loaded from lower-priority files so far.
type Generator interface {
	Generate(kind Kind, path string, current *Model) error
}

// Loader builds a Model from a cascade of config files.
type Loader struct {
	fs  fsops.FS
	gen Generator
}

// NewLoader creates a Loader. gen may be nil, in which case a missing
// config file is an error.
func NewLoader(fs fsops.FS, gen Generator) *Loader {
	return &Loader{fs: fs, gen: gen}
}

// Load applies sources in order, lowest priority first, on top of the
// built-in defaults.
func (l *Loader) Load(sources ...Source) (*Model, error) {
	m := NewModel()
	for _, src := range sources {
		if err := l.apply(m, src); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (l *Loader) apply(m *Model, src Source) error {
	exists, err := l.fs.Exists(src.Path)
	if err != nil {
		return fmt.Errorf("failed to check config %s: %w", src.Path, err)
	}
	if !exists {
		if l.gen == nil {
			return fmt.Errorf("%w: %s", ErrMissingConfig, src.Path)
		}
		if err := l.gen.Generate(src.Kind, src.Path, m); err != nil {
			return fmt.Errorf("failed to generate %s config %s: %w", src.Kind, src.Path, err)
		}
	}

	data, err := l.fs.ReadFile(src.Path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", src.Path, err)
	}
	return parse(bytes.NewReader(data), src.Path, m)
}

// LoadProject loads the global config and then the package config of the
// project rooted at root.
func (l *Loader) LoadProject(root string) (*Model, error) {
	global, err := UserConfigPath()
	if err != nil {
		return nil, err
	}
	return l.Load(
		Source{Path: global, Kind: KindGlobal},
		Source{Path: ProjectPaths(root).Package, Kind: KindPackage},
	)
}
