// Package config manages nasher configuration and filesystem paths.
//
// Configuration is cascaded from several files, lowest priority first: the
// global user config (~/.config/nasher/nasher.cfg) and then the package
// config (nasher.cfg at the project root). Scalar settings are
// last-write-wins; list settings accumulate across files.
//
// The package also locates the per-project state directory (.nasher/)
// holding the per-target build directories and the unpack cache.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/danieljhkim/nasher/internal/fsops"
)

const (
	// PackageFile is the name of the package config at the project root.
	PackageFile = "nasher.cfg"

	// StateDir is the per-project directory for build and cache data.
	StateDir = ".nasher"
)

// Paths contains all the filesystem paths used for one project.
type Paths struct {
	// Root is the project root (the directory holding nasher.cfg)
	Root string

	// Package is the path to the package config file
	Package string

	// Build is the directory containing one scratch directory per target
	Build string

	// Cache is the directory artifacts are extracted into when unpacking
	Cache string
}

// ProjectPaths returns the paths for the project rooted at root.
func ProjectPaths(root string) Paths {
	state := filepath.Join(root, StateDir)
	return Paths{
		Root:    root,
		Package: filepath.Join(root, PackageFile),
		Build:   filepath.Join(state, "build"),
		Cache:   filepath.Join(state, "cache"),
	}
}

// BuildDir returns the scratch directory for a target.
func (p Paths) BuildDir(target string) string {
	return filepath.Join(p.Build, target)
}

// CacheDir returns the extraction directory for an artifact.
func (p Paths) CacheDir(artifact string) string {
	return filepath.Join(p.Cache, filepath.Base(artifact))
}

// UserConfigPath returns the location of the global config file.
// The path can be overridden with the NASHER_CONFIG environment variable.
func UserConfigPath() (string, error) {
	if p := os.Getenv("NASHER_CONFIG"); p != "" {
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "nasher", PackageFile), nil
}

// FindProjectRoot walks up from dir looking for a package config.
func FindProjectRoot(fs fsops.FS, dir string) (string, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		if info, err := fs.Stat(filepath.Join(current, PackageFile)); err == nil && info.Mode().IsRegular() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w: no %s in %s or any parent", ErrNoProject, PackageFile, absPath)
		}
		current = parent
	}
}

// DefaultInstallDir returns the game's user directory by platform
// convention. It returns "" if the home directory cannot be determined.
func DefaultInstallDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case "windows", "darwin":
		return filepath.Join(home, "Documents", "Neverwinter Nights")
	default:
		data := os.Getenv("XDG_DATA_HOME")
		if data == "" {
			data = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(data, "Neverwinter Nights")
	}
}
