package config

import "strings"

// DefaultCompiler is the compiler binary used when no config file names one.
const DefaultCompiler = "nwnsc"

// User holds per-user settings. Every field is last-write-wins.
type User struct {
	Name       string
	Email      string
	InstallDir string
}

// Compiler holds the script compiler settings.
type Compiler struct {
	// Binary is last-write-wins.
	Binary string

	// Flags accumulate across every config file, duplicates kept.
	Flags []string
}

// Package holds package metadata.
type Package struct {
	Name        string
	Description string
	Version     string
	URL         string

	// Authors accumulate across every config file.
	Authors []string
}

// Target is a named build unit mapping source globs to one artifact.
type Target struct {
	// Name is the merge key, stored lower-cased.
	Name        string
	File        string
	Description string

	// Sources are glob patterns relative to the project root, in the order
	// they were declared.
	Sources []string
}

// NormalizeName returns the lookup key for a target name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// mergeFrom overlays later onto t: non-empty scalars win, sources append.
func (t *Target) mergeFrom(later Target) {
	if later.File != "" {
		t.File = later.File
	}
	if later.Description != "" {
		t.Description = later.Description
	}
	t.Sources = append(t.Sources, later.Sources...)
}

// Targets is an ordered set of targets keyed by normalized name. Iteration
// order is the order in which names were first added.
type Targets struct {
	order  []string
	byName map[string]*Target
}

// Len returns the number of targets.
func (ts *Targets) Len() int {
	return len(ts.order)
}

// Get looks up a target by name, ignoring case.
func (ts *Targets) Get(name string) (Target, bool) {
	t, ok := ts.byName[NormalizeName(name)]
	if !ok {
		return Target{}, false
	}
	return t.clone(), true
}

// All returns copies of every target in insertion order.
func (ts *Targets) All() []Target {
	out := make([]Target, 0, len(ts.order))
	for _, name := range ts.order {
		out = append(out, ts.byName[name].clone())
	}
	return out
}

// Names returns the target names in insertion order.
func (ts *Targets) Names() []string {
	return append([]string(nil), ts.order...)
}

// merge adds t, or merges it into the existing target of the same name.
// Targets with an empty name are dropped.
func (ts *Targets) merge(t Target) {
	key := NormalizeName(t.Name)
	if key == "" {
		return
	}
	t.Name = key

	if ts.byName == nil {
		ts.byName = make(map[string]*Target)
	}
	if existing, ok := ts.byName[key]; ok {
		existing.mergeFrom(t)
		return
	}

	c := t.clone()
	ts.byName[key] = &c
	ts.order = append(ts.order, key)
}

func (t *Target) clone() Target {
	c := *t
	c.Sources = append([]string(nil), t.Sources...)
	return c
}

// Model is the merged configuration for one run. Only Loader mutates it;
// once Load returns it is treated as read-only.
type Model struct {
	User     User
	Package  Package
	Compiler Compiler
	Targets  Targets
}

// NewModel returns a model holding the built-in defaults.
func NewModel() *Model {
	return &Model{
		User:     User{InstallDir: DefaultInstallDir()},
		Compiler: Compiler{Binary: DefaultCompiler},
	}
}

// ResolveTarget picks the target to build. An empty name selects the first
// target declared across the cascade.
func (m *Model) ResolveTarget(name string) (Target, error) {
	if strings.TrimSpace(name) != "" {
		t, ok := m.Targets.Get(name)
		if !ok {
			return Target{}, &TargetError{Name: name, Err: ErrUnknownTarget}
		}
		return t, nil
	}

	if m.Targets.Len() == 0 {
		return Target{}, ErrNoTargets
	}
	t, _ := m.Targets.Get(m.Targets.order[0])
	return t, nil
}
