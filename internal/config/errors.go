package config

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates a line that is not a section header, comment, or
	// key/value pair.
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownKey indicates a key that its section does not recognize.
	ErrUnknownKey = errors.New("unknown key")

	// ErrUnknownTarget indicates a requested target that no config declares.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrNoTargets indicates that no config declares any target.
	ErrNoTargets = errors.New("no targets found")

	// ErrNoProject indicates that no package config was found.
	ErrNoProject = errors.New("not in a nasher project")

	// ErrMissingConfig indicates a config file that does not exist and
	// cannot be generated.
	ErrMissingConfig = errors.New("config file missing")
)

// Error reports a problem at a specific place in a config file.
type Error struct {
	File    string
	Line    int
	Section string
	Key     string
	Value   string
	Err     error
}

func (e *Error) Error() string {
	loc := fmt.Sprintf("%s:%d", e.File, e.Line)
	switch {
	case e.Key != "" && e.Section != "":
		return fmt.Sprintf("%s: [%s] %v %q", loc, e.Section, e.Err, e.Key)
	case e.Key != "":
		return fmt.Sprintf("%s: %v %q", loc, e.Err, e.Key)
	case e.Value != "":
		return fmt.Sprintf("%s: %v near %q", loc, e.Err, e.Value)
	default:
		return fmt.Sprintf("%s: %v", loc, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TargetError reports a target that could not be resolved.
type TargetError struct {
	Name string
	Err  error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%v %q", e.Err, e.Name)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}
