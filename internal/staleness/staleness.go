// Package staleness compares file modification times to decide whether an
// existing file may be overwritten without asking, and what the default
// answer to an overwrite prompt should be.
//
// All comparisons use whole seconds. Copying a file can perturb its
// sub-second timestamp, so finer granularity would make a copy look newer
// or older than its source.
package staleness

import (
	"fmt"
	"os"
	"time"

	"github.com/danieljhkim/nasher/internal/fsops"
)

// Delta returns candidate - existing in whole seconds, truncated toward zero.
func Delta(candidate, existing time.Time) int64 {
	return int64(candidate.Sub(existing) / time.Second)
}

// Comparison is the result of comparing a candidate time against an
// existing file.
type Comparison struct {
	// Path is the existing file that may be overwritten.
	Path string

	// Exists is false when Path does not exist.
	Exists bool

	// Known is false when the candidate time is the zero time, e.g. when no
	// source file was staged.
	Known bool

	// Delta is candidate - existing in seconds. Only meaningful when both
	// Exists and Known are true.
	Delta int64

	// Existing is the modification time of Path.
	Existing time.Time
}

// Compare stats existing and compares its modification time to candidate.
func Compare(fs fsops.FS, candidate time.Time, existing string) (Comparison, error) {
	c := Comparison{Path: existing, Known: !candidate.IsZero()}

	info, err := fs.Stat(existing)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("failed to stat %s: %w", existing, err)
	}

	c.Exists = true
	c.Existing = info.ModTime()
	if c.Known {
		c.Delta = Delta(candidate, c.Existing)
	}
	return c, nil
}

// NeedsPrompt reports whether overwriting requires asking at all.
func (c Comparison) NeedsPrompt() bool {
	return c.Exists
}

// DefaultAnswer is the default for "overwrite the existing file?".
// Only a candidate strictly older than the existing file defaults to no.
func (c Comparison) DefaultAnswer() bool {
	if !c.Exists || !c.Known {
		return true
	}
	return c.Delta >= 0
}

// Hint describes the candidate relative to the existing file, e.g.
// "5 seconds newer than".
func (c Comparison) Hint() string {
	switch {
	case !c.Exists || !c.Known:
		return "of unknown age relative to"
	case c.Delta > 0:
		return fmt.Sprintf("%s newer than", seconds(c.Delta))
	case c.Delta < 0:
		return fmt.Sprintf("%s older than", seconds(-c.Delta))
	default:
		return "same age as"
	}
}

// Prompt builds the overwrite question shown to the user. what names the
// candidate, e.g. "The packed file".
func (c Comparison) Prompt(what string) string {
	if !c.Exists {
		return fmt.Sprintf("Write %s?", c.Path)
	}
	if c.Known && c.Delta == 0 {
		return fmt.Sprintf("%s is the same age as the existing %s. Overwrite?", what, c.Path)
	}
	return fmt.Sprintf("%s is %s the existing %s. Overwrite?", what, c.Hint(), c.Path)
}

func seconds(n int64) string {
	if n == 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", n)
}

// FileOlder reports whether path is missing or older than t by at least
// one whole second.
func FileOlder(fs fsops.FS, path string, t time.Time) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return true
	}
	return Delta(t, info.ModTime()) > 0
}

// FileNewer reports whether path exists and is newer than t by at least
// one whole second. A missing file is never newer.
func FileNewer(fs fsops.FS, path string, t time.Time) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return Delta(info.ModTime(), t) > 0
}
