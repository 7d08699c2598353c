// Package ui handles everything nasher shows to or reads from the user:
// leveled console output, overwrite confirmations and free-form questions,
// and progress reporting while staging sources.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Level is the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Logger receives progress messages from the build pipeline.
type Logger interface {
	// Log prints msg if level is at or above the logger's threshold.
	Log(level Level, msg string)

	// Progress returns a progress reporter for total units of work.
	Progress(total int, description string) Progress
}

// Progress reports units of completed work.
type Progress interface {
	Add(n int)
	Finish()
}

var (
	// Color functions - fatih/color disables them when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.FgHiBlack)
)

// Console writes colored, leveled messages. Warnings and errors go to Err,
// everything else to Out.
type Console struct {
	Out       io.Writer
	Err       io.Writer
	Threshold Level

	// ShowProgress enables the staging progress bar. It is only useful when
	// Out is a terminal.
	ShowProgress bool
}

// NewConsole creates a Console writing to stdout and stderr.
func NewConsole(threshold Level) *Console {
	return &Console{
		Out:          os.Stdout,
		Err:          os.Stderr,
		Threshold:    threshold,
		ShowProgress: IsTerminal(os.Stdout),
	}
}

// Log prints msg with a level-specific marker.
func (c *Console) Log(level Level, msg string) {
	if level < c.Threshold {
		return
	}

	switch level {
	case LevelDebug:
		_, _ = dimColor.Fprintf(c.Out, "  %s\n", msg)
	case LevelInfo:
		_, _ = fmt.Fprintf(c.Out, "%s %s\n", infoColor.Sprint("→"), msg)
	case LevelSuccess:
		_, _ = successColor.Fprintf(c.Out, "✓ %s\n", msg)
	case LevelWarn:
		_, _ = warningColor.Fprintf(c.Err, "⚠ %s\n", msg)
	case LevelError:
		_, _ = errorColor.Fprintf(c.Err, "✗ %s\n", msg)
	}
}

// Progress returns a progress bar on Out, or a no-op when progress is
// disabled or the logger is quieter than info.
func (c *Console) Progress(total int, description string) Progress {
	if !c.ShowProgress || c.Threshold > LevelInfo || total <= 0 {
		return nopProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.Out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	return &barProgress{bar: bar}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Add(n int) {
	_ = p.bar.Add(n)
}

func (p *barProgress) Finish() {
	_ = p.bar.Finish()
}

type nopProgress struct{}

func (nopProgress) Add(int) {}
func (nopProgress) Finish() {}

// Entry is a message captured by Recorder.
type Entry struct {
	Level   Level
	Message string
}

// Recorder implements Logger by remembering every message. Used in tests.
type Recorder struct {
	Entries []Entry
}

// Log records the message.
func (r *Recorder) Log(level Level, msg string) {
	r.Entries = append(r.Entries, Entry{Level: level, Message: msg})
}

// Progress returns a no-op progress reporter.
func (r *Recorder) Progress(int, string) Progress {
	return nopProgress{}
}

// Contains reports whether a message at level contains substr.
func (r *Recorder) Contains(level Level, substr string) bool {
	for _, e := range r.Entries {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
