package staleness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/nasher/internal/fsops"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func writeAt(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("failed to set mtime on %s: %v", path, err)
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name      string
		candidate time.Time
		want      int64
	}{
		{"newer", base.Add(10 * time.Second), 10},
		{"older", base.Add(-5 * time.Second), -5},
		{"same", base, 0},
		{"sub-second newer is same", base.Add(900 * time.Millisecond), 0},
		{"sub-second older is same", base.Add(-900 * time.Millisecond), 0},
		{"truncates toward zero", base.Add(-1900 * time.Millisecond), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Delta(tt.candidate, base); got != tt.want {
				t.Errorf("Delta = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompare_DefaultAnswer(t *testing.T) {
	fs := fsops.NewRealFS()
	dir := t.TempDir()
	existing := filepath.Join(dir, "demo.mod")
	writeAt(t, existing, base)

	tests := []struct {
		name      string
		candidate time.Time
		path      string
		want      bool
		hint      string
	}{
		{"candidate newer defaults yes", base.Add(3 * time.Second), existing, true, "3 seconds newer than"},
		{"same age defaults yes", base, existing, true, "same age as"},
		{"candidate older defaults no", base.Add(-5 * time.Second), existing, false, "5 seconds older than"},
		{"missing file defaults yes regardless", base.Add(-1000 * time.Hour), filepath.Join(dir, "missing.mod"), true, ""},
		{"unknown candidate defaults yes", time.Time{}, existing, true, "unknown age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compare(fs, tt.candidate, tt.path)
			if err != nil {
				t.Fatalf("Compare failed: %v", err)
			}
			if got := c.DefaultAnswer(); got != tt.want {
				t.Errorf("DefaultAnswer = %v, want %v (delta %d)", got, tt.want, c.Delta)
			}
			if tt.hint != "" && !strings.Contains(c.Hint(), tt.hint) {
				t.Errorf("Hint = %q, want it to contain %q", c.Hint(), tt.hint)
			}
		})
	}
}

func TestCompare_Prompt(t *testing.T) {
	fs := fsops.NewRealFS()
	dir := t.TempDir()
	existing := filepath.Join(dir, "demo.mod")
	writeAt(t, existing, base)

	c, err := Compare(fs, base.Add(-1*time.Second), existing)
	if err != nil {
		t.Fatal(err)
	}
	if !c.NeedsPrompt() {
		t.Error("existing file should need a prompt")
	}
	want := "The packed file is 1 second older than the existing " + existing + ". Overwrite?"
	if got := c.Prompt("The packed file"); got != want {
		t.Errorf("Prompt = %q, want %q", got, want)
	}

	missing, err := Compare(fs, base, filepath.Join(dir, "new.mod"))
	if err != nil {
		t.Fatal(err)
	}
	if missing.NeedsPrompt() {
		t.Error("missing file should not need a prompt")
	}
}

func TestFileOlderNewer(t *testing.T) {
	fs := fsops.NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.nss")
	writeAt(t, path, base)
	missing := filepath.Join(dir, "missing.nss")

	tests := []struct {
		name      string
		path      string
		t         time.Time
		wantOlder bool
		wantNewer bool
	}{
		{"file older than later time", path, base.Add(2 * time.Second), true, false},
		{"file newer than earlier time", path, base.Add(-2 * time.Second), false, true},
		{"same second is neither", path, base.Add(500 * time.Millisecond), false, false},
		{"missing file is older but not newer", missing, base, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileOlder(fs, tt.path, tt.t); got != tt.wantOlder {
				t.Errorf("FileOlder = %v, want %v", got, tt.wantOlder)
			}
			if got := FileNewer(fs, tt.path, tt.t); got != tt.wantNewer {
				t.Errorf("FileNewer = %v, want %v", got, tt.wantNewer)
			}
		})
	}
}
