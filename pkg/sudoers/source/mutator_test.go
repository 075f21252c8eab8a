package source

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sudoers")
	if err := os.WriteFile(path, []byte(content), 0o440); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRemoveLine(t *testing.T) {
	tests := []struct {
		name    string
		content string
		entry   string
		want    string
	}{
		{
			name:    "removes matching line",
			content: "root ALL=(ALL):ALL\nalice ALL=(ALL):ALL\n%admins ALL=(ALL)\n",
			entry:   "alice ALL=(ALL):ALL",
			want:    "root ALL=(ALL):ALL\n%admins ALL=(ALL)\n",
		},
		{
			name:    "matches on trimmed text",
			content: "root ALL=(ALL):ALL\n   alice ALL=(ALL):ALL   \n",
			entry:   "alice ALL=(ALL):ALL",
			want:    "root ALL=(ALL):ALL\n",
		},
		{
			name:    "removes every occurrence",
			content: "alice ALL=(ALL)\nbob ALL=(ALL)\nalice ALL=(ALL)\n",
			entry:   "alice ALL=(ALL)",
			want:    "bob ALL=(ALL)\n",
		},
		{
			name:    "no match leaves content identical",
			content: "# comment\nroot ALL=(ALL):ALL\n\nDefaults env_reset\n",
			entry:   "alice ALL=(ALL):ALL",
			want:    "# comment\nroot ALL=(ALL):ALL\n\nDefaults env_reset\n",
		},
		{
			name:    "preserves missing trailing newline",
			content: "root ALL=(ALL):ALL\nalice ALL=(ALL)\nbob ALL=(ALL)",
			entry:   "alice ALL=(ALL)",
			want:    "root ALL=(ALL):ALL\nbob ALL=(ALL)",
		},
		{
			name:    "comment containing the entry text survives",
			content: "# alice ALL=(ALL)\nalice ALL=(ALL)\n",
			entry:   "alice ALL=(ALL)",
			want:    "# alice ALL=(ALL)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, tt.content)
			m := NewMutator(path, slog.Default())
			if err := m.RemoveLine(tt.entry); err != nil {
				t.Fatalf("RemoveLine() error: %v", err)
			}
			if got := readFile(t, path); got != tt.want {
				t.Errorf("content after RemoveLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveLinePreservesMode(t *testing.T) {
	path := writeSource(t, "alice ALL=(ALL)\n")
	m := NewMutator(path, slog.Default())
	if err := m.RemoveLine("alice ALL=(ALL)"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o440 {
		t.Errorf("mode after rewrite = %o, want 440", info.Mode().Perm())
	}
}

func TestRemoveLineFaultBeforeReplaceLeavesOriginalIntact(t *testing.T) {
	const content = "root ALL=(ALL):ALL\nalice ALL=(ALL):ALL\n"
	path := writeSource(t, content)

	m := NewMutator(path, slog.Default())
	m.rename = func(oldpath, newpath string) error {
		return errors.New("injected rename fault")
	}

	err := m.RemoveLine("alice ALL=(ALL):ALL")
	if err == nil {
		t.Fatal("RemoveLine() should surface the rename fault")
	}

	// The original must be byte-identical to its pre-mutation state.
	if got := readFile(t, path); got != content {
		t.Errorf("original modified despite failed replace: %q", got)
	}

	// The temporary file must not linger.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("leftover files after failed replace: %v", names)
	}
}

func TestRemoveLineMissingSource(t *testing.T) {
	m := NewMutator(filepath.Join(t.TempDir(), "absent"), slog.Default())
	if err := m.RemoveLine("alice ALL=(ALL)"); err == nil {
		t.Error("RemoveLine() on a missing file should return an error")
	}
}
