package fragments

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mercator-hq/ganymede/pkg/sudoers"
)

// Scanner detects semantic duplicates of a rule across the files of a
// fragment directory. It only reads; it never writes.
type Scanner struct {
	dir    string
	logger *slog.Logger
}

// NewScanner creates a scanner over the given fragment directory.
func NewScanner(dir string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		dir:    dir,
		logger: logger.With("component", "fragments.scanner"),
	}
}

// Contains reports whether any existing fragment already covers the rule.
// A fragment covers a rule when its normalized content contains the rule's
// normalized text as a substring. The scan is non-recursive; directory
// entries that are themselves directories are ignored.
//
// Policy for unreadable fragments: skip and continue, logging a warning.
// A fragment directory on a real host can hold files the invoking user
// cannot read, and one bad file must not abort the whole scan.
//
// On a match it returns the covering fragment's file name and true. The
// error is non-nil only when the directory itself cannot be listed.
func (s *Scanner) Contains(rule sudoers.Rule) (string, bool, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", false, fmt.Errorf("read fragment directory %q: %w", s.dir, err)
	}

	needle := sudoers.Normalize(rule.Raw)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable fragment",
				"path", path,
				"error", err,
			)
			continue
		}
		if strings.Contains(sudoers.Normalize(string(data)), needle) {
			return entry.Name(), true, nil
		}
	}
	return "", false, nil
}
