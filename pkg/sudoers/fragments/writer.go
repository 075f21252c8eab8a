package fragments

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mercator-hq/ganymede/pkg/sudoers"
)

// ErrExists reports that the derived fragment path is already occupied.
// This is distinct from semantic duplicate detection: the scanner compares
// content across all fragments, while this conflict is about one exact path.
var ErrExists = errors.New("fragment already exists")

// fragmentMode is the permission sudo expects on drop-in files; visudo
// warns on anything world-writable and sudo ignores files it cannot trust.
const fragmentMode = 0o440

// Writer creates fragment files for migrated rules.
type Writer struct {
	dir    string
	prefix string
}

// NewWriter creates a writer that places fragments under dir, naming them
// with the given prefix.
func NewWriter(dir, prefix string) *Writer {
	return &Writer{dir: dir, prefix: prefix}
}

// Path returns the deterministic fragment path for a rule:
// {dir}/{prefix}_{principal with the group marker stripped}.
func (w *Writer) Path(rule sudoers.Rule) string {
	return filepath.Join(w.dir, w.prefix+"_"+rule.Name())
}

// Write creates the fragment for the rule and writes the rule's raw text
// exactly, with no trailing newline added. Creation uses O_EXCL, so a
// pre-existing file at the derived path yields ErrExists rather than a
// silent overwrite; the existence check and the create are one atomic
// operation. The returned path is valid even when an error is returned.
func (w *Writer) Write(rule sudoers.Rule) (string, error) {
	path := w.Path(rule)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fragmentMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return path, fmt.Errorf("%w: %s", ErrExists, path)
		}
		return path, fmt.Errorf("create fragment %q: %w", path, err)
	}
	if _, err := f.WriteString(rule.Raw); err != nil {
		f.Close()
		os.Remove(path)
		return path, fmt.Errorf("write fragment %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("close fragment %q: %w", path, err)
	}
	return path, nil
}

// Remove deletes a fragment file. It is used to destroy fragments that
// failed external validation; such a fragment must never persist.
func (w *Writer) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove fragment %q: %w", path, err)
	}
	return nil
}
