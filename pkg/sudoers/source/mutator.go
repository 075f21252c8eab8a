package source

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Mutator removes rule lines from a sudoers file.
type Mutator struct {
	path   string
	logger *slog.Logger

	// rename commits the rewritten file over the original. Tests swap it
	// out to inject faults at the replace step.
	rename func(oldpath, newpath string) error
}

// NewMutator creates a mutator for the sudoers file at path.
func NewMutator(path string, logger *slog.Logger) *Mutator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mutator{
		path:   path,
		logger: logger.With("component", "source.mutator"),
		rename: os.Rename,
	}
}

// RemoveLine rewrites the sudoers file omitting every line whose trimmed
// text equals entry. All other lines are preserved verbatim, line
// terminators included. The rewrite is atomic: content goes to a temporary
// file in the same directory, which replaces the original in one rename.
// On any failure the original file is left untouched and the temporary
// file is cleaned up.
func (m *Mutator) RemoveLine(entry string) error {
	in, err := os.Open(m.path)
	if err != nil {
		return fmt.Errorf("open source file %q: %w", m.path, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source file %q: %w", m.path, err)
	}

	// Same directory as the original so the final rename cannot cross
	// filesystems.
	tmp, err := os.CreateTemp(filepath.Dir(m.path), filepath.Base(m.path)+".*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if err := m.copyOmitting(in, tmp, entry); err != nil {
		cleanup()
		return err
	}

	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		cleanup()
		return fmt.Errorf("set mode on temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temporary file: %w", err)
	}

	if err := m.rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace source file %q: %w", m.path, err)
	}

	m.logger.Debug("removed entry from source file", "path", m.path, "entry", entry)
	return nil
}

// copyOmitting streams lines from r to w, dropping lines whose trimmed
// text equals entry. Lines are read with their terminators so everything
// kept is byte-identical to the input.
func (m *Mutator) copyOmitting(r io.Reader, w io.Writer, entry string) error {
	reader := bufio.NewReader(r)
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" && strings.TrimSpace(line) != entry {
			if _, err := io.WriteString(w, line); err != nil {
				return fmt.Errorf("write temporary file: %w", err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read source file %q: %w", m.path, readErr)
		}
	}
}
