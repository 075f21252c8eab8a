package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Validator checks a candidate fragment file for syntax errors.
type Validator interface {
	// Check returns nil when the file at path is syntactically valid.
	// A *SyntaxError reports rejection by the checker; any other error
	// means the checker could not be run at all.
	Check(ctx context.Context, path string) error
}

// SyntaxError reports that the external checker rejected a file.
type SyntaxError struct {
	Path     string // file that was checked
	ExitCode int    // checker exit status (nonzero)
	Output   string // combined checker output, trimmed
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("syntax check failed for %s (exit status %d)", e.Path, e.ExitCode)
	}
	return fmt.Sprintf("syntax check failed for %s (exit status %d): %s", e.Path, e.ExitCode, e.Output)
}

// Visudo validates files by invoking `<command> -c -f <path>` and
// interpreting a zero exit status as a pass.
type Visudo struct {
	// Command is the checker binary. Default: "visudo".
	Command string

	// Timeout bounds a single invocation. Zero means no timeout; a hung
	// checker then blocks the run, which is acceptable for an
	// operator-invoked tool.
	Timeout time.Duration

	logger *slog.Logger
}

// NewVisudo creates a visudo-backed validator. An empty command selects
// the default "visudo" from PATH.
func NewVisudo(command string, timeout time.Duration, logger *slog.Logger) *Visudo {
	if command == "" {
		command = "visudo"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Visudo{
		Command: command,
		Timeout: timeout,
		logger:  logger.With("component", "validator.visudo"),
	}
}

// Check runs the checker against path synchronously.
func (v *Visudo) Check(ctx context.Context, path string) error {
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, v.Command, "-c", "-f", path)
	// CombinedOutput blocks until every pipe writer exits, which keeps a
	// timed-out check hanging when the checker spawned children. WaitDelay
	// abandons the pipe shortly after the context is done.
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()
	if err == nil {
		v.logger.Debug("syntax check passed", "path", path)
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("run %s on %s: %w", v.Command, path, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &SyntaxError{
			Path:     path,
			ExitCode: exitErr.ExitCode(),
			Output:   strings.TrimSpace(string(output)),
		}
	}
	return fmt.Errorf("run %s: %w", v.Command, err)
}
