package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "fragments.prefix").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected before being returned
// together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration, returning a ValidationError
// collecting every failed rule, or nil when the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Source.Path == "" {
		errs = append(errs, FieldError{Field: "source.path", Message: "source file path is required"})
	}
	if cfg.Fragments.Dir == "" {
		errs = append(errs, FieldError{Field: "fragments.dir", Message: "fragment directory is required"})
	}

	switch {
	case cfg.Fragments.Prefix == "":
		errs = append(errs, FieldError{Field: "fragments.prefix", Message: "fragment prefix is required"})
	case strings.ContainsAny(cfg.Fragments.Prefix, "/\x00"):
		errs = append(errs, FieldError{Field: "fragments.prefix", Message: "fragment prefix must not contain path separators"})
	case strings.Contains(cfg.Fragments.Prefix, "."):
		// sudo skips drop-in files whose names contain a dot.
		errs = append(errs, FieldError{Field: "fragments.prefix", Message: "fragment prefix must not contain dots"})
	}

	if cfg.Validator.Command == "" {
		errs = append(errs, FieldError{Field: "validator.command", Message: "validator command is required"})
	}
	if cfg.Validator.Timeout < 0 {
		errs = append(errs, FieldError{Field: "validator.timeout", Message: "timeout must not be negative"})
	}

	if cfg.Audit.Enabled && cfg.Audit.SQLitePath == "" {
		errs = append(errs, FieldError{Field: "audit.sqlite_path", Message: "database path is required when audit is enabled"})
	}
	if cfg.Audit.RetentionDays < 0 {
		errs = append(errs, FieldError{Field: "audit.retention_days", Message: "retention must not be negative"})
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (use debug, info, warn, or error)", cfg.Telemetry.Logging.Level),
		})
	}
	switch cfg.Telemetry.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (use text or json)", cfg.Telemetry.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
