package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Source.Path != "/etc/sudoers" {
		t.Errorf("Source.Path = %q, want /etc/sudoers", cfg.Source.Path)
	}
	if cfg.Fragments.Dir != "/etc/sudoers.d" {
		t.Errorf("Fragments.Dir = %q, want /etc/sudoers.d", cfg.Fragments.Dir)
	}
	if cfg.Fragments.Prefix != "10" {
		t.Errorf("Fragments.Prefix = %q, want 10", cfg.Fragments.Prefix)
	}
	if cfg.Validator.Command != "visudo" {
		t.Errorf("Validator.Command = %q, want visudo", cfg.Validator.Command)
	}
	if !cfg.Audit.Enabled {
		t.Error("Audit.Enabled = false, want true by default")
	}
	if cfg.Audit.RetentionDays != 90 {
		t.Errorf("Audit.RetentionDays = %d, want 90", cfg.Audit.RetentionDays)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration failed validation: %v", err)
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Source:    SourceConfig{Path: "/srv/jail/etc/sudoers"},
		Fragments: FragmentsConfig{Prefix: "50"},
		Validator: ValidatorConfig{Timeout: time.Minute},
	}
	ApplyDefaults(cfg)

	if cfg.Source.Path != "/srv/jail/etc/sudoers" {
		t.Errorf("explicit source path overwritten: %q", cfg.Source.Path)
	}
	if cfg.Fragments.Prefix != "50" {
		t.Errorf("explicit prefix overwritten: %q", cfg.Fragments.Prefix)
	}
	if cfg.Validator.Timeout != time.Minute {
		t.Errorf("explicit timeout overwritten: %v", cfg.Validator.Timeout)
	}
	if cfg.Fragments.Dir != DefaultFragmentDir {
		t.Errorf("zero-valued dir not defaulted: %q", cfg.Fragments.Dir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		errorField string
	}{
		{
			name:       "empty source path",
			mutate:     func(c *Config) { c.Source.Path = "" },
			errorField: "source.path",
		},
		{
			name:       "empty fragment dir",
			mutate:     func(c *Config) { c.Fragments.Dir = "" },
			errorField: "fragments.dir",
		},
		{
			name:       "prefix with path separator",
			mutate:     func(c *Config) { c.Fragments.Prefix = "10/evil" },
			errorField: "fragments.prefix",
		},
		{
			name:       "prefix with dot is ignored by sudo",
			mutate:     func(c *Config) { c.Fragments.Prefix = "10.bak" },
			errorField: "fragments.prefix",
		},
		{
			name:       "empty validator command",
			mutate:     func(c *Config) { c.Validator.Command = "" },
			errorField: "validator.command",
		},
		{
			name:       "negative validator timeout",
			mutate:     func(c *Config) { c.Validator.Timeout = -time.Second },
			errorField: "validator.timeout",
		},
		{
			name: "audit enabled without database path",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.SQLitePath = ""
			},
			errorField: "audit.sqlite_path",
		},
		{
			name:       "negative retention",
			mutate:     func(c *Config) { c.Audit.RetentionDays = -1 },
			errorField: "audit.retention_days",
		},
		{
			name:       "unknown log level",
			mutate:     func(c *Config) { c.Telemetry.Logging.Level = "loud" },
			errorField: "telemetry.logging.level",
		},
		{
			name:       "unknown log format",
			mutate:     func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			errorField: "telemetry.logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.errorField) {
				t.Errorf("error %q does not mention field %q", err, tt.errorField)
			}
		})
	}
}

func TestValidateCollectsMultipleErrors(t *testing.T) {
	cfg := &Config{} // everything empty, no defaults applied

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() on an empty config should fail")
	}
	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if len(validationErr.Errors) < 3 {
		t.Errorf("collected %d errors, want several", len(validationErr.Errors))
	}
	if !strings.Contains(validationErr.Error(), "validation failed with") {
		t.Errorf("aggregate message should count errors: %q", validationErr.Error())
	}
}
