package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ganymede.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") failed: %v", err)
	}
	if cfg.Source.Path != DefaultSourcePath {
		t.Errorf("Source.Path = %q, want %q", cfg.Source.Path, DefaultSourcePath)
	}
	if !cfg.Audit.Enabled {
		t.Error("Audit.Enabled = false, want true")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
source:
  path: /srv/sudoers
  backup: true
fragments:
  dir: /srv/sudoers.d
  prefix: "20"
validator:
  command: /usr/local/sbin/visudo
  timeout: 10s
audit:
  enabled: true
  sqlite_path: /tmp/audit.db
  retention_days: 30
telemetry:
  logging:
    level: debug
    format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Source.Path != "/srv/sudoers" {
		t.Errorf("Source.Path = %q, want /srv/sudoers", cfg.Source.Path)
	}
	if !cfg.Source.Backup {
		t.Error("Source.Backup = false, want true")
	}
	if cfg.Fragments.Prefix != "20" {
		t.Errorf("Fragments.Prefix = %q, want 20", cfg.Fragments.Prefix)
	}
	if cfg.Validator.Timeout != 10*time.Second {
		t.Errorf("Validator.Timeout = %v, want 10s", cfg.Validator.Timeout)
	}
	if cfg.Audit.RetentionDays != 30 {
		t.Errorf("Audit.RetentionDays = %d, want 30", cfg.Audit.RetentionDays)
	}
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Telemetry.Logging.Format = %q, want json", cfg.Telemetry.Logging.Format)
	}

	// Fields the file omits get defaults.
	if cfg.Audit.BusyTimeout != DefaultAuditBusyTimeout {
		t.Errorf("Audit.BusyTimeout = %v, want %v", cfg.Audit.BusyTimeout, DefaultAuditBusyTimeout)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() should fail for a missing file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "source: [not: a: mapping")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() should fail for malformed YAML")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	path := writeConfigFile(t, `
fragments:
  prefix: "10.bak"
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() should fail validation for a dotted prefix")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
source:
  path: /srv/sudoers
fragments:
  prefix: "20"
`)

	t.Setenv("GANYMEDE_SOURCE_PATH", "/env/sudoers")
	t.Setenv("GANYMEDE_SOURCE_BACKUP", "true")
	t.Setenv("GANYMEDE_FRAGMENTS_PREFIX", "30")
	t.Setenv("GANYMEDE_VALIDATOR_TIMEOUT", "90s")
	t.Setenv("GANYMEDE_AUDIT_ENABLED", "false")
	t.Setenv("GANYMEDE_AUDIT_RETENTION_DAYS", "7")
	t.Setenv("GANYMEDE_TELEMETRY_LOGGING_FORMAT", "json")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Source.Path != "/env/sudoers" {
		t.Errorf("Source.Path = %q, env override lost", cfg.Source.Path)
	}
	if !cfg.Source.Backup {
		t.Error("Source.Backup = false, env override lost")
	}
	if cfg.Fragments.Prefix != "30" {
		t.Errorf("Fragments.Prefix = %q, env override lost", cfg.Fragments.Prefix)
	}
	if cfg.Validator.Timeout != 90*time.Second {
		t.Errorf("Validator.Timeout = %v, env override lost", cfg.Validator.Timeout)
	}
	if cfg.Audit.Enabled {
		t.Error("Audit.Enabled = true, env override lost")
	}
	if cfg.Audit.RetentionDays != 7 {
		t.Errorf("Audit.RetentionDays = %d, env override lost", cfg.Audit.RetentionDays)
	}
}

func TestLoadConfigWithEnvOverridesRevalidates(t *testing.T) {
	t.Setenv("GANYMEDE_FRAGMENTS_PREFIX", "bad/prefix")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("an env override that breaks validation should fail the load")
	}
}
