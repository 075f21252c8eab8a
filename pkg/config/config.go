package config

import "time"

// Config is the root configuration structure for Ganymede.
type Config struct {
	// Source describes the monolithic sudoers file being migrated from.
	Source SourceConfig `yaml:"source"`

	// Fragments describes the managed drop-in directory.
	Fragments FragmentsConfig `yaml:"fragments"`

	// Validator configures the external syntax checker.
	Validator ValidatorConfig `yaml:"validator"`

	// Audit configures the persistent audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SourceConfig describes the source sudoers file.
type SourceConfig struct {
	// Path is the sudoers file to migrate from.
	// Default: "/etc/sudoers"
	Path string `yaml:"path"`

	// Backup copies the source to a timestamped sibling before any
	// processing. Default: false
	Backup bool `yaml:"backup"`
}

// FragmentsConfig describes the fragment directory.
type FragmentsConfig struct {
	// Dir is the drop-in directory fragments are created in.
	// Default: "/etc/sudoers.d"
	Dir string `yaml:"dir"`

	// Prefix names fragments {prefix}_{principal}.
	// Default: "10"
	Prefix string `yaml:"prefix"`
}

// ValidatorConfig configures the external syntax checker.
type ValidatorConfig struct {
	// Command is the checker binary, invoked as `<command> -c -f <path>`.
	// Default: "visudo"
	Command string `yaml:"command"`

	// Timeout bounds a single checker invocation. Zero disables the
	// timeout. Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	// Enabled controls whether runs and decisions are recorded.
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the audit database file path.
	// Default: "/var/lib/ganymede/audit.db"
	SQLitePath string `yaml:"sqlite_path"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how long `audit prune` keeps runs.
	// 0 keeps everything. Default: 90
	RetentionDays int `yaml:"retention_days"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics export.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured log output.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("text", "json").
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics export.
type MetricsConfig struct {
	// TextfilePath, when set, is where the run's metrics are written in
	// text exposition format for the node_exporter textfile collector.
	// Empty disables metrics export. Default: ""
	TextfilePath string `yaml:"textfile_path"`
}
