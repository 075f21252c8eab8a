package config

import "time"

// Default values for configuration fields.
const (
	DefaultSourcePath = "/etc/sudoers"

	DefaultFragmentDir    = "/etc/sudoers.d"
	DefaultFragmentPrefix = "10"

	DefaultValidatorCommand = "visudo"
	DefaultValidatorTimeout = 30 * time.Second

	DefaultAuditEnabled       = true
	DefaultAuditSQLitePath    = "/var/lib/ganymede/audit.db"
	DefaultAuditBusyTimeout   = 5 * time.Second
	DefaultAuditRetentionDays = 90

	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// DefaultConfig returns a fully populated configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{
		Audit: AuditConfig{
			Enabled:       DefaultAuditEnabled,
			RetentionDays: DefaultAuditRetentionDays,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with defaults. Booleans and
// retention_days are left alone, since false and 0 are meaningful values
// there; their defaults come from DefaultConfig.
func ApplyDefaults(cfg *Config) {
	if cfg.Source.Path == "" {
		cfg.Source.Path = DefaultSourcePath
	}
	if cfg.Fragments.Dir == "" {
		cfg.Fragments.Dir = DefaultFragmentDir
	}
	if cfg.Fragments.Prefix == "" {
		cfg.Fragments.Prefix = DefaultFragmentPrefix
	}
	if cfg.Validator.Command == "" {
		cfg.Validator.Command = DefaultValidatorCommand
	}
	if cfg.Validator.Timeout == 0 {
		cfg.Validator.Timeout = DefaultValidatorTimeout
	}
	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = DefaultAuditSQLitePath
	}
	if cfg.Audit.BusyTimeout == 0 {
		cfg.Audit.BusyTimeout = DefaultAuditBusyTimeout
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
}
