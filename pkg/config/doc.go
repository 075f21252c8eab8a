// Package config defines and loads Ganymede's configuration.
//
// Configuration is loaded from a YAML file, has defaults applied, is
// overridden by GANYMEDE_* environment variables, and is validated before
// use. It is immutable once loading completes; command-line flags are
// applied on top by the CLI layer.
package config
