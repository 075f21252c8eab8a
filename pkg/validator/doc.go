// Package validator adapts an external sudoers syntax checker.
//
// Ganymede never judges sudoers syntax itself; a fragment is only trusted
// after the host's own checker (visudo by default) accepts it. The checker
// is modeled as the Validator interface so the pipeline can be exercised
// in tests with a fake, and so a different checker binary can be
// configured on hosts where visudo lives elsewhere.
package validator
