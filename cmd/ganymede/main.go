// Mercator Ganymede migrates monolithic sudoers rules into per-principal
// drop-in fragments.
//
// It reads a sudoers file line by line and, for each simple ALL-rule it
// recognizes, creates a matching fragment under the managed drop-in
// directory, providing:
//   - Duplicate detection against fragments already present
//   - External syntax validation (visudo) with delete-on-fail rollback
//   - Optional atomic removal of migrated lines from the source file
//   - A persistent audit trail of every run and per-line decision
//
// Usage:
//
//	# Report what would be migrated, with no filesystem effects
//	ganymede migrate --test
//
//	# Migrate and remove migrated lines from /etc/sudoers
//	ganymede migrate --remove --backup
//
//	# Validate the sudoers file and every fragment without migrating
//	ganymede check --fragments
//
//	# Inspect the audit trail
//	ganymede audit runs
//	ganymede audit decisions --outcome created
//
//	# Show version information
//	ganymede version
//
// For complete documentation, see: https://github.com/mercator-hq/ganymede
package main

func main() {
	Execute()
}
