// Package sudoers implements the narrow per-principal rule grammar that
// Ganymede migrates out of a monolithic sudoers file.
//
// The grammar recognizes exactly one rule shape:
//
//	<principal> ALL=(ALL)[:ALL][ NOPASSWD: ALL][ <trailing>]
//
// where <principal> is a lowercase identifier, optionally prefixed with
// the group marker "%". This is deliberately not a general sudoers parser;
// lines that carry host lists, command lists, or aliases are left alone.
// Full syntax judgment is delegated to visudo (see package validator).
//
// Classification is a pure function over one line. The privilege check
// (root and %wheel are never migrated) is a separate function so the
// structural decision and the policy decision stay independently testable.
package sudoers
