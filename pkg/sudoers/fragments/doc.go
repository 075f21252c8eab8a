// Package fragments manages the drop-in fragment directory
// (conventionally /etc/sudoers.d).
//
// Scanner answers whether a candidate rule is already covered by any
// existing fragment, comparing normalized text so formatting, case, and
// comments do not defeat the check. Writer creates one fragment per rule
// under a deterministic name and refuses to clobber an existing path.
package fragments
