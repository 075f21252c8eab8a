package sudoers

import (
	"regexp"
	"strings"
)

// GroupMarker is the prefix distinguishing a group principal from a user
// principal in a sudoers rule.
const GroupMarker = "%"

// ruleRegex matches the one rule shape Ganymede migrates. The keywords are
// matched case-sensitively; the principal charset is restricted to lowercase
// identifiers that do not start with a digit. The trailing group is carried
// into Rule.Raw verbatim but never interpreted here.
var ruleRegex = regexp.MustCompile(`^(%?[a-z_][a-z0-9_-]*)\s+ALL=\(ALL\)(:ALL)?(\s+NOPASSWD: ALL)?(\s+.*)?$`)

// Rule is one recognized per-principal sudo rule extracted from a source line.
type Rule struct {
	// Principal is the user or group identifier, group marker included.
	Principal string

	// IsGroup reports whether Principal carries the group marker.
	IsGroup bool

	// Raw is the trimmed original line, byte-for-byte. Removal from the
	// source file is a text-equality operation against this value, so it
	// must never be rewritten or re-derived.
	Raw string
}

// Name returns the principal with any group marker stripped. Fragment file
// names are derived from this form.
func (r Rule) Name() string {
	return strings.TrimPrefix(r.Principal, GroupMarker)
}

// Classify matches one source line against the rule grammar. It returns the
// extracted rule and true on a match, or the zero Rule and false otherwise.
// Classify has no side effects and performs no privilege policy; callers
// that exclude privileged accounts consult IsPrivileged separately.
func Classify(line string) (Rule, bool) {
	trimmed := strings.TrimSpace(line)
	m := ruleRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return Rule{}, false
	}
	principal := m[1]
	return Rule{
		Principal: principal,
		IsGroup:   strings.HasPrefix(principal, GroupMarker),
		Raw:       trimmed,
	}, true
}

// privilegedPrincipals are foundational to system administration and are
// never migrated out of the main sudoers file.
var privilegedPrincipals = map[string]struct{}{
	"root":               {},
	GroupMarker + "wheel": {},
}

// IsPrivileged reports whether the principal (group marker included) is
// excluded from migration. The comparison is case-insensitive.
func IsPrivileged(principal string) bool {
	_, ok := privilegedPrincipals[strings.ToLower(principal)]
	return ok
}
