package source

import (
	"fmt"
	"strings"
)

// Accessibility is a declaration's visibility. Higher values are more visible.
type Accessibility int

const (
	AccessPrivate Accessibility = iota
	AccessFilePrivate
	AccessInternal
	AccessPackage
	AccessPublic
	AccessOpen
)

var accessibilityNames = map[Accessibility]string{
	AccessPrivate:     "private",
	AccessFilePrivate: "fileprivate",
	AccessInternal:    "internal",
	AccessPackage:     "package",
	AccessPublic:      "public",
	AccessOpen:        "open",
}

// String returns the keyword for the accessibility level
func (a Accessibility) String() string {
	if name, ok := accessibilityNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Accessibility(%d)", int(a))
}

// IsPubliclyAccessible reports whether the declaration is visible outside its module
func (a Accessibility) IsPubliclyAccessible() bool {
	return a >= AccessPublic
}

// ParseAccessibility converts an index store keyword. An empty value is
// the language default, internal.
func ParseAccessibility(s string) (Accessibility, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AccessInternal, nil
	}
	for a, name := range accessibilityNames {
		if name == s {
			return a, nil
		}
	}
	return AccessInternal, fmt.Errorf("unknown accessibility %q", s)
}

// MinAccessibility returns the more restrictive of a and b
func MinAccessibility(a, b Accessibility) Accessibility {
	if a < b {
		return a
	}
	return b
}
