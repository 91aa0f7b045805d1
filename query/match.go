package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// matcher tests case-insensitive substring containment. A nil matcher
// matches everything.
type matcher struct {
	needle string
}

// newMatcher returns nil for an empty filter.
func newMatcher(filter string) *matcher {
	if filter == "" {
		return nil
	}
	return &matcher{needle: fold(filter)}
}

func (m *matcher) match(s string) bool {
	if m == nil {
		return true
	}
	return strings.Contains(fold(s), m.needle)
}

// fold normalizes to NFC and applies Unicode case folding.
// Casers carry state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
