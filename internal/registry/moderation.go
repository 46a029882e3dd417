package registry

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultBannedTerms are always rejected by a ModerationFilter.
var DefaultBannedTerms = []string{"pornografía", "violencia", "odio"}

// ModerationFilter rejects content whose description contains a banned term.
// Matching is a case-insensitive raw substring check with no word
// boundaries, so "odio" also matches inside "custodio".
type ModerationFilter struct {
	terms []string
}

// NewModerationFilter creates a filter with the default terms plus extra.
// Blank extra terms are ignored.
func NewModerationFilter(extra ...string) *ModerationFilter {
	lower := cases.Lower(language.Und)
	seen := make(map[string]bool)
	var terms []string
	for _, term := range append(slices.Clone(DefaultBannedTerms), extra...) {
		term = lower.String(strings.TrimSpace(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return &ModerationFilter{terms: terms}
}

// Terms returns the lower-cased banned terms in effect.
func (f *ModerationFilter) Terms() []string {
	return slices.Clone(f.terms)
}

// IsApproved reports whether item passes moderation. Only the description is
// inspected.
func (f *ModerationFilter) IsApproved(item ContentItem) bool {
	description := cases.Lower(language.Und).String(item.Description)
	for _, term := range f.terms {
		if strings.Contains(description, term) {
			return false
		}
	}
	return true
}

var defaultFilter = NewModerationFilter()

// IsApproved checks item against the default banned terms.
func IsApproved(item ContentItem) bool {
	return defaultFilter.IsApproved(item)
}
