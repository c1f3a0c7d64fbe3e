package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// LinkConfig binds a set of trigger keywords to one on-screen link.
type LinkConfig struct {
	ID       int      `json:"id"`
	Keywords []string `json:"keywords"`
}

// Clone returns a deep copy so callers cannot mutate shared snapshots.
func (l LinkConfig) Clone() LinkConfig {
	return LinkConfig{ID: l.ID, Keywords: slices.Clone(l.Keywords)}
}

// MaxLinkID is the largest storable link id.
const MaxLinkID = math.MaxInt32

// ValidateLinks checks a full replacement list: ids in [0, MaxLinkID] and
// unique across the list, keywords non-empty and unique (after
// normalization) within each link.
func ValidateLinks(links []LinkConfig) error {
	var errs []FieldError
	seenIDs := make(map[int]int, len(links))

	for i, l := range links {
		if l.ID < 0 || l.ID > MaxLinkID {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("links[%d].id", i),
				Message: fmt.Sprintf("must be between 0 and %d", MaxLinkID),
			})
		} else if prev, ok := seenIDs[l.ID]; ok {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("links[%d].id", i),
				Message: fmt.Sprintf("duplicate id %d (also at links[%d])", l.ID, prev),
			})
		} else {
			seenIDs[l.ID] = i
		}

		if len(l.Keywords) == 0 {
			errs = append(errs, FieldError{Field: fmt.Sprintf("links[%d].keywords", i), Message: "at least one required"})
			continue
		}

		seenKw := make(map[string]struct{}, len(l.Keywords))
		for j, kw := range l.Keywords {
			norm := NormalizeText(kw)
			if norm == "" {
				errs = append(errs, FieldError{Field: fmt.Sprintf("links[%d].keywords[%d]", i, j), Message: "required"})
				continue
			}
			if _, dup := seenKw[norm]; dup {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("links[%d].keywords[%d]", i, j),
					Message: fmt.Sprintf("duplicate keyword %q", strings.TrimSpace(kw)),
				})
				continue
			}
			seenKw[norm] = struct{}{}
		}
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// SortedLinks returns a trimmed deep copy ordered by link id ascending.
// Keyword order within a link is preserved.
func SortedLinks(links []LinkConfig) []LinkConfig {
	out := make([]LinkConfig, len(links))
	for i, l := range links {
		c := l.Clone()
		for j := range c.Keywords {
			c.Keywords[j] = strings.TrimSpace(c.Keywords[j])
		}
		out[i] = c
	}
	slices.SortStableFunc(out, func(a, b LinkConfig) int { return a.ID - b.ID })
	return out
}
