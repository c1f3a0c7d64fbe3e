package configstore

import (
	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// Snapshot is one immutable version of an account's configuration.
// Nothing reachable from a Snapshot may be modified after it is published.
type Snapshot struct {
	// Links in the order the operator saved them.
	Links []domain.LinkConfig
	Alarm domain.AlarmConfig
	// Matchers are Links sorted by id with keywords pre-normalized.
	Matchers []Matcher
}

// Matcher is a link prepared for substring matching.
type Matcher struct {
	LinkID int
	// Keywords as saved (trimmed), parallel to Normalized.
	Keywords   []string
	Normalized []string
}

// NewSnapshot builds a snapshot from links in saved order.
func NewSnapshot(links []domain.LinkConfig, alarm domain.AlarmConfig) *Snapshot {
	sorted := domain.SortedLinks(links)
	matchers := make([]Matcher, len(sorted))
	for i, l := range sorted {
		norm := make([]string, len(l.Keywords))
		for j, kw := range l.Keywords {
			norm[j] = domain.NormalizeText(kw)
		}
		matchers[i] = Matcher{LinkID: l.ID, Keywords: l.Keywords, Normalized: norm}
	}

	return &Snapshot{
		Links:    cloneLinks(links),
		Alarm:    alarm,
		Matchers: matchers,
	}
}

func cloneLinks(links []domain.LinkConfig) []domain.LinkConfig {
	out := make([]domain.LinkConfig, len(links))
	for i, l := range links {
		out[i] = l.Clone()
	}
	return out
}
