package configstore

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// diffLinks summarizes a link list replacement for the audit log, e.g.
// "links 2 -> 3; added [5]; removed [1]; changed [2]".
func diffLinks(prev, next []domain.LinkConfig) string {
	before := make(map[int][]string, len(prev))
	for _, l := range prev {
		before[l.ID] = l.Keywords
	}
	after := make(map[int][]string, len(next))
	for _, l := range next {
		after[l.ID] = l.Keywords
	}

	var added, removed, changed []int
	for _, l := range next {
		old, ok := before[l.ID]
		switch {
		case !ok:
			added = append(added, l.ID)
		case !slices.Equal(old, l.Keywords):
			changed = append(changed, l.ID)
		}
	}
	for _, l := range prev {
		if _, ok := after[l.ID]; !ok {
			removed = append(removed, l.ID)
		}
	}

	parts := []string{fmt.Sprintf("links %d -> %d", len(prev), len(next))}
	if len(added) > 0 {
		parts = append(parts, "added "+idList(added))
	}
	if len(removed) > 0 {
		parts = append(parts, "removed "+idList(removed))
	}
	if len(changed) > 0 {
		parts = append(parts, "changed "+idList(changed))
	}
	if len(added)+len(removed)+len(changed) == 0 && !sameOrder(prev, next) {
		parts = append(parts, "reordered")
	}
	return strings.Join(parts, "; ")
}

// diffAlarm lists changed alarm fields, or "no changes".
func diffAlarm(prev, next domain.AlarmConfig) string {
	var parts []string
	if prev.NoRecognitionThreshold != next.NoRecognitionThreshold {
		parts = append(parts, fmt.Sprintf("no_recognition_threshold %d -> %d", prev.NoRecognitionThreshold, next.NoRecognitionThreshold))
	}
	if prev.EmailNotification != next.EmailNotification {
		parts = append(parts, fmt.Sprintf("email_notification %t -> %t", prev.EmailNotification, next.EmailNotification))
	}
	if prev.EmailAddress != next.EmailAddress {
		parts = append(parts, fmt.Sprintf("email_address %q -> %q", prev.EmailAddress, next.EmailAddress))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, "; ")
}

func idList(ids []int) string {
	slices.Sort(ids)
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(s, ",") + "]"
}

func sameOrder(a, b []domain.LinkConfig) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
