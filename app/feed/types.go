package feed

import (
	"sort"
	"time"
)

// Channel source labels. Every item carries the label of the channel it
// originated from; the transforms dispatch on it.
const (
	SourceSecurityBulletins  = "Security Bulletins"
	SourceArchitectureCenter = "Architecture Center"
	SourceCloudIncidents     = "Cloud Incidents"
	SourceEndOfSupport       = "End of Support"
)

// Item is the normalized record shape shared by all channels. Field names on
// the wire match the upstream feed API. Items are value records: transforms
// return fresh copies and never mutate their input.
type Item struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	ISODate        string   `json:"isoDate"`
	Content        string   `json:"content,omitempty"`
	ContentSnippet string   `json:"contentSnippet,omitempty"`
	Source         string   `json:"source"`
	Categories     []string `json:"categories,omitempty"`
	ServiceName    string   `json:"serviceName,omitempty"`
	Severity       string   `json:"severity,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
	Begin          string   `json:"begin,omitempty"`
}

// Active reports whether the item is marked active. A missing flag counts as
// inactive.
func (i Item) Active() bool {
	return i.IsActive != nil && *i.IsActive
}

// PublishedAt parses the item's ISO date. Items with unparsable dates sort
// last; the boolean reports whether parsing succeeded.
func (i Item) PublishedAt() (time.Time, bool) {
	return ParseISODate(i.ISODate)
}

// ParseISODate accepts full RFC 3339 timestamps and bare YYYY-MM-DD dates,
// which is what the upstream channels emit.
func ParseISODate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// SortByDateDesc orders items most recent first. Items without a parsable
// date sink to the end. The input slice is not modified.
func SortByDateDesc(items []Item) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		ta, oka := sorted[i].PublishedAt()
		tb, okb := sorted[j].PublishedAt()
		if oka != okb {
			return oka
		}
		return ta.After(tb)
	})

	return sorted
}

// dedupeCategories removes duplicate category values preserving first
// occurrence order. Empty values are dropped.
func dedupeCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	deduped := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		deduped = append(deduped, c)
	}
	if len(deduped) == 0 {
		return nil
	}
	return deduped
}
