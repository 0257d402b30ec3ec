// Package combination parses the combinations data file into immutable records.
package combination

import "strings"

// Distance is the range a combination is thrown from.
type Distance string

const (
	Short Distance = "short"
	Long  Distance = "long"
)

// YesNo is a two-valued facet (defense, faint, body).
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

// Combination is one named move sequence. Values are never mutated after
// load; the full set and every filtered view share the same records.
type Combination struct {
	Description string   `json:"description"`
	Distance    Distance `json:"distance"`
	Defense     YesNo    `json:"defense"`
	Faint       YesNo    `json:"faint"`
	Body        YesNo    `json:"body"`

	// URL is an optional reference link (nil when the field is empty)
	URL *string `json:"url,omitempty"`
}

// Link returns the URL or "" when absent.
func (c Combination) Link() string {
	if c.URL == nil {
		return ""
	}
	return *c.URL
}

// ParseDistance matches "long" or "short" case-insensitively after trimming.
func ParseDistance(s string) (Distance, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(Long)):
		return Long, true
	case strings.EqualFold(s, string(Short)):
		return Short, true
	}
	return "", false
}

// ParseYesNo matches "yes" or "no" case-insensitively after trimming.
func ParseYesNo(s string) (YesNo, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(Yes)):
		return Yes, true
	case strings.EqualFold(s, string(No)):
		return No, true
	}
	return "", false
}
