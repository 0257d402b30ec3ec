package session

import (
	"fmt"
	"strings"

	"github.com/hpungsan/combo/internal/combination"
)

// DistanceSelection constrains the distance facet.
type DistanceSelection string

const (
	DistanceAll   DistanceSelection = "all"
	DistanceLong  DistanceSelection = "long"
	DistanceShort DistanceSelection = "short"
)

// Selection constrains a yes/no facet.
type Selection string

const (
	All Selection = "all"
	Yes Selection = "yes"
	No  Selection = "no"
)

// Selections holds the current constraint for every facet.
type Selections struct {
	Distance DistanceSelection `json:"distance"`
	Defence  Selection         `json:"defence"`
	Faint    Selection         `json:"faint"`
	Body     Selection         `json:"body"`
}

// AllSelections imposes no constraint.
func AllSelections() Selections {
	return Selections{Distance: DistanceAll, Defence: All, Faint: All, Body: All}
}

// Match reports whether c passes every facet. A record is excluded only
// when the opposing value was selected.
func (s Selections) Match(c combination.Combination) bool {
	return matchDistance(s.Distance, c.Distance) &&
		matchYesNo(s.Defence, c.Defense) &&
		matchYesNo(s.Faint, c.Faint) &&
		matchYesNo(s.Body, c.Body)
}

func matchDistance(sel DistanceSelection, d combination.Distance) bool {
	switch d {
	case combination.Long:
		return sel != DistanceShort
	case combination.Short:
		return sel != DistanceLong
	}
	return false
}

func matchYesNo(sel Selection, v combination.YesNo) bool {
	switch v {
	case combination.Yes:
		return sel != No
	case combination.No:
		return sel != Yes
	}
	return false
}

// Filter returns the indices of records matching sel, in record order.
func Filter(records []combination.Combination, sel Selections) []int {
	result := make([]int, 0, len(records))
	for i, c := range records {
		if sel.Match(c) {
			result = append(result, i)
		}
	}
	return result
}

// ParseDistanceSelection accepts all, long or short in any case.
// An empty string means all.
func ParseDistanceSelection(s string) (DistanceSelection, error) {
	switch v := DistanceSelection(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return DistanceAll, nil
	case DistanceAll, DistanceLong, DistanceShort:
		return v, nil
	}
	return "", fmt.Errorf("distance must be one of: all, long, short (got %q)", s)
}

// ParseSelection accepts all, yes or no in any case. An empty string means all.
func ParseSelection(facet, s string) (Selection, error) {
	switch v := Selection(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return All, nil
	case All, Yes, No:
		return v, nil
	}
	return "", fmt.Errorf("%s must be one of: all, yes, no (got %q)", facet, s)
}
