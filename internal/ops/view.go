package ops

import (
	"github.com/hpungsan/combo/internal/combination"
	"github.com/hpungsan/combo/internal/session"
)

// Item is one row of the working set.
type Item struct {
	Index   int  `json:"index"`
	Current bool `json:"current,omitempty"`
	combination.Combination
}

// View is a snapshot of the trainer for rendering.
type View struct {
	Number      string                   `json:"number"`
	Step        int                      `json:"step"`
	Cursor      int                      `json:"cursor"`
	Description string                   `json:"description"`
	URL         string                   `json:"url,omitempty"`
	Size        int                      `json:"size"`
	Total       int                      `json:"total"`
	Selections  session.Selections       `json:"selections"`
	Counts      session.Counts           `json:"counts"`
	Items       []Item                   `json:"items,omitempty"`
	Current     *combination.Combination `json:"current,omitempty"`
}

// Empty reports whether nothing matches the current selections.
func (v *View) Empty() bool { return v.Size == 0 }

// snapshot builds a View from s.
func snapshot(s *session.Session) *View {
	v := &View{
		Number:      s.Number(),
		Step:        s.Step(),
		Cursor:      s.Cursor(),
		Description: s.Description(),
		Size:        s.Len(),
		Total:       s.Total(),
		Selections:  s.Selections(),
		Counts:      s.Counts(),
	}
	if c, ok := s.Current(); ok {
		cur := *c
		v.Current = &cur
		v.URL = c.Link()
	}

	working := s.Working()
	v.Items = make([]Item, len(working))
	for i, c := range working {
		v.Items[i] = Item{Index: i, Current: i == v.Cursor && v.Current != nil, Combination: *c}
	}
	return v
}

// WithoutItems returns a copy of v with the item list dropped.
func (v *View) WithoutItems() *View {
	cp := *v
	cp.Items = nil
	return &cp
}
