// Package session holds the trainer state: the loaded records, the facet
// selections, the filtered working set and the cursor over it.
//
// A Session is not safe for concurrent use.
package session

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hpungsan/combo/internal/combination"
)

// NoData is shown when the working set is empty.
const NoData = "None"

// Loader reads the records at path.
type Loader interface {
	Load(path string) ([]combination.Combination, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) ([]combination.Combination, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) ([]combination.Combination, error) {
	return f(path)
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used to seed shuffles.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithSelections sets the initial selections (default: all).
func WithSelections(sel Selections) Option {
	return func(s *Session) { s.sel = sel }
}

// Session is the mutable trainer state.
type Session struct {
	loader Loader
	path   string
	now    func() time.Time

	// all is replaced wholesale on reload and never modified in place
	all     []combination.Combination
	working []int
	cursor  int
	step    int
	sel     Selections
}

// New loads path and returns a session with a randomized working set.
// The caller decides what to do when the load fails.
func New(loader Loader, path string, opts ...Option) (*Session, error) {
	records, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	s := NewFromRecords(records, opts...)
	s.loader = loader
	s.path = path
	return s, nil
}

// NewFromRecords builds a session over records that were loaded elsewhere.
// Reload fails on such a session unless it was created by New.
func NewFromRecords(records []combination.Combination, opts ...Option) *Session {
	s := &Session{
		all:  records,
		now:  time.Now,
		sel:  AllSelections(),
		step: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.working = Filter(s.all, s.sel)
	s.ResetRandomized()
	return s
}

// Path returns the data file the session was loaded from.
func (s *Session) Path() string { return s.path }

// ApplySelections recomputes the working set in record order and resets
// the cursor and step count.
func (s *Session) ApplySelections(sel Selections) {
	s.sel = sel
	s.ResetSequential()
}

// SetDistance changes the distance selection and refilters.
func (s *Session) SetDistance(v DistanceSelection) {
	sel := s.sel
	sel.Distance = v
	s.ApplySelections(sel)
}

// SetDefence changes the defence selection and refilters.
func (s *Session) SetDefence(v Selection) {
	sel := s.sel
	sel.Defence = v
	s.ApplySelections(sel)
}

// SetFaint changes the faint selection and refilters.
func (s *Session) SetFaint(v Selection) {
	sel := s.sel
	sel.Faint = v
	s.ApplySelections(sel)
}

// SetBody changes the body selection and refilters.
func (s *Session) SetBody(v Selection) {
	sel := s.sel
	sel.Body = v
	s.ApplySelections(sel)
}

// Advance moves to the next record, wrapping to the first.
func (s *Session) Advance() {
	if len(s.working) == 0 {
		return
	}
	s.step++
	s.cursor = (s.cursor + 1) % len(s.working)
}

// Retreat moves to the previous record, wrapping to the last.
// It counts as a step just like Advance.
func (s *Session) Retreat() {
	if len(s.working) == 0 {
		return
	}
	s.step++
	if s.cursor == 0 {
		s.cursor = len(s.working) - 1
	} else {
		s.cursor--
	}
}

// JumpTo selects index directly. The index is not checked; use ValidIndex.
func (s *Session) JumpTo(index int) {
	s.step++
	s.cursor = index
}

// ValidIndex reports whether index addresses the current working set.
func (s *Session) ValidIndex(index int) bool {
	return index >= 0 && index < len(s.working)
}

// ResetSequential returns to the first record in filtered, unshuffled order.
func (s *Session) ResetSequential() {
	s.cursor = 0
	s.step = 1
	s.working = Filter(s.all, s.sel)
}

// ResetRandomized returns to the first record and shuffles the working set.
// The seed comes from the clock, so runs are not reproducible.
func (s *Session) ResetRandomized() {
	s.cursor = 0
	s.step = 1
	seed := uint64(s.now().UnixNano())
	r := rand.New(rand.NewPCG(seed, seed>>1|1))
	r.Shuffle(len(s.working), func(i, j int) {
		s.working[i], s.working[j] = s.working[j], s.working[i]
	})
}

// Reload reads the data file again, reapplies the selections and shuffles.
// On failure the previous records and working set are kept.
func (s *Session) Reload() error {
	if s.loader == nil {
		return fmt.Errorf("session has no data file to reload")
	}
	records, err := s.loader.Load(s.path)
	if err != nil {
		return err
	}
	s.all = records
	s.working = Filter(s.all, s.sel)
	s.ResetRandomized()
	return nil
}

// Current returns the record under the cursor.
func (s *Session) Current() (*combination.Combination, bool) {
	if len(s.working) == 0 {
		return nil, false
	}
	return &s.all[s.working[s.cursor]], true
}

// Description returns the current record's description, or NoData.
func (s *Session) Description() string {
	c, ok := s.Current()
	if !ok {
		return NoData
	}
	return c.Description
}

// Number is the display form of the step count, e.g. "3.".
func (s *Session) Number() string {
	return fmt.Sprintf("%d.", s.step)
}

// Step returns the number of navigation actions since the last reset, plus one.
func (s *Session) Step() int { return s.step }

// Cursor returns the index of the current record in the working set.
func (s *Session) Cursor() int { return s.cursor }

// Len returns the size of the working set.
func (s *Session) Len() int { return len(s.working) }

// Total returns the number of loaded records.
func (s *Session) Total() int { return len(s.all) }

// Working returns the working set in display order. The records are shared
// with the session and must not be modified.
func (s *Session) Working() []*combination.Combination {
	result := make([]*combination.Combination, len(s.working))
	for i, idx := range s.working {
		result[i] = &s.all[idx]
	}
	return result
}

// All returns every loaded record in file order.
func (s *Session) All() []*combination.Combination {
	result := make([]*combination.Combination, len(s.all))
	for i := range s.all {
		result[i] = &s.all[i]
	}
	return result
}

// Selections returns the active facet selections.
func (s *Session) Selections() Selections { return s.sel }

func (s *Session) Distance() DistanceSelection { return s.sel.Distance }
func (s *Session) Defence() Selection          { return s.sel.Defence }
func (s *Session) Faint() Selection            { return s.sel.Faint }
func (s *Session) Body() Selection             { return s.sel.Body }

// Counts tallies facet values over every loaded record.
type Counts struct {
	Long    int `json:"long"`
	Short   int `json:"short"`
	Defense int `json:"defense"`
	Faint   int `json:"faint"`
	Body    int `json:"body"`
}

// Counts returns facet tallies over the full record set.
func (s *Session) Counts() Counts {
	var c Counts
	for _, r := range s.all {
		if r.Distance == combination.Long {
			c.Long++
		} else {
			c.Short++
		}
		if r.Defense == combination.Yes {
			c.Defense++
		}
		if r.Faint == combination.Yes {
			c.Faint++
		}
		if r.Body == combination.Yes {
			c.Body++
		}
	}
	return c
}
