package ops

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hpungsan/combo/internal/errors"
	"github.com/hpungsan/combo/internal/logging"
	"github.com/hpungsan/combo/internal/session"
)

// Trainer serializes access to a Session for concurrent front ends.
type Trainer struct {
	mu       sync.Mutex
	sess     *session.Session
	recorder Recorder
}

// NewTrainer wraps sess. recorder may be nil.
func NewTrainer(sess *session.Session, recorder Recorder) *Trainer {
	return &Trainer{sess: sess, recorder: recorder}
}

// FilterInput contains parameters for the Filter operation.
// Nil fields keep the current selection.
type FilterInput struct {
	Distance *string
	Defence  *string
	Faint    *string
	Body     *string
}

// SelectInput contains parameters for the Select operation.
type SelectInput struct {
	Index int
}

// View returns the current state.
func (t *Trainer) View() *View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshot(t.sess)
}

// Next advances to the next combination.
func (t *Trainer) Next(ctx context.Context) *View {
	return t.navigate(ctx, ActionNext, (*session.Session).Advance)
}

// Previous goes back one combination.
func (t *Trainer) Previous(ctx context.Context) *View {
	return t.navigate(ctx, ActionPrevious, (*session.Session).Retreat)
}

// Reset returns to the first combination in file order.
func (t *Trainer) Reset(ctx context.Context) *View {
	return t.navigate(ctx, ActionReset, (*session.Session).ResetSequential)
}

// Shuffle returns to the first combination in a new random order.
func (t *Trainer) Shuffle(ctx context.Context) *View {
	return t.navigate(ctx, ActionShuffle, (*session.Session).ResetRandomized)
}

// Reload rereads the data file. On failure the previous state is kept and
// the load error is returned.
func (t *Trainer) Reload(ctx context.Context) (*View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.sess.Reload(); err != nil {
		logging.New("ops").Warn("reload failed, keeping previous data", "path", t.sess.Path(), "error", err)
		if errors.As(err) == nil {
			return nil, errors.NewInternal(err)
		}
		return nil, err
	}
	t.record(ctx, ActionReload)
	return snapshot(t.sess), nil
}

// Select jumps to an index of the working set.
func (t *Trainer) Select(ctx context.Context, input SelectInput) (*View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.sess.ValidIndex(input.Index) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf(
			"index %d out of range (working set has %d combinations)", input.Index, t.sess.Len()))
	}
	t.sess.JumpTo(input.Index)
	t.record(ctx, ActionSelect)
	return snapshot(t.sess), nil
}

// Filter updates the facet selections and refilters in file order.
func (t *Trainer) Filter(ctx context.Context, input FilterInput) (*View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sel, err := applyFilterInput(t.sess.Selections(), input)
	if err != nil {
		return nil, err
	}
	t.sess.ApplySelections(sel)
	return snapshot(t.sess), nil
}

// Do runs a named action (next, previous, reset, shuffle, reload).
func (t *Trainer) Do(ctx context.Context, action string) (*View, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionNext:
		return t.Next(ctx), nil
	case ActionPrevious, "prev":
		return t.Previous(ctx), nil
	case ActionReset:
		return t.Reset(ctx), nil
	case ActionShuffle:
		return t.Shuffle(ctx), nil
	case ActionReload:
		return t.Reload(ctx)
	}
	return nil, errors.NewNotFound(fmt.Sprintf("action %q", action))
}

func (t *Trainer) navigate(ctx context.Context, action string, fn func(*session.Session)) *View {
	t.mu.Lock()
	defer t.mu.Unlock()

	fn(t.sess)
	t.record(ctx, action)
	return snapshot(t.sess)
}

// record logs the displayed combination. History failures never fail the action.
func (t *Trainer) record(ctx context.Context, action string) {
	if t.recorder == nil {
		return
	}
	c, ok := t.sess.Current()
	if !ok {
		return
	}
	if err := t.recorder.Record(ctx, Event{Action: action, Step: t.sess.Step(), Combination: *c}); err != nil {
		logging.New("ops").Warn("failed to record drill", "action", action, "error", err)
	}
}

func applyFilterInput(sel session.Selections, input FilterInput) (session.Selections, error) {
	if input.Distance != nil {
		v, err := session.ParseDistanceSelection(*input.Distance)
		if err != nil {
			return sel, errors.NewInvalidRequest(err.Error())
		}
		sel.Distance = v
	}

	facets := []struct {
		name  string
		in    *string
		field *session.Selection
	}{
		{"defence", input.Defence, &sel.Defence},
		{"faint", input.Faint, &sel.Faint},
		{"body", input.Body, &sel.Body},
	}
	for _, f := range facets {
		if f.in == nil {
			continue
		}
		v, err := session.ParseSelection(f.name, *f.in)
		if err != nil {
			return sel, errors.NewInvalidRequest(err.Error())
		}
		*f.field = v
	}
	return sel, nil
}
