package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/combo/internal/combination"
	"github.com/hpungsan/combo/internal/db"
	"github.com/hpungsan/combo/internal/errors"
)

// Event describes a combination shown after an action.
type Event struct {
	Action      string
	Step        int
	Combination combination.Combination
}

// Recorder receives an Event each time the trainer shows a combination.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// HistoryRecorder writes events to the practice log.
type HistoryRecorder struct {
	db  *sql.DB
	now func() time.Time
}

// NewHistoryRecorder creates a recorder backed by database.
func NewHistoryRecorder(database *sql.DB) *HistoryRecorder {
	return &HistoryRecorder{db: database, now: time.Now}
}

// Record implements Recorder.
func (r *HistoryRecorder) Record(ctx context.Context, e Event) error {
	now := r.now()
	id, err := generateULID(now)
	if err != nil {
		return errors.NewInternal(err)
	}
	return db.InsertDrill(ctx, r.db, &db.Drill{
		ID:          id,
		Description: e.Combination.Description,
		Distance:    string(e.Combination.Distance),
		Defense:     string(e.Combination.Defense),
		Faint:       string(e.Combination.Faint),
		Body:        string(e.Combination.Body),
		Action:      e.Action,
		Step:        e.Step,
		CreatedAt:   now.Unix(),
	})
}

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Limit  int // default: 20, max: 200
	Offset int
	Top    bool // group by description instead of listing rows
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Items      []db.Drill            `json:"items,omitempty"`
	Top        []db.DescriptionCount `json:"top,omitempty"`
	Pagination Pagination            `json:"pagination"`
}

// History lists the practice log, newest first, or the most drilled
// descriptions when Top is set.
func History(ctx context.Context, database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	limit := clampLimit(input.Limit, DefaultHistoryLimit, MaxHistoryLimit)
	offset := max(input.Offset, 0)

	if input.Top {
		top, err := db.TopDescriptions(ctx, database, limit)
		if err != nil {
			return nil, err
		}
		if top == nil {
			top = []db.DescriptionCount{}
		}
		return &HistoryOutput{
			Top:        top,
			Pagination: Pagination{Limit: limit, Total: len(top)},
		}, nil
	}

	drills, total, err := db.ListRecent(ctx, database, limit, offset)
	if err != nil {
		return nil, err
	}
	if drills == nil {
		drills = []db.Drill{}
	}

	return &HistoryOutput{
		Items: drills,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(drills) < total,
			Total:   total,
		},
	}, nil
}

// generateULID generates a new ULID for t.
func generateULID(t time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// formatCount pluralizes "drill".
func formatCount(n int) string {
	if n == 1 {
		return "1 drill"
	}
	return fmt.Sprintf("%d drills", n)
}
