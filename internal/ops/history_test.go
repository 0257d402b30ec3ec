package ops

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/combo/internal/combination"
	"github.com/hpungsan/combo/internal/db"
	"github.com/hpungsan/combo/internal/errors"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestHistoryRecorder_Record(t *testing.T) {
	database := setupDB(t)
	rec := NewHistoryRecorder(database)
	rec.now = func() time.Time { return time.Unix(1700000000, 0) }

	err := rec.Record(context.Background(), Event{
		Action: ActionNext,
		Step:   3,
		Combination: combination.Combination{
			Description: "1-2",
			Distance:    combination.Short,
			Defense:     combination.No,
			Faint:       combination.Yes,
			Body:        combination.No,
		},
	})
	require.NoError(t, err)

	out, err := History(context.Background(), database, HistoryInput{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	d := out.Items[0]
	_, err = ulid.Parse(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "1-2", d.Description)
	assert.Equal(t, "short", d.Distance)
	assert.Equal(t, "yes", d.Faint)
	assert.Equal(t, ActionNext, d.Action)
	assert.Equal(t, 3, d.Step)
	assert.Equal(t, int64(1700000000), d.CreatedAt)
}

func TestHistory_WithTrainer(t *testing.T) {
	database := setupDB(t)
	tr, _, _ := setupTrainer(t)
	tr.recorder = NewHistoryRecorder(database)
	ctx := context.Background()

	tr.Next(ctx)
	tr.Next(ctx)
	tr.Previous(ctx)
	_, err := tr.Select(ctx, SelectInput{Index: 1})
	require.NoError(t, err)

	out, err := History(ctx, database, HistoryInput{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 4, out.Pagination.Total)
	assert.True(t, out.Pagination.HasMore)

	top, err := History(ctx, database, HistoryInput{Top: true})
	require.NoError(t, err)
	require.NotEmpty(t, top.Top)
	assert.Equal(t, "1-1-2", top.Top[0].Description)
	assert.Equal(t, 3, top.Top[0].Count)
}

func TestHistory_Empty(t *testing.T) {
	database := setupDB(t)

	out, err := History(context.Background(), database, HistoryInput{Limit: 1000, Offset: -3})
	require.NoError(t, err)
	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
	assert.Equal(t, MaxHistoryLimit, out.Pagination.Limit)
	assert.Equal(t, 0, out.Pagination.Offset)
	assert.False(t, out.Pagination.HasMore)
}

func TestPurge(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	day := int64(24 * 60 * 60)
	require.NoError(t, db.InsertDrill(ctx, database, &db.Drill{ID: "a", Description: "old", Distance: "long", Defense: "no", Faint: "no", Body: "no", Action: "next", Step: 1, CreatedAt: now.Unix() - 10*day}))
	require.NoError(t, db.InsertDrill(ctx, database, &db.Drill{ID: "b", Description: "new", Distance: "long", Defense: "no", Faint: "no", Body: "no", Action: "next", Step: 1, CreatedAt: now.Unix() - day}))

	out, err := purgeAt(ctx, database, PurgeInput{OlderThanDays: 7}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Purged)
	assert.Equal(t, "Deleted 1 drill (older than 7 days)", out.Message)

	out, err = purgeAt(ctx, database, PurgeInput{OlderThanDays: 7}, now)
	require.NoError(t, err)
	assert.Equal(t, "No drills to purge", out.Message)

	out, err = purgeAt(ctx, database, PurgeInput{}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Purged)
	assert.Equal(t, "Deleted 1 drill", out.Message)

	_, err = Purge(ctx, database, PurgeInput{OlderThanDays: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
