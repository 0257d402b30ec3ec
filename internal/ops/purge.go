package ops

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hpungsan/combo/internal/db"
	"github.com/hpungsan/combo/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	OlderThanDays int // required, >= 0; 0 removes everything recorded so far
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// Purge deletes practice log rows older than the given number of days.
func Purge(ctx context.Context, database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	return purgeAt(ctx, database, input, time.Now())
}

func purgeAt(ctx context.Context, database *sql.DB, input PurgeInput, now time.Time) (*PurgeOutput, error) {
	if input.OlderThanDays < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must be non-negative")
	}

	cutoff := now.Add(-time.Duration(input.OlderThanDays) * 24 * time.Hour).Unix()
	if input.OlderThanDays == 0 {
		cutoff = now.Unix() + 1
	}

	count, err := db.PurgeBefore(ctx, database, cutoff)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{
		Purged:  count,
		Message: formatPurgeMessage(count, input.OlderThanDays),
	}, nil
}

// formatPurgeMessage creates a human-readable message for the purge result.
func formatPurgeMessage(count, olderThanDays int) string {
	if count == 0 {
		return "No drills to purge"
	}
	msg := "Deleted " + formatCount(count)
	if olderThanDays > 0 {
		msg += fmt.Sprintf(" (older than %d days)", olderThanDays)
	}
	return msg
}
