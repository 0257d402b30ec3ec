package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/combo/internal/errors"
)

// Drill is one displayed combination in the practice log.
type Drill struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Distance    string `json:"distance"`
	Defense     string `json:"defense"`
	Faint       string `json:"faint"`
	Body        string `json:"body"`
	Action      string `json:"action"`
	Step        int    `json:"step"`
	CreatedAt   int64  `json:"created_at"`
}

// DescriptionCount is how often a description was drilled.
type DescriptionCount struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
	LastAt      int64  `json:"last_at"`
}

// InsertDrill appends a row to the practice log.
func InsertDrill(ctx context.Context, db *sql.DB, d *Drill) error {
	query := `
		INSERT INTO drills (
			id, description, distance, defense, faint, body, action, step, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		d.ID, d.Description, d.Distance, d.Defense, d.Faint, d.Body,
		d.Action, d.Step, d.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListRecent returns drills newest first, plus the total row count.
func ListRecent(ctx context.Context, db *sql.DB, limit, offset int) ([]Drill, int, error) {
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM drills").Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, description, distance, defense, faint, body, action, step, created_at
		FROM drills
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var drills []Drill
	for rows.Next() {
		var d Drill
		if err := rows.Scan(
			&d.ID, &d.Description, &d.Distance, &d.Defense, &d.Faint, &d.Body,
			&d.Action, &d.Step, &d.CreatedAt,
		); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		drills = append(drills, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return drills, total, nil
}

// TopDescriptions returns the most drilled descriptions.
func TopDescriptions(ctx context.Context, db *sql.DB, limit int) ([]DescriptionCount, error) {
	query := `
		SELECT description, COUNT(*) AS n, MAX(created_at)
		FROM drills
		GROUP BY description
		ORDER BY n DESC, description ASC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var counts []DescriptionCount
	for rows.Next() {
		var c DescriptionCount
		if err := rows.Scan(&c.Description, &c.Count, &c.LastAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return counts, nil
}

// PurgeBefore deletes drills created before the given Unix timestamp.
// Returns the number of rows removed.
func PurgeBefore(ctx context.Context, db *sql.DB, before int64) (int, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM drills WHERE created_at < ?", before)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}
