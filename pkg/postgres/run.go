package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/shift-roster/pkg/db"
)

// InsertRun inserts a new run record
func (d *DB) InsertRun(ctx context.Context, run *db.Run) error {
	created, err := time.Parse(time.RFC3339, run.Created)
	if err != nil {
		return fmt.Errorf("invalid run created time %q: %w", run.Created, err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO run (id, created, seed, shift_count, assignment_count, understaffed_count, success)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, created.UTC(), run.Seed, run.ShiftCount, run.AssignmentCount, run.UnderstaffedCount, run.Success)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRuns retrieves all run records
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, created, seed, shift_count, assignment_count, understaffed_count, success
		FROM run
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		var r db.Run
		var created time.Time
		if err := rows.Scan(&r.ID, &created, &r.Seed, &r.ShiftCount, &r.AssignmentCount, &r.UnderstaffedCount, &r.Success); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Created = created.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
