package db

import "context"

// RunStore persists the result of a scheduling run
type RunStore interface {
	InsertRun(ctx context.Context, run *Run) error
	InsertAssignments(ctx context.Context, assignments []Assignment) error
}

// RunReader reads back stored runs
type RunReader interface {
	GetRuns(ctx context.Context) ([]Run, error)
	GetAssignments(ctx context.Context, runID string) ([]Assignment, error)
}

// Database defines the interface for all database operations.
// Both the SheetsSQL-backed db.DB and postgres.DB implement this interface.
type Database interface {
	RunStore
	RunReader
}
