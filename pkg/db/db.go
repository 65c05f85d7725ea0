package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/jakechorley/shift-roster/pkg/sheetssql"
)

// DB provides database operations using SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// Schema returns the SheetsSQL schema for the stored models
func Schema() (*sheetssql.Schema, error) {
	return sheetssql.SchemaFromModels(Run{}, Assignment{})
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB) *DB {
	return &DB{
		ssql: ssql,
	}
}

// InsertRun inserts a new run record
func (db *DB) InsertRun(ctx context.Context, run *Run) error {
	if err := sheetssql.InsertModel(db.ssql, *run); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRuns retrieves all run records
func (db *DB) GetRuns(ctx context.Context) ([]Run, error) {
	runs, err := sheetssql.GetTableAs[Run](db.ssql, "run")
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	return runs, nil
}

// InsertAssignments inserts assignment records in one append
func (db *DB) InsertAssignments(ctx context.Context, assignments []Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	if err := sheetssql.InsertModels(db.ssql, assignments); err != nil {
		return fmt.Errorf("failed to insert assignments: %w", err)
	}
	return nil
}

// GetAssignments retrieves the assignments of one run in emission order
func (db *DB) GetAssignments(ctx context.Context, runID string) ([]Assignment, error) {
	all, err := sheetssql.GetTableAs[Assignment](db.ssql, "assignment")
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	var assignments []Assignment
	for _, a := range all {
		if a.RunID == runID {
			assignments = append(assignments, a)
		}
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].Position < assignments[j].Position
	})

	return assignments, nil
}
