package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/model"
	"github.com/jakechorley/shift-roster/pkg/db"
)

// ErrRunNotFound is returned when a run id does not match a stored run
var ErrRunNotFound = errors.New("run not found")

// EmployeeHours is one employee's total across a run
type EmployeeHours struct {
	Name   string
	Hours  float64
	Shifts int
}

// RunDetail is a stored run together with its assignments
type RunDetail struct {
	Run     db.Run
	Records []model.AssignmentRecord
	Hours   []EmployeeHours // sorted by name
}

// ListRuns returns every stored run, newest first
func ListRuns(ctx context.Context, reader db.RunReader, logger *zap.Logger) ([]db.Run, error) {
	runs, err := reader.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	// Created is RFC3339 UTC so text order is time order
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Created > runs[j].Created
	})

	logger.Debug("Fetched runs", zap.Int("count", len(runs)))
	return runs, nil
}

// ViewRun loads a run and its assignments. An empty runID selects the latest run.
func ViewRun(ctx context.Context, reader db.RunReader, logger *zap.Logger, runID string) (*RunDetail, error) {
	runs, err := ListRuns(ctx, reader, logger)
	if err != nil {
		return nil, err
	}

	run, err := selectRun(runs, runID)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loading assignments", zap.String("run_id", run.ID))
	assignments, err := reader.GetAssignments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	records := make([]model.AssignmentRecord, len(assignments))
	for i, a := range assignments {
		records[i] = a.Record()
	}

	return &RunDetail{
		Run:     run,
		Records: records,
		Hours:   totalHours(records),
	}, nil
}

func selectRun(runs []db.Run, runID string) (db.Run, error) {
	if runID == "" {
		if len(runs) == 0 {
			return db.Run{}, fmt.Errorf("%w: no runs stored", ErrRunNotFound)
		}
		return runs[0], nil
	}

	for _, r := range runs {
		if r.ID == runID {
			return r, nil
		}
	}
	return db.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
}

func totalHours(records []model.AssignmentRecord) []EmployeeHours {
	byName := make(map[string]*EmployeeHours)
	for _, r := range records {
		h, ok := byName[r.EmployeeName]
		if !ok {
			h = &EmployeeHours{Name: r.EmployeeName}
			byName[r.EmployeeName] = h
		}
		h.Hours += r.Hours
		h.Shifts++
	}

	totals := make([]EmployeeHours, 0, len(byName))
	for _, h := range byName {
		totals = append(totals, *h)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Name < totals[j].Name
	})
	return totals
}
