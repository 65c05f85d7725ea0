package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/allocator"
	"github.com/jakechorley/shift-roster/pkg/core/model"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/db"
	"github.com/jakechorley/shift-roster/pkg/metrics"
)

// StableSeed is the seed label stored for runs that keep ties in roster order
const StableSeed = "stable"

// ScheduleOptions controls a single scheduling run
type ScheduleOptions struct {
	// Seed is hashed into the tie-break PRNG seed. A random label is drawn when empty.
	Seed string

	// Stable keeps tied employees in roster order instead of shuffling them
	Stable bool

	// DryRun skips persistence
	DryRun bool
}

// ScheduleResult is the outcome of a scheduling run
type ScheduleResult struct {
	RunID     string
	Seed      string
	Outcome   *allocator.AllocationOutcome
	Records   []model.AssignmentRecord
	Ledger    map[string]float64
	Persisted bool
}

// ResolveSeed returns the seed label to report and the tie-breaker it selects.
// Running again with the returned label reproduces the run.
func ResolveSeed(opts ScheduleOptions) (string, allocator.TieBreaker) {
	if opts.Stable {
		return StableSeed, allocator.StableTieBreaker{}
	}

	label := opts.Seed
	if label == "" {
		label = fmt.Sprintf("%016x", allocator.RandomSeed())
	}
	return label, allocator.NewRandomTieBreaker(allocator.SeedFromString(label))
}

// ScheduleRoster reads the input tables, staffs every shift and stores the run.
//
// Missing columns abort the run before the engine starts. Understaffed shifts
// and unknown shift types do not fail the run; they are reported on the
// outcome. When the store rejects the run the result is still returned
// alongside the error.
func ScheduleRoster(
	ctx context.Context,
	source TableSource,
	store db.RunStore,
	collector metrics.Collector,
	policy allocator.StaffingPolicy,
	logger *zap.Logger,
	opts ScheduleOptions,
) (*ScheduleResult, error) {
	started := time.Now()

	logger.Debug("Reading shifts table")
	shiftsTable, err := source.ReadShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read shifts table: %w", err)
	}

	logger.Debug("Reading availability table")
	availabilityTable, err := source.ReadAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read availability table: %w", err)
	}

	shifts, err := roster.BuildShifts(shiftsTable)
	if err != nil {
		return nil, err
	}

	employees, err := roster.BuildEmployees(availabilityTable)
	if err != nil {
		return nil, err
	}

	seed, tieBreaker := ResolveSeed(opts)

	logger.Info("Allocating shifts",
		zap.Int("shift_count", len(shifts)),
		zap.Int("employee_count", len(employees)),
		zap.String("seed", seed))

	outcome, err := allocator.Allocate(allocator.AllocationConfig{
		Employees:  employees,
		Shifts:     shifts,
		Policy:     policy,
		TieBreaker: tieBreaker,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate shifts: %w", err)
	}

	logValidationErrors(logger, outcome.ValidationErrors)

	result := &ScheduleResult{
		RunID:   uuid.New().String(),
		Seed:    seed,
		Outcome: outcome,
		Records: outcome.Records(),
		Ledger:  outcome.State.Ledger(),
	}

	if collector != nil {
		collector.RecordRun(runStats(outcome, time.Since(started)))
	}

	logger.Info("Allocation complete",
		zap.String("run_id", result.RunID),
		zap.Bool("success", outcome.Success),
		zap.Int("assignment_count", len(result.Records)),
		zap.Int("validation_errors", len(outcome.ValidationErrors)))

	if opts.DryRun || store == nil {
		logger.Info("Skipping persistence", zap.Bool("dry_run", opts.DryRun))
		return result, nil
	}

	if err := persistRun(ctx, store, result); err != nil {
		return result, fmt.Errorf("failed to persist run: %w", err)
	}
	result.Persisted = true

	logger.Info("Run persisted", zap.String("run_id", result.RunID))

	return result, nil
}

func persistRun(ctx context.Context, store db.RunStore, result *ScheduleResult) error {
	run := &db.Run{
		ID:                result.RunID,
		Created:           time.Now().UTC().Format(time.RFC3339),
		Seed:              result.Seed,
		ShiftCount:        len(result.Outcome.State.Shifts),
		AssignmentCount:   len(result.Records),
		UnderstaffedCount: countCriterion(result.Outcome.ValidationErrors, allocator.CriterionStaffingMinimum),
		Success:           result.Outcome.Success,
	}

	if err := store.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(result.Records) == 0 {
		return nil
	}

	if err := store.InsertAssignments(ctx, db.NewAssignments(run.ID, result.Records)); err != nil {
		return fmt.Errorf("failed to insert assignments: %w", err)
	}
	return nil
}

func runStats(outcome *allocator.AllocationOutcome, elapsed time.Duration) metrics.RunStats {
	stats := metrics.RunStats{
		Duration:           elapsed,
		Success:            outcome.Success,
		Shifts:             len(outcome.State.Shifts),
		Assignments:        len(outcome.Records()),
		UnderstaffedByType: map[string]int{},
	}

	for _, so := range outcome.State.ShiftOutcomes {
		stats.FallbackAssignments += len(so.Fallback)
	}

	for _, ve := range outcome.ValidationErrors {
		switch ve.CriterionName {
		case allocator.CriterionStaffingMinimum:
			stats.UnderstaffedByType[ve.ShiftType]++
		case allocator.CriterionKnownShiftType:
			stats.UnknownShiftTypes++
		}
	}

	return stats
}

func logValidationErrors(logger *zap.Logger, errs []allocator.ShiftValidationError) {
	for _, ve := range errs {
		logger.Warn("Shift failed validation",
			zap.String("criterion", ve.CriterionName),
			zap.String("date", ve.ShiftDate),
			zap.String("shift_type", ve.ShiftType),
			zap.String("description", ve.Description))
	}
}

func countCriterion(errs []allocator.ShiftValidationError, criterion string) int {
	count := 0
	for _, ve := range errs {
		if ve.CriterionName == criterion {
			count++
		}
	}
	return count
}
