package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/allocator"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/db"
	"github.com/jakechorley/shift-roster/pkg/metrics"
)

const shiftsHeader = "Date\tDay of the Week\tMidday or Night Shift\tShift Start Time\tShift End Time\tHours\n"

// mockRunStore implements db.RunStore and db.RunReader for testing
type mockRunStore struct {
	runs                []db.Run
	assignments         []db.Assignment
	insertRunErr        error
	insertAssignmentErr error
	getRunsErr          error
	getAssignmentsErr   error
}

func (m *mockRunStore) InsertRun(ctx context.Context, run *db.Run) error {
	if m.insertRunErr != nil {
		return m.insertRunErr
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockRunStore) InsertAssignments(ctx context.Context, assignments []db.Assignment) error {
	if m.insertAssignmentErr != nil {
		return m.insertAssignmentErr
	}
	m.assignments = append(m.assignments, assignments...)
	return nil
}

func (m *mockRunStore) GetRuns(ctx context.Context) ([]db.Run, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	return append([]db.Run(nil), m.runs...), nil
}

func (m *mockRunStore) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	if m.getAssignmentsErr != nil {
		return nil, m.getAssignmentsErr
	}
	var out []db.Assignment
	for _, a := range m.assignments {
		if a.RunID == runID {
			out = append(out, a)
		}
	}
	return out, nil
}

// mockCollector records every RunStats it receives
type mockCollector struct {
	runs []metrics.RunStats
}

func (m *mockCollector) RecordRun(stats metrics.RunStats) {
	m.runs = append(m.runs, stats)
}

func mustTable(t *testing.T, tsv string) *roster.Table {
	t.Helper()
	table, err := roster.ParseDelimited(strings.NewReader(tsv), '\t')
	require.NoError(t, err)
	return table
}

func shortageSource(t *testing.T) *StaticTableSource {
	return &StaticTableSource{
		Shifts: mustTable(t, shiftsHeader+
			"2024-01-01\tMonday\tMidday\t11:00 AM\t3:00 PM\t4\n"),
		Availability: mustTable(t, "Name\tMonday Availability\n"+
			"A\tMidday\n"+
			"B\tBoth\n"+
			"C\t\n"),
	}
}

func TestScheduleRoster_FallbackAndPersist(t *testing.T) {
	store := &mockRunStore{}
	collector := &mockCollector{}

	result, err := ScheduleRoster(context.Background(), shortageSource(t), store, collector,
		allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{Stable: true})
	require.NoError(t, err)

	assert.True(t, result.Outcome.Success)
	assert.True(t, result.Persisted)
	assert.Equal(t, StableSeed, result.Seed)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "A", result.Records[0].EmployeeName)
	assert.Equal(t, "B", result.Records[1].EmployeeName)
	assert.Equal(t, "C", result.Records[2].EmployeeName)
	assert.Equal(t, map[string]float64{"A": 4, "B": 4, "C": 4}, result.Ledger)

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, StableSeed, run.Seed)
	assert.Equal(t, 1, run.ShiftCount)
	assert.Equal(t, 3, run.AssignmentCount)
	assert.Equal(t, 0, run.UnderstaffedCount)
	assert.True(t, run.Success)
	assert.NotEmpty(t, run.Created)

	require.Len(t, store.assignments, 3)
	for i, a := range store.assignments {
		assert.Equal(t, result.RunID, a.RunID)
		assert.Equal(t, i, a.Position)
	}

	require.Len(t, collector.runs, 1)
	stats := collector.runs[0]
	assert.True(t, stats.Success)
	assert.Equal(t, 1, stats.Shifts)
	assert.Equal(t, 3, stats.Assignments)
	assert.Equal(t, 1, stats.FallbackAssignments)
	assert.Empty(t, stats.UnderstaffedByType)
}

func TestScheduleRoster_UnderstaffedAndUnknownType(t *testing.T) {
	source := &StaticTableSource{
		Shifts: mustTable(t, shiftsHeader+
			"2024-01-01\tMonday\tmidday\t11:00 AM\t3:00 PM\t4\n"+
			"2024-01-01\tMonday\tEvening\t5:00 PM\t9:00 PM\t4\n"),
		Availability: mustTable(t, "Name\tMonday Availability\n"+
			"A\tBoth\n"+
			"B\tBoth\n"),
	}
	store := &mockRunStore{}
	collector := &mockCollector{}

	result, err := ScheduleRoster(context.Background(), source, store, collector,
		allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{Seed: "week-1"})
	require.NoError(t, err, "understaffing is reported, not returned")

	assert.False(t, result.Outcome.Success)
	require.Len(t, result.Outcome.ValidationErrors, 2)
	assert.Len(t, result.Records, 2, "unknown shift types get nobody")

	require.Len(t, store.runs, 1)
	assert.Equal(t, 1, store.runs[0].UnderstaffedCount)
	assert.False(t, store.runs[0].Success)
	assert.Equal(t, "week-1", store.runs[0].Seed)

	require.Len(t, collector.runs, 1)
	assert.Equal(t, map[string]int{"Midday": 1}, collector.runs[0].UnderstaffedByType)
	assert.Equal(t, 1, collector.runs[0].UnknownShiftTypes)
}

func TestScheduleRoster_DryRunSkipsStore(t *testing.T) {
	store := &mockRunStore{}

	result, err := ScheduleRoster(context.Background(), shortageSource(t), store, metrics.NewNop(),
		allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{DryRun: true})
	require.NoError(t, err)

	assert.False(t, result.Persisted)
	assert.Len(t, result.Records, 3)
	assert.Empty(t, store.runs)
	assert.Empty(t, store.assignments)
}

func TestScheduleRoster_NilStoreAndCollector(t *testing.T) {
	result, err := ScheduleRoster(context.Background(), shortageSource(t), nil, nil,
		allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{})
	require.NoError(t, err)
	assert.False(t, result.Persisted)
	assert.Len(t, result.Seed, 16)
}

func TestScheduleRoster_PersistFailureKeepsResult(t *testing.T) {
	store := &mockRunStore{insertAssignmentErr: errors.New("quota exceeded")}

	result, err := ScheduleRoster(context.Background(), shortageSource(t), store, nil,
		allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{Stable: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist run")
	assert.Contains(t, err.Error(), "quota exceeded")

	require.NotNil(t, result)
	assert.False(t, result.Persisted)
	assert.Len(t, result.Records, 3)
}

func TestScheduleRoster_MissingColumnStopsBeforeEngine(t *testing.T) {
	source := &StaticTableSource{
		Shifts:       mustTable(t, "Date\tDay of the Week\tMidday or Night Shift\n2024-01-01\tMonday\tMidday\n"),
		Availability: mustTable(t, "Name\nA\n"),
	}
	store := &mockRunStore{}
	collector := &mockCollector{}

	result, err := ScheduleRoster(context.Background(), source, store, collector,
		allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrMissingColumn)
	assert.Contains(t, err.Error(), "Hours")
	assert.Nil(t, result)
	assert.Empty(t, store.runs)
	assert.Empty(t, collector.runs)
}

func TestScheduleRoster_MissingNameColumn(t *testing.T) {
	source := &StaticTableSource{
		Shifts:       mustTable(t, shiftsHeader),
		Availability: mustTable(t, "Employee\tMonday Availability\nA\tBoth\n"),
	}

	_, err := ScheduleRoster(context.Background(), source, nil, nil,
		allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{})
	assert.ErrorIs(t, err, roster.ErrMissingColumn)
}

func TestScheduleRoster_SourceError(t *testing.T) {
	_, err := ScheduleRoster(context.Background(), &StaticTableSource{}, nil, nil,
		allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read shifts table")
}

func TestScheduleRoster_SeedReproducesRun(t *testing.T) {
	var availability strings.Builder
	availability.WriteString("Name\tMonday Availability\tTuesday Availability\n")
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		availability.WriteString(name + "\tBoth\tBoth\n")
	}
	source := &StaticTableSource{
		Shifts: mustTable(t, shiftsHeader+
			"2024-01-01\tMonday\tMidday\t11:00 AM\t3:00 PM\t4\n"+
			"2024-01-02\tTuesday\tMidday\t11:00 AM\t3:00 PM\t4\n"),
		Availability: mustTable(t, availability.String()),
	}

	run := func() []string {
		result, err := ScheduleRoster(context.Background(), source, nil, nil,
			allocator.DefaultStaffingPolicy(), zap.NewNop(), ScheduleOptions{Seed: "week-12"})
		require.NoError(t, err)
		names := make([]string, len(result.Records))
		for i, r := range result.Records {
			names[i] = r.EmployeeName
		}
		return names
	}

	first := run()
	assert.Len(t, first, 10)
	assert.Equal(t, first, run())
}

func TestResolveSeed(t *testing.T) {
	label, tb := ResolveSeed(ScheduleOptions{Stable: true, Seed: "ignored"})
	assert.Equal(t, StableSeed, label)
	assert.IsType(t, allocator.StableTieBreaker{}, tb)

	label, tb = ResolveSeed(ScheduleOptions{Seed: "week-12"})
	assert.Equal(t, "week-12", label)
	assert.IsType(t, &allocator.RandomTieBreaker{}, tb)

	label, _ = ResolveSeed(ScheduleOptions{})
	assert.Len(t, label, 16)
}
