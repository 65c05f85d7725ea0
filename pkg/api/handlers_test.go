package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/allocator"
	"github.com/jakechorley/shift-roster/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testShifts = "Date\tDay of the Week\tMidday or Night Shift\tShift Start Time\tShift End Time\tHours\n" +
		"2024-01-01\tMonday\tMidday\t11:00 AM\t3:00 PM\t4\n"
	testAvailability = "Name\tMonday Availability\n" +
		"A\tMidday\n" +
		"B\tBoth\n" +
		"C\tNight\n"
)

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func newTestRouter(t *testing.T) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	h := NewHandler(allocator.DefaultStaffingPolicy(), metrics.NewPrometheus(reg, ""), zap.NewNop())
	return NewRouter(h, reg), reg
}

func post(r *gin.Engine, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestScheduleJSON(t *testing.T) {
	r, _ := newTestRouter(t)

	w := post(r, "/v1/schedules", jsonBody(ScheduleRequest{
		ShiftsTSV:       testShifts,
		AvailabilityTSV: testAvailability,
		Stable:          true,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "stable", resp.Seed)
	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Assignments, 3)
	assert.Equal(t, "A", resp.Assignments[0].EmployeeName)
	assert.Equal(t, "B", resp.Assignments[1].EmployeeName)
	assert.Equal(t, "C", resp.Assignments[2].EmployeeName, "shortage fallback")
	assert.Equal(t, map[string]float64{"A": 4, "B": 4, "C": 4}, resp.Hours)
	assert.Empty(t, resp.ValidationErrors)
}

func TestScheduleJSON_UsesAssignmentColumnNames(t *testing.T) {
	r, _ := newTestRouter(t)

	w := post(r, "/v1/schedules", jsonBody(ScheduleRequest{
		ShiftsTSV:       testShifts,
		AvailabilityTSV: testAvailability,
		Seed:            "abc",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var raw struct {
		Seed        string                   `json:"seed"`
		Assignments []map[string]interface{} `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "abc", raw.Seed)
	require.NotEmpty(t, raw.Assignments)
	assert.Contains(t, raw.Assignments[0], "Employee Name")
	assert.Contains(t, raw.Assignments[0], "Midday or Night Shift")
}

func TestScheduleJSON_ReportsUnderstaffing(t *testing.T) {
	r, _ := newTestRouter(t)

	w := post(r, "/v1/schedules", jsonBody(ScheduleRequest{
		ShiftsTSV:       testShifts,
		AvailabilityTSV: "Name\tMonday Availability\nA\tMidday\n",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.Len(t, resp.ValidationErrors, 1)
	assert.Equal(t, allocator.CriterionStaffingMinimum, resp.ValidationErrors[0].Criterion)
	assert.Equal(t, "Midday", resp.ValidationErrors[0].ShiftType)
}

func TestScheduleJSON_BadRequests(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name     string
		body     io.Reader
		contains string
	}{
		{"invalid json", strings.NewReader("not json"), ""},
		{"missing availability", jsonBody(map[string]string{"shiftsTsv": testShifts}), "AvailabilityTSV"},
		{"missing shift column", jsonBody(ScheduleRequest{
			ShiftsTSV:       "Date\tDay of the Week\n2024-01-01\tMonday\n",
			AvailabilityTSV: testAvailability,
		}), "missing required column"},
		{"missing name column", jsonBody(ScheduleRequest{
			ShiftsTSV:       testShifts,
			AvailabilityTSV: "Monday Availability\nBoth\n",
		}), "Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, "/v1/schedules", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestScheduleTSV(t *testing.T) {
	r, _ := newTestRouter(t)

	w := post(r, "/v1/schedules/tsv", jsonBody(ScheduleRequest{
		ShiftsTSV:       testShifts,
		AvailabilityTSV: testAvailability,
		Stable:          true,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, tsvContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "stable", w.Header().Get(HeaderSeed))
	assert.Equal(t, "true", w.Header().Get(HeaderSuccess))
	assert.NotEmpty(t, w.Header().Get(HeaderRunID))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date\tDay of the Week\tMidday or Night Shift\tShift Start Time\tShift End Time\tEmployee Name\tHours", lines[0])
	assert.Equal(t, "2024-01-01\tMonday\tMidday\t11:00 AM\t3:00 PM\tA\t4", lines[1])
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := post(r, "/v1/schedules", jsonBody(ScheduleRequest{
		ShiftsTSV:       testShifts,
		AvailabilityTSV: testAvailability,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `roster_scheduler_runs_total{result="success"} 1`)
	assert.Contains(t, w.Body.String(), `roster_scheduler_assignments_total{source="fallback"} 1`)
}

func TestNewRouter_WithoutGatherer(t *testing.T) {
	r := NewRouter(NewHandler(allocator.DefaultStaffingPolicy(), nil, nil), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
