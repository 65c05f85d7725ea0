package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/allocator"
	"github.com/jakechorley/shift-roster/pkg/core/model"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/core/services"
	"github.com/jakechorley/shift-roster/pkg/export"
	"github.com/jakechorley/shift-roster/pkg/metrics"
)

// Response headers set on the TSV endpoint
const (
	HeaderRunID   = "X-Roster-Run-Id"
	HeaderSeed    = "X-Roster-Seed"
	HeaderSuccess = "X-Roster-Success"
)

const tsvContentType = "text/tab-separated-values; charset=utf-8"

// ScheduleRequest carries both input tables as TSV text
type ScheduleRequest struct {
	ShiftsTSV       string `json:"shiftsTsv" binding:"required"`
	AvailabilityTSV string `json:"availabilityTsv" binding:"required"`
	Seed            string `json:"seed"`
	Stable          bool   `json:"stable"`
}

// ValidationError describes a shift that failed a roster check
type ValidationError struct {
	ShiftDate   string `json:"shiftDate"`
	ShiftType   string `json:"shiftType"`
	Criterion   string `json:"criterion"`
	Description string `json:"description"`
}

// ScheduleResponse is the JSON result of a scheduling run
type ScheduleResponse struct {
	RunID            string                   `json:"runId"`
	Seed             string                   `json:"seed"`
	Success          bool                     `json:"success"`
	Assignments      []model.AssignmentRecord `json:"assignments"`
	Hours            map[string]float64       `json:"hours"`
	ValidationErrors []ValidationError        `json:"validationErrors"`
}

// Handler serves scheduling requests. Runs made over HTTP are not persisted.
type Handler struct {
	Policy    allocator.StaffingPolicy
	Collector metrics.Collector
	Logger    *zap.Logger
}

// NewHandler creates a handler. A nil collector discards metrics.
func NewHandler(policy allocator.StaffingPolicy, collector metrics.Collector, logger *zap.Logger) *Handler {
	if collector == nil {
		collector = metrics.NewNop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Policy: policy, Collector: collector, Logger: logger}
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ScheduleJSON runs the engine and responds with JSON
func (h *Handler) ScheduleJSON(c *gin.Context) {
	result, ok := h.schedule(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ScheduleResponse{
		RunID:            result.RunID,
		Seed:             result.Seed,
		Success:          result.Outcome.Success,
		Assignments:      result.Records,
		Hours:            result.Ledger,
		ValidationErrors: validationErrors(result.Outcome.ValidationErrors),
	})
}

// ScheduleTSV runs the engine and responds with the schedule as TSV
func (h *Handler) ScheduleTSV(c *gin.Context) {
	result, ok := h.schedule(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTSV(&buf, result.Records); err != nil {
		h.Logger.Error("Failed to encode schedule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode schedule"})
		return
	}

	c.Header(HeaderRunID, result.RunID)
	c.Header(HeaderSeed, result.Seed)
	c.Header(HeaderSuccess, strconv.FormatBool(result.Outcome.Success))
	c.Data(http.StatusOK, tsvContentType, buf.Bytes())
}

// schedule binds the request and runs the engine. It writes the error
// response itself and reports false when the request cannot be served.
func (h *Handler) schedule(c *gin.Context) (*services.ScheduleResult, bool) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	shifts, err := roster.ParseDelimited(strings.NewReader(req.ShiftsTSV), '\t')
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shifts table: " + err.Error()})
		return nil, false
	}

	availability, err := roster.ParseDelimited(strings.NewReader(req.AvailabilityTSV), '\t')
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "availability table: " + err.Error()})
		return nil, false
	}

	source := &services.StaticTableSource{Shifts: shifts, Availability: availability}
	opts := services.ScheduleOptions{Seed: req.Seed, Stable: req.Stable, DryRun: true}

	result, err := services.ScheduleRoster(c.Request.Context(), source, nil, h.Collector, h.Policy, h.Logger, opts)
	if err != nil {
		if errors.Is(err, roster.ErrMissingColumn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		h.Logger.Error("Scheduling failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}

	return result, true
}

func validationErrors(errs []allocator.ShiftValidationError) []ValidationError {
	out := make([]ValidationError, len(errs))
	for i, ve := range errs {
		out[i] = ValidationError{
			ShiftDate:   ve.ShiftDate,
			ShiftType:   ve.ShiftType,
			Criterion:   ve.CriterionName,
			Description: ve.Description,
		}
	}
	return out
}
