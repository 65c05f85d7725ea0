package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
// Metrics are registered lazily on first use.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	shifts        prometheus.Counter
	assignments   *prometheus.CounterVec
	understaffed  *prometheus.CounterVec
	unknownShifts prometheus.Counter
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil registerer uses
// prometheus.DefaultRegisterer and an empty namespace defaults to "roster".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "roster"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Scheduling runs by result (success, understaffed).",
		}, []string{"result"})

		p.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the assignment engine per run.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8), // 0.5ms .. ~8s
		})

		p.shifts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "shifts_total",
			Help:      "Shifts processed.",
		})

		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "assignments_total",
			Help:      "Assignments made, by source (available, fallback).",
		}, []string{"source"})

		p.understaffed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "understaffed_shifts_total",
			Help:      "Shifts left below their minimum headcount, by shift type.",
		}, []string{"shift_type"})

		p.unknownShifts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "unknown_shift_types_total",
			Help:      "Shifts skipped because their type has no staffing policy.",
		})

		p.reg.MustRegister(p.runs, p.runDuration, p.shifts, p.assignments, p.understaffed, p.unknownShifts)
	})
}

// RecordRun records the counters and duration of one run
func (p *PrometheusCollector) RecordRun(stats RunStats) {
	p.ensureRegistered()

	result := "success"
	if !stats.Success {
		result = "understaffed"
	}
	p.runs.WithLabelValues(result).Inc()
	p.runDuration.Observe(stats.Duration.Seconds())
	p.shifts.Add(float64(stats.Shifts))

	p.assignments.WithLabelValues("available").Add(float64(stats.Assignments - stats.FallbackAssignments))
	p.assignments.WithLabelValues("fallback").Add(float64(stats.FallbackAssignments))

	for shiftType, n := range stats.UnderstaffedByType {
		p.understaffed.WithLabelValues(shiftType).Add(float64(n))
	}
	p.unknownShifts.Add(float64(stats.UnknownShiftTypes))
}
