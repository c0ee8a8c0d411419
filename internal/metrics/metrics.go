// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/iwvelando/finance-calculators/pkg/cashflow"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Calculations counts calculator invocations by outcome.
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincalc_calculations_total",
			Help: "Number of calculator invocations",
		},
		[]string{"calculator", "status"},
	)

	// CalculationErrors counts failed calculations by error class.
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincalc_calculation_errors_total",
			Help: "Number of failed calculations",
		},
		[]string{"calculator", "error_type"},
	)

	// CalculationDuration observes engine latency.
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fincalc_calculation_duration_seconds",
			Help:    "Time spent computing results",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"calculator"},
	)

	// CacheLookups counts result cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincalc_cache_lookups_total",
			Help: "Result cache lookups",
		},
		[]string{"calculator", "result"},
	)

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincalc_http_requests_total",
			Help: "HTTP API requests",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// ErrorType classifies err for the error_type label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, loans.ErrInvalidSchedule):
		return "invalid_schedule"
	case errors.Is(err, cashflow.ErrNoSolution):
		return "no_solution"
	}
	return "internal"
}

// ObserveCalculation records one calculator run that started at start.
func ObserveCalculation(calculator string, start time.Time, err error) {
	CalculationDuration.WithLabelValues(calculator).Observe(time.Since(start).Seconds())
	if err != nil {
		Calculations.WithLabelValues(calculator, "error").Inc()
		CalculationErrors.WithLabelValues(calculator, ErrorType(err)).Inc()
		return
	}
	Calculations.WithLabelValues(calculator, "success").Inc()
}

// ObserveCache records a cache lookup.
func ObserveCache(calculator string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(calculator, result).Inc()
}
