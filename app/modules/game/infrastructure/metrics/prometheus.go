package gamemetrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics records game metrics into a Prometheus registry.
type PrometheusMetrics struct {
	operationAttempts *prometheus.CounterVec
	operationSuccess  *prometheus.CounterVec
	operationFailure  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	calculationDuration *prometheus.HistogramVec
	scoresRecorded      *prometheus.CounterVec
	standingsPublished  *prometheus.CounterVec

	handlerAttempts *prometheus.CounterVec
	handlerSuccess  *prometheus.CounterVec
	handlerFailure  *prometheus.CounterVec
	handlerDuration *prometheus.HistogramVec

	jobsEnqueued  *prometheus.CounterVec
	jobsCompleted *prometheus.CounterVec
}

// NewPrometheusMetrics registers the game collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) (*PrometheusMetrics, error) {
	if namespace == "" {
		namespace = "golf"
	}
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "game", Name: name, Help: help,
		}, labels)
	}
	histogram := func(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "game", Name: name, Help: help, Buckets: buckets,
		}, labels)
	}

	m := &PrometheusMetrics{
		operationAttempts: counter("operation_attempts_total", "Service operations started.", "operation", "service"),
		operationSuccess:  counter("operation_success_total", "Service operations that completed.", "operation", "service"),
		operationFailure:  counter("operation_failure_total", "Service operations that returned an error.", "operation", "service"),
		operationDuration: histogram("operation_duration_seconds", "Service operation latency.", prometheus.DefBuckets, "operation", "service"),

		calculationDuration: histogram("calculation_duration_seconds", "Standings calculation latency.",
			prometheus.ExponentialBuckets(0.00001, 4, 10), "format"),
		scoresRecorded:     counter("scores_recorded_total", "Hole scores written or cleared.", "format"),
		standingsPublished: counter("standings_published_total", "Standings updates published.", "format"),

		handlerAttempts: counter("handler_attempts_total", "Event handler invocations.", "handler"),
		handlerSuccess:  counter("handler_success_total", "Event handler successes.", "handler"),
		handlerFailure:  counter("handler_failure_total", "Event handler failures.", "handler"),
		handlerDuration: histogram("handler_duration_seconds", "Event handler latency.", prometheus.DefBuckets, "handler"),

		jobsEnqueued:  counter("jobs_enqueued_total", "Background jobs enqueued.", "kind"),
		jobsCompleted: counter("jobs_completed_total", "Background jobs finished.", "kind", "success"),
	}

	for _, c := range []prometheus.Collector{
		m.operationAttempts, m.operationSuccess, m.operationFailure, m.operationDuration,
		m.calculationDuration, m.scoresRecorded, m.standingsPublished,
		m.handlerAttempts, m.handlerSuccess, m.handlerFailure, m.handlerDuration,
		m.jobsEnqueued, m.jobsCompleted,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operationAttempts.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operationSuccess.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operationFailure.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordCalculationDuration(_ context.Context, format string, d time.Duration) {
	m.calculationDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordScoreRecorded(_ context.Context, format string) {
	m.scoresRecorded.WithLabelValues(format).Inc()
}

func (m *PrometheusMetrics) RecordStandingsPublished(_ context.Context, format string) {
	m.standingsPublished.WithLabelValues(format).Inc()
}

func (m *PrometheusMetrics) RecordHandlerAttempt(_ context.Context, handler string) {
	m.handlerAttempts.WithLabelValues(handler).Inc()
}

func (m *PrometheusMetrics) RecordHandlerSuccess(_ context.Context, handler string) {
	m.handlerSuccess.WithLabelValues(handler).Inc()
}

func (m *PrometheusMetrics) RecordHandlerFailure(_ context.Context, handler string) {
	m.handlerFailure.WithLabelValues(handler).Inc()
}

func (m *PrometheusMetrics) RecordHandlerDuration(_ context.Context, handler string, d time.Duration) {
	m.handlerDuration.WithLabelValues(handler).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordJobEnqueued(_ context.Context, kind string) {
	m.jobsEnqueued.WithLabelValues(kind).Inc()
}

func (m *PrometheusMetrics) RecordJobCompleted(_ context.Context, kind string, success bool) {
	m.jobsCompleted.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}
