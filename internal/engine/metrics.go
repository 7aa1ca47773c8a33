package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sagerec",
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Total number of engine invocations by result",
		},
		[]string{"type", "operation", "result"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sagerec",
			Subsystem: "engine",
			Name:      "operation_duration_seconds",
			Help:      "Duration of a single engine invocation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"type", "operation"},
	)

	stabilizationPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sagerec",
			Subsystem: "engine",
			Name:      "stabilization_polls_total",
			Help:      "Total number of stabilization polls by resulting state",
		},
		[]string{"type", "operation", "state"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sagerec",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Total number of classified errors by kind",
		},
		[]string{"type", "kind"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		operationsTotal,
		operationDuration,
		stabilizationPolls,
		errorsTotal,
	)
}

func recordOperationMetric(typeName, operation, result string, seconds float64) {
	operationsTotal.WithLabelValues(typeName, operation, result).Inc()
	operationDuration.WithLabelValues(typeName, operation).Observe(seconds)
}

func recordPollMetric(typeName, operation, state string) {
	stabilizationPolls.WithLabelValues(typeName, operation, state).Inc()
}

func recordErrorMetric(typeName, kind string) {
	errorsTotal.WithLabelValues(typeName, kind).Inc()
}

// Metrics helper methods that check enableMetrics before recording.

func (e *Engine[M]) recordOperation(operation, result string, seconds float64) {
	if e.enableMetrics {
		recordOperationMetric(e.adapter.TypeName, operation, result, seconds)
	}
}

func (e *Engine[M]) recordPoll(operation, state string) {
	if e.enableMetrics {
		recordPollMetric(e.adapter.TypeName, operation, state)
	}
}

func (e *Engine[M]) recordError(kind string) {
	if e.enableMetrics {
		recordErrorMetric(e.adapter.TypeName, kind)
	}
}
