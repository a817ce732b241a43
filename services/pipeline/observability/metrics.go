// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the pipeline
// validation service.
//
// # Description
//
// Metrics cover the /pipelines/parse endpoint:
//   - Request counters (by status, error code, verdict)
//   - Validation latency histogram
//   - Graph size histograms (declared nodes, submitted edges)
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "aleutian"

// Subsystem for pipeline validation metrics
const pipelineSubsystem = "pipeline"

// ValidationMetrics holds all Prometheus metrics for pipeline validation.
//
// # Description
//
// Provides counters and histograms for monitoring validation throughput,
// failure modes, and submitted graph sizes. Initialize once at startup
// via InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type ValidationMetrics struct {
	// RequestsTotal counts parse requests by outcome status.
	// Labels: status (success, invalid, error)
	RequestsTotal *prometheus.CounterVec

	// VerdictsTotal counts completed validations by DAG verdict.
	// Labels: verdict (dag, cyclic)
	VerdictsTotal *prometheus.CounterVec

	// ErrorsTotal counts rejected requests by error code.
	// Labels: error_code (bind, invalid_graph, too_large, internal)
	ErrorsTotal *prometheus.CounterVec

	// ValidationDurationSeconds measures time spent in graph validation.
	ValidationDurationSeconds prometheus.Histogram

	// GraphNodes measures the declared node count per submission.
	GraphNodes prometheus.Histogram

	// GraphEdges measures the edge count per submission.
	GraphEdges prometheus.Histogram
}

// DefaultMetrics is the singleton instance of ValidationMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *ValidationMetrics

var initOnce sync.Once

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics on the default registry.
// Safe to call more than once; registration happens on the first call
// only, so tests that construct multiple services do not trip duplicate
// registration panics.
//
// # Outputs
//
//   - *ValidationMetrics: The initialized metrics instance.
func InitMetrics() *ValidationMetrics {
	initOnce.Do(func() {
		DefaultMetrics = newMetrics(nil)
	})
	return DefaultMetrics
}

// newMetrics builds the metric set. A nil registerer uses the default
// Prometheus registry via promauto; tests pass their own registry.
func newMetrics(reg prometheus.Registerer) *ValidationMetrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}

	return &ValidationMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "requests_total",
				Help:      "Total number of parse requests by outcome status",
			},
			[]string{"status"},
		),

		VerdictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "verdicts_total",
				Help:      "Total completed validations by DAG verdict",
			},
			[]string{"verdict"},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "errors_total",
				Help:      "Total rejected parse requests by error code",
			},
			[]string{"error_code"},
		),

		ValidationDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "validation_duration_seconds",
				Help:      "Time spent validating one pipeline graph",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		GraphNodes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "graph_nodes",
				Help:      "Declared node count per submitted pipeline",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		GraphEdges: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "graph_edges",
				Help:      "Edge count per submitted pipeline",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
}

// =============================================================================
// Error Codes
// =============================================================================

// ErrorCode represents a categorized rejection cause for metrics.
type ErrorCode string

const (
	// ErrorCodeBind indicates the request body failed JSON binding.
	ErrorCodeBind ErrorCode = "bind"

	// ErrorCodeInvalidGraph indicates a structurally malformed description.
	ErrorCodeInvalidGraph ErrorCode = "invalid_graph"

	// ErrorCodeTooLarge indicates the submission exceeded size limits.
	ErrorCodeTooLarge ErrorCode = "too_large"

	// ErrorCodeInternal indicates an unforeseen internal failure.
	ErrorCodeInternal ErrorCode = "internal"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed parse request.
func (m *ValidationMetrics) RecordRequest(status string) {
	m.RequestsTotal.WithLabelValues(status).Inc()
}

// RecordVerdict records a successful validation's DAG verdict.
func (m *ValidationMetrics) RecordVerdict(isDAG bool) {
	verdict := "dag"
	if !isDAG {
		verdict = "cyclic"
	}
	m.VerdictsTotal.WithLabelValues(verdict).Inc()
}

// RecordError records a rejected request.
func (m *ValidationMetrics) RecordError(code ErrorCode) {
	m.ErrorsTotal.WithLabelValues(string(code)).Inc()
}

// ObserveValidation records validation latency and graph size.
func (m *ValidationMetrics) ObserveValidation(seconds float64, nodes, edges int) {
	m.ValidationDurationSeconds.Observe(seconds)
	m.GraphNodes.Observe(float64(nodes))
	m.GraphEdges.Observe(float64(edges))
}
