package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intake-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Conversations
	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
	)

	// Turn outcomes per stage and action
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "turns_total",
			Help:      "Total conversation turns processed",
		},
		[]string{"stage", "action"},
	)

	// Analyzer attempts per backend and model
	AnalyzerAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "analyzer_attempts_total",
			Help:      "Total analyzer model attempts",
		},
		[]string{"backend", "model", "status"},
	)

	AnalyzerDegradedResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "analyzer_degraded_results_total",
			Help:      "Analyzer responses that failed structured parsing",
		},
	)

	// Analyzer duration
	AnalyzerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "analyzer_duration_seconds",
			Help:      "Analyzer call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"backend", "model"},
	)

	// Doctor directory searches
	DoctorSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "doctor_searches_total",
			Help:      "Total doctor directory searches",
		},
		[]string{"status"},
	)

	// Retention sweeps
	RetentionSweepDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medifind",
			Subsystem: "intake_api",
			Name:      "retention_sweep_deleted_total",
			Help:      "Anonymous conversations removed by retention sweeps",
		},
	)
)

// NormalizeEndpoint collapses path parameters so metrics cardinality stays
// bounded.
func NormalizeEndpoint(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, "conv_") {
			parts[i] = ":conversation_id"
		} else if strings.HasPrefix(part, "msg_") {
			parts[i] = ":message_id"
		} else if strings.HasPrefix(part, "doc_") {
			parts[i] = ":doctor_id"
		}
	}
	return strings.Join(parts, "/")
}
