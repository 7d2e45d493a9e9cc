// Package metrics provides Prometheus metrics for the chat-api service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveStreams tracks the number of in-flight response streams.
	ActiveStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_active_streams",
			Help: "Number of currently active response streams",
		},
	)

	// StreamsStarted tracks the total number of response streams opened.
	StreamsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_streams_started_total",
			Help: "Total number of response streams started",
		},
	)

	// StreamsFinished tracks terminal stream outcomes by kind.
	StreamsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_streams_finished_total",
			Help: "Total number of response streams finished, by outcome",
		},
		[]string{"outcome"},
	)

	// TokensEmitted tracks text fragments delivered to clients.
	TokensEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_tokens_emitted_total",
			Help: "Total number of completion tokens delivered to clients",
		},
	)

	// CheckpointsWritten tracks content checkpoints persisted to the store.
	CheckpointsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_checkpoints_written_total",
			Help: "Total number of message content checkpoints written",
		},
	)

	// TitleGenerations tracks title side-task outcomes.
	TitleGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_title_generations_total",
			Help: "Total number of title generation attempts, by outcome",
		},
		[]string{"outcome"},
	)

	// StreamDuration tracks end-to-end stream durations.
	StreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_stream_duration_seconds",
			Help:    "Duration of response streams from first to terminal event",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// HTTPRequests tracks request counts by method, endpoint and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestDuration tracks request latency by method and endpoint.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordStreamStarted increments stream start metrics.
func RecordStreamStarted() {
	StreamsStarted.Inc()
	ActiveStreams.Inc()
}

// RecordStreamFinished records a terminal stream outcome and its duration.
func RecordStreamFinished(outcome string, started time.Time) {
	StreamsFinished.WithLabelValues(outcome).Inc()
	ActiveStreams.Dec()
	StreamDuration.Observe(time.Since(started).Seconds())
}

// RecordTokenEmitted counts one fragment delivered to a client.
func RecordTokenEmitted() {
	TokensEmitted.Inc()
}

// RecordCheckpoint counts one persisted content checkpoint.
func RecordCheckpoint() {
	CheckpointsWritten.Inc()
}

// RecordTitleGeneration records a title side-task outcome.
func RecordTitleGeneration(outcome string) {
	TitleGenerations.WithLabelValues(outcome).Inc()
}

// RecordRequest records one completed HTTP request.
func RecordRequest(method, endpoint, status string, duration float64) {
	HTTPRequests.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}
