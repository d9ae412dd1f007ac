package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the segmentation service
type Metrics struct {
	// Scoring metrics
	FramesScored prometheus.Counter

	// Segmentation metrics
	SegmentsEmitted prometheus.Counter
	SegmentDuration prometheus.Histogram

	// Chunk packing metrics
	ChunksPacked     prometheus.Counter
	ChunkDuration    prometheus.Histogram
	SegmentsPerChunk prometheus.Histogram

	// Pipeline metrics
	PipelineRuns     prometheus.Counter
	PipelineErrors   prometheus.Counter
	PipelineDuration prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		FramesScored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vadseg_frames_scored_total",
			Help: "Total number of score frames processed",
		}),

		SegmentsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vadseg_segments_emitted_total",
			Help: "Total number of speech segments emitted",
		}),
		SegmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vadseg_segment_duration_seconds",
			Help:    "Duration of emitted speech segments",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 0.25s to ~2 minutes
		}),

		ChunksPacked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vadseg_chunks_packed_total",
			Help: "Total number of chunks packed",
		}),
		ChunkDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vadseg_chunk_duration_seconds",
			Help:    "Duration of packed chunks",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s to ~2 minutes
		}),
		SegmentsPerChunk: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vadseg_segments_per_chunk",
			Help:    "Number of segments packed into each chunk",
			Buckets: prometheus.LinearBuckets(1, 2, 10), // 1 to 19
		}),

		PipelineRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vadseg_pipeline_runs_total",
			Help: "Total number of pipeline invocations",
		}),
		PipelineErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vadseg_pipeline_errors_total",
			Help: "Total number of failed pipeline invocations",
		}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vadseg_pipeline_duration_seconds",
			Help:    "Wall-clock duration of pipeline invocations",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vadseg_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vadseg_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vadseg_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordFramesScored adds to the scored frames counter
func (m *Metrics) RecordFramesScored(frames int) {
	m.FramesScored.Add(float64(frames))
}

// RecordSegment records an emitted speech segment
func (m *Metrics) RecordSegment(durationSeconds float64) {
	m.SegmentsEmitted.Inc()
	m.SegmentDuration.Observe(durationSeconds)
}

// RecordChunk records a packed chunk
func (m *Metrics) RecordChunk(durationSeconds float64, numSegments int) {
	m.ChunksPacked.Inc()
	m.ChunkDuration.Observe(durationSeconds)
	m.SegmentsPerChunk.Observe(float64(numSegments))
}

// RecordPipelineRun records a pipeline invocation and its outcome
func (m *Metrics) RecordPipelineRun(durationSeconds float64, err error) {
	m.PipelineRuns.Inc()
	m.PipelineDuration.Observe(durationSeconds)
	if err != nil {
		m.PipelineErrors.Inc()
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
