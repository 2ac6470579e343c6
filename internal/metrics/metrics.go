// Package metrics holds the prometheus collectors for capture, upload and the
// receiving endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storyline"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	acquisitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "acquisitions_total",
			Help:      "Media acquisitions by origin, kind and outcome.",
		},
		[]string{"origin", "kind", "outcome"},
	)

	uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "attempts_total",
			Help:      "Story upload attempts by outcome.",
		},
		[]string{"outcome"},
	)

	uploadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "duration_seconds",
			Help:      "Duration of story uploads.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"outcome"},
	)

	uploadsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "inflight",
			Help:      "Uploads currently in flight.",
		},
	)

	overlaysPerStory = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "overlays",
			Help:      "Number of overlays carried by successful uploads.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	storiesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "endpoint",
			Name:      "stories_received_total",
			Help:      "Stories accepted by the receiving endpoint.",
		},
		[]string{"content_type", "requires_composition"},
	)
)

func init() {
	Registry.MustRegister(
		acquisitions,
		uploads,
		uploadDuration,
		uploadsInFlight,
		overlaysPerStory,
		httpRequests,
		httpDuration,
		storiesReceived,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordAcquisition counts one acquisition attempt.
func RecordAcquisition(origin, kind, outcome string) {
	if origin == "" {
		origin = "unknown"
	}
	if kind == "" {
		kind = "unknown"
	}
	acquisitions.WithLabelValues(origin, kind, outcome).Inc()
}

// UploadStarted marks an upload in flight and returns the func that records
// its outcome.
func UploadStarted() func(outcome string, overlays int) {
	start := time.Now()
	uploadsInFlight.Inc()
	return func(outcome string, overlays int) {
		uploadsInFlight.Dec()
		uploads.WithLabelValues(outcome).Inc()
		uploadDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		if outcome == "success" {
			overlaysPerStory.Observe(float64(overlays))
		}
	}
}

// RecordUploadRejected counts an upload refused before any transfer.
func RecordUploadRejected(reason string) {
	uploads.WithLabelValues(reason).Inc()
}

// RecordStoryReceived counts a story accepted by the receiving endpoint.
func RecordStoryReceived(contentType string, requiresComposition bool) {
	storiesReceived.WithLabelValues(contentType, strconv.FormatBool(requiresComposition)).Inc()
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// canonicalPath keeps label cardinality bounded: only the first two path
// segments are kept.
func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "/" + strings.Join(parts, "/")
}
