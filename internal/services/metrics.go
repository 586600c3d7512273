package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Upload gateway metrics
	Uploads       *prometheus.CounterVec
	UploadDeletes *prometheus.CounterVec

	// Render pipeline metrics
	Renders        prometheus.Counter
	RenderDuration prometheus.Histogram
	RenderCacheHit *prometheus.CounterVec
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		// Uploads by outcome: accepted, rejected, failed
		Uploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atelier_uploads_total",
			Help: "Total number of upload attempts by outcome",
		}, []string{"outcome"}),

		UploadDeletes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atelier_upload_deletes_total",
			Help: "Total number of upload deletions by outcome",
		}, []string{"outcome"}),

		Renders: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_renders_total",
			Help: "Total number of render pipeline runs",
		}),

		RenderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "atelier_render_duration_seconds",
			Help:    "Render pipeline latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}),

		RenderCacheHit: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atelier_render_cache_total",
			Help: "Render cache lookups by result",
		}, []string{"result"}), // "hit" or "miss"
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance, which may be nil when
// metrics are not initialized (tests).
func GetMetrics() *Metrics {
	return globalMetrics
}
