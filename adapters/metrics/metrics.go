// Package metrics provides Prometheus metrics collection for Showroom.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for Showroom.
type Collector struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Tracking metrics
	PageViewsRecorded    prometheus.Counter
	ProductViewsRecorded *prometheus.CounterVec
	BotsFiltered         prometheus.Counter
	ExcludedHits         prometheus.Counter
	SessionsCreated      prometheus.Counter
	TrackingErrors       *prometheus.CounterVec
}

// New creates a new metrics collector with all metrics registered on the
// default registry.
func New() *Collector {
	return NewWithRegistry(nil)
}

// NewWithRegistry creates a collector registered on reg. A nil registry
// uses the default one. Tests pass their own registry so repeated
// construction does not panic on duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "showroom",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "showroom",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		PageViewsRecorded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "showroom",
				Name:      "page_views_recorded_total",
				Help:      "Page views persisted by the tracking engine",
			},
		),
		ProductViewsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "showroom",
				Name:      "product_views_recorded_total",
				Help:      "Product views persisted, by view type",
			},
			[]string{"view_type"},
		),
		BotsFiltered: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "showroom",
				Name:      "bots_filtered_total",
				Help:      "Page views suppressed by bot classification",
			},
		),
		ExcludedHits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "showroom",
				Name:      "excluded_hits_total",
				Help:      "Page views suppressed by the excluded-path policy",
			},
		),
		SessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "showroom",
				Name:      "visitor_sessions_created_total",
				Help:      "New anonymous visitor sessions minted",
			},
		),
		TrackingErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "showroom",
				Name:      "tracking_errors_total",
				Help:      "Tracking writes that failed and were swallowed",
			},
			[]string{"operation"},
		),
	}
}

// ObserveRequest records one served request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (c *Collector) ObserveRequest(method, path string, status int, d time.Duration) {
	c.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
