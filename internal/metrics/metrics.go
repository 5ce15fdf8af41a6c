// Package metrics holds the Prometheus collectors for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	GeocodeLookupsTotal *prometheus.CounterVec
	GeocodeCacheHits    *prometheus.CounterVec
	GeocodeDuration     prometheus.Histogram

	SessionsActive prometheus.Gauge
	SearchesTotal  *prometheus.CounterVec
}

// New creates and registers all collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		GeocodeLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocode_lookups_total",
				Help: "Total number of upstream geocoder lookups by outcome",
			},
			[]string{"outcome"},
		),

		GeocodeCacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocode_cache_total",
				Help: "Geocoder cache hits vs misses",
			},
			[]string{"result"},
		),

		GeocodeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geocode_request_duration_seconds",
				Help:    "Upstream geocoder request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessions_active",
				Help: "Number of live UI sessions",
			},
		),

		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searches_total",
				Help: "Total number of postcode searches by outcome",
			},
			[]string{"outcome"},
		),
	}
}
