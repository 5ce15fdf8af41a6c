// Package server handles HTTP requests and middleware.
package server

import (
	"net/http"

	"github.com/kosatka-dev/postmap/assets"
	"github.com/kosatka-dev/postmap/internal/config"
	"github.com/kosatka-dev/postmap/internal/metrics"
	"github.com/kosatka-dev/postmap/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Sessions  *session.Manager
	Metrics   *metrics.Metrics
	IndexHTML []byte
	Favicon   []byte

	registry *prometheus.Registry
}

// NewServerContext initializes the handler context. The registry and metrics
// are shared with the geocode client so everything lands on one /metrics page.
func NewServerContext(cfg *config.Config, geocoder session.Geocoder, m *metrics.Metrics, registry *prometheus.Registry) *ServerContext {
	log.Info().
		Str("map_style", cfg.MapStyle).
		Str("geocoder", cfg.Geocoder.Endpoint).
		Msg("Initializing server context")

	return &ServerContext{
		Config:    cfg,
		Sessions:  session.NewManager(cfg, geocoder, m),
		Metrics:   m,
		IndexHTML: assets.Index,
		Favicon:   assets.Favicon,
		registry:  registry,
	}
}

// Router builds the full route table with middleware applied.
func (s *ServerContext) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/config", s.HandleConfig)
	mux.HandleFunc("POST /api/session", s.HandleSessionCreate)
	mux.HandleFunc("GET /api/session/{id}/events", s.HandleEvents)
	mux.HandleFunc("POST /api/session/{id}/loaded", s.HandleMapLoaded)
	mux.HandleFunc("POST /api/session/{id}/search", s.HandleSearch)
	mux.HandleFunc("POST /api/session/{id}/radius", s.HandleRadius)
	mux.HandleFunc("GET /healthz", s.HandleHealthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /favicon.svg", s.HandleFavicon)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(s.MetricsMiddleware(mux))
}
