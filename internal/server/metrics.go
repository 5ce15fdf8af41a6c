package server

import (
	"net/http"
	"strconv"
	"time"
)

// MetricsMiddleware records request counts and latency per route pattern.
// Patterns keep label cardinality bounded despite session ids in paths.
func (s *ServerContext) MetricsMiddleware(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		mux.ServeHTTP(ww, r)

		_, endpoint := mux.Handler(r)
		if endpoint == "" {
			endpoint = "unmatched"
		}

		s.Metrics.HTTPRequestsTotal.
			WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.statusCode)).
			Inc()
		s.Metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, endpoint).
			Observe(time.Since(start).Seconds())
	})
}
