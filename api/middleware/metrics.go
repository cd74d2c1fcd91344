package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dineline-app/dineline-backend/pkg/metrics"
)

// Metrics reports request counts, latency, and concurrency. Labels use the
// chi route pattern so ids do not explode cardinality.
func Metrics(h *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h == nil {
				next.ServeHTTP(w, r)
				return
			}

			done := h.TrackInFlight()
			defer done()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			path := r.URL.Path
			if ctx := chi.RouteContext(r.Context()); ctx != nil {
				if pattern := ctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			h.ObserveRequest(r.Method, path, rec.status, time.Since(start))
		})
	}
}
