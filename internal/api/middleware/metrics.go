package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lunafield/cortex-api/internal/platform/metrics"
)

// Metrics counts completed requests by method, route pattern, and status.
// The chi route pattern is used instead of the raw path so per-user URLs do
// not explode label cardinality.
func Metrics(manager *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}

			manager.HTTPRequests.WithLabelValues(
				r.Method,
				pattern,
				strconv.Itoa(ww.Status()),
			).Inc()
		})
	}
}
