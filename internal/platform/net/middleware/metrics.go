package middleware

import (
	"net/http"
	"strconv"
	"time"

	"tomotrip/internal/platform/metrics"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Metrics counts requests and observes latency per route pattern
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := routeOf(r)
			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
			metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
