// Package middleware holds the request middleware stack: chi's stock middlewares
// re-exported so modules never import chi, plus the in house ones
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

type Middleware = func(http.Handler) http.Handler

func RequestID() Middleware       { return chimw.RequestID }
func RealIP() Middleware          { return chimw.RealIP }
func NoCache() Middleware         { return chimw.NoCache }
func RedirectSlashes() Middleware { return chimw.RedirectSlashes }
func StripSlashes() Middleware    { return chimw.StripSlashes }

// Timeout cancels the request context after d; handlers must honor ctx
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// Heartbeat answers GET path with a bare 200 before routing, for load balancers
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// Compress gzips/deflates JSON responses at level
func Compress(level int) Middleware {
	return chimw.NewCompressor(level, "application/json").Handler
}

// CORS allows the listed origins to call the API from a browser.
// The search page only needs GET and POST with a JSON body.
func CORS(origins []string) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         600,
	})
}
