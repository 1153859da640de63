package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"tomotrip/internal/platform/net/middleware"
)

// StackOptions tune CommonStack; the zero value suits local development
type StackOptions struct {
	// CORSOrigins may call the API from a browser; empty allows no cross origin calls
	CORSOrigins []string
	// Limiter throttles per client address, nil disables it
	Limiter *middleware.IPRateLimiter
	// SlowRequest logs slower requests at warn
	SlowRequest time.Duration
	// Timeout caps a request, 30s when zero
	Timeout time.Duration
}

// CommonStack is the middleware every versioned API scope runs, outermost first
func CommonStack(opts ...StackOptions) []func(http.Handler) http.Handler {
	var o StackOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest, Skip: []string{"/health"}}),
		middleware.Metrics(),
		middleware.RecoverJSON,
		middleware.Heartbeat("/health"),
		middleware.CORS(o.CORSOrigins),
		middleware.RateLimit(o.Limiter),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
