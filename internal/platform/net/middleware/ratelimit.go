package middleware

import (
	"net"
	"net/http"
	"sync"

	perr "tomotrip/internal/platform/errors"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/metrics"
	pnet "tomotrip/internal/platform/net"
	phttp "tomotrip/internal/platform/net/http"

	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client address
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter allows rps requests per second per client with the given burst
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{rate: rate.Limit(rps), burst: burst}
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	if v, ok := l.limiters.Load(ip); ok {
		return v.(*rate.Limiter)
	}
	v, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return v.(*rate.Limiter)
}

// Allow reports whether one more request from ip fits in its bucket
func (l *IPRateLimiter) Allow(ip string) bool { return l.limiter(ip).Allow() }

// RateLimit rejects requests over the per client budget with a 429 envelope
// place after RealIP so RemoteAddr is the upstream client
func RateLimit(l *IPRateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil || l.rate <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !l.Allow(ip) {
				metrics.RateLimited.Inc()
				logger.C(r.Context()).Debug().Str("ip", ip).Msg("rate limited")
				w.Header().Set("Retry-After", "1")
				phttp.Reply(w, pnet.Failure(perr.TooManyRequestsf("rate limit exceeded"), pnet.RequestID(r.Context())))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
