package middleware

import (
	"net/http"
	"runtime/debug"

	perr "tomotrip/internal/platform/errors"
	"tomotrip/internal/platform/logger"
	pnet "tomotrip/internal/platform/net"
	phttp "tomotrip/internal/platform/net/http"
)

// RecoverJSON turns a handler panic into the standard 500 envelope and logs the stack.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			phttp.Reply(w, pnet.Failure(perr.PanicErrf("internal error"), pnet.RequestID(r.Context())))
		}()
		next.ServeHTTP(w, r)
	})
}
