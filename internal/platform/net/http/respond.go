// Package http is the transport seam modules mount against: a router interface with
// a chi adapter, return-style handlers that write the JSON envelope, and the server
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "tomotrip/internal/platform/net"
)

// Envelope is the body of every API response
type Envelope = pnet.Wire

// Status lets a handler answer with something other than 200 while keeping the envelope
type Status struct {
	Code int
	Data any
}

// WithStatus is the handler side constructor for Status
func WithStatus(code int, data any) Status { return Status{Code: code, Data: data} }

// Write encodes v as JSON under status
func Write(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Reply writes an envelope using its own status code
func Reply(w stdhttp.ResponseWriter, env Envelope) { Write(w, env.StatusCode, env) }

// Handle adapts a return-style handler. A non-nil error is mapped through perr,
// a Status result picks the code, anything else is 200 data.
func Handle(fn func(*stdhttp.Request) (any, error)) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		reqID := pnet.RequestID(r.Context())
		out, err := fn(r)
		if err != nil {
			Reply(w, pnet.Failure(err, reqID))
			return
		}
		if st, ok := out.(Status); ok {
			Reply(w, pnet.Success(st.Code, st.Data, reqID))
			return
		}
		Reply(w, pnet.Success(stdhttp.StatusOK, out, reqID))
	}
}
