package net

import (
	"net/http"

	perr "tomotrip/internal/platform/errors"
)

// Wire is the envelope every response body is wrapped in, success or failure
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Success wraps data under status
func Success(status int, data any, reqID string) Wire {
	return Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// Failure maps err onto its status and stable code. Foreign errors become 500s
// carrying their text, so handlers should classify anything a client may see.
func Failure(err error, reqID string) Wire {
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}
