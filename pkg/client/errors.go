package client

import (
	"errors"
	"fmt"
)

// CodeUnknown is reported when the backend could not be reached or replied
// without a usable error body.
const CodeUnknown = "UNKNOWN_ERROR"

// CodeInvalidShareLink is reported for a share token the backend does not know.
const CodeInvalidShareLink = "INVALID_SHARE_LINK"

// ErrInvalidShareLink matches (via errors.Is) the APIError returned when the
// template endpoint answers 404.
var ErrInvalidShareLink = errors.New("client: invalid share link")

// APIError describes a failed backend call. Message is the text shown to the
// user and is kept exactly as the backend sent it when one was provided.
type APIError struct {
	Status  int
	Code    string
	Message string
	// Fields holds per-field messages from the error body, keyed as the
	// backend sent them (see render.MapErrorPayload).
	Fields map[string][]string

	cause error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes the transport error or sentinel behind the failure.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Detail formats the error for logs.
func (e *APIError) Detail() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("status=%d code=%s message=%q cause=%v", e.Status, e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("status=%d code=%s message=%q", e.Status, e.Code, e.Message)
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetwork reports whether err represents a call that never got a response.
func IsNetwork(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == 0 && apiErr.Code == CodeUnknown
}
