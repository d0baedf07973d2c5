package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure so callers can pattern-match on the class
// of error instead of probing response shapes.
type Kind int

const (
	KindUnknown Kind = iota
	// KindCredential covers 401/403 responses from the auth endpoints.
	KindCredential
	// KindValidation covers 4xx responses that carry a server-supplied message.
	KindValidation
	// KindNetwork covers transport failures where no response was received.
	KindNetwork
)

// APIError is the typed error produced by the HTTP transport for every
// failed platform API call.
type APIError struct {
	Kind    Kind
	Op      string // e.g. "auth.adminLogin", "products.create"
	Status  int    // HTTP status, 0 when no response was received
	Message string // server-supplied message, if any
	Err     error  // underlying transport error, if any
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	case e.Status != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": request failed"
}

func (e *APIError) Unwrap() error { return e.Err }

// FromStatus builds an APIError for a non-2xx response, classifying it by
// status and attaching the server message when one was present in the body.
func FromStatus(op string, status int, message string) *APIError {
	kind := KindUnknown
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindCredential
	case status >= 400 && status < 500 && message != "":
		kind = KindValidation
	}
	return &APIError{Kind: kind, Op: op, Status: status, Message: message}
}

// Network builds an APIError for a request that never produced a response.
func Network(op string, err error) *APIError {
	return &APIError{Kind: KindNetwork, Op: op, Err: err}
}

// AsAPIError unwraps err to an *APIError, if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsCredential reports whether err is a 401/403-class API error.
func IsCredential(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindCredential
}

// ErrCSRFRefresh marks a guarded operation that was aborted because the
// anti-forgery token could not be refreshed.
var ErrCSRFRefresh = errors.New("csrf token refresh failed")
