package crewsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds returned by the service.
const (
	KindInvalidArgument    = "invalid-argument"
	KindNotFound           = "not-found"
	KindFailedPrecondition = "failed-precondition"
	KindAlreadyExists      = "already-exists"
	KindUnauthenticated    = "unauthenticated"
	KindPermissionDenied   = "permission-denied"
	KindInternal           = "internal"
	KindRateLimited        = "rate-limited"
)

// Invitation rejection reasons carried by failed-precondition errors.
const (
	ReasonInvalid   = "invalid"
	ReasonExpired   = "expired"
	ReasonExhausted = "exhausted"
)

// APIError is a non-success response from the service.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int `json:"-"`

	// Kind is the error kind (e.g., "invalid-argument", "failed-precondition")
	Kind string `json:"error"`

	// Reason refines failed-precondition errors
	Reason string `json:"reason,omitempty"`

	// Description is a human-readable description of the error
	Description string `json:"error_description,omitempty"`
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%d %s(%s): %s", e.StatusCode, e.Kind, e.Reason, e.Description)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Description)
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// ReasonOf returns the precondition reason carried by err, if any.
func ReasonOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Reason
	}
	return ""
}

// parseErrorResponse builds an *APIError from a failed response. Bodies that
// are not JSON still produce an error carrying the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Kind == "" {
		apiErr.Kind = kindForStatus(resp.StatusCode)
		apiErr.Description = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return KindInvalidArgument
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindPermissionDenied
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindAlreadyExists
	case http.StatusPreconditionFailed:
		return KindFailedPrecondition
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}
