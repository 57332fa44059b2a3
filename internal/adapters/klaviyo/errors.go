package klaviyo

import (
	"errors"
	"fmt"
)

// Sentinel errors for sink calls.
var (
	ErrNotConfigured = errors.New("klaviyo api key not configured")
	ErrSinkStatus    = errors.New("unexpected sink status")
	ErrCircuitOpen   = errors.New("klaviyo circuit open")
	ErrUnknownKind   = errors.New("unknown notification kind")
)

// StatusError reports a non-2xx response from the API.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d: %s", ErrSinkStatus, e.Path, e.Status, e.Body)
}

// Unwrap lets callers match ErrSinkStatus.
func (e *StatusError) Unwrap() error { return ErrSinkStatus }

// Reason returns a metric label for the failure.
func (e *StatusError) Reason() string {
	if e.Status >= 500 {
		return "status_5xx"
	}
	return "status_4xx"
}

// Retryable reports whether the failure points at the sink rather than
// the request. Only these count against the circuit breaker.
func (e *StatusError) Retryable() bool {
	return e.Status >= 500 || e.Status == 429
}
