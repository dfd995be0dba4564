// Package apperr defines the error taxonomy shared across the pipeline.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// ErrInsufficientHistory is returned when fewer than two published articles
// can be found to link from a new digest.
var ErrInsufficientHistory = errors.New("insufficient history: need at least two published articles")

// UpstreamError reports a failed call to a remote API. For non-2xx responses
// Status and Body carry the remote's own error report verbatim; for
// transport failures Err is set instead.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: request failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Service, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Timeout reports whether the call missed its per-request deadline.
func (e *UpstreamError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// PublishError reports a failed commit against the content host. A same-day
// re-run surfaces here as the remote's conflict status; it is not
// special-cased locally.
type PublishError struct {
	Status int
	Body   string
	Err    error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("publish: request failed: %v", e.Err)
	}
	return fmt.Sprintf("publish: unexpected status %d: %s", e.Status, e.Body)
}

func (e *PublishError) Unwrap() error { return e.Err }
