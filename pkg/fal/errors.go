package fal

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrMissingCredential is returned by New when no API credential is provided.
// The credential comes from FAL_API_KEY (or falgen configuration) and is
// required before any request can be made.
var ErrMissingCredential = errors.New("no fal.ai API credential provided (set FAL_API_KEY, see https://fal.ai/dashboard/keys)")

// UnknownModelError is returned when a model short name cannot be resolved
// against the catalog for its task kind. It is raised before any network call.
type UnknownModelError struct {
	Kind Kind
	Name string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown %s model %q (run 'falgen models' to list available models, or pass a full fal.ai endpoint ID)", e.Kind, e.Name)
}

// RequestRejectedError is returned when the service rejects a submission with
// a client error. Detail carries the service's message verbatim.
type RequestRejectedError struct {
	Status int
	Detail string
}

func (e *RequestRejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request rejected by fal.ai (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("request rejected by fal.ai (HTTP %d): %s", e.Status, e.Detail)
}

// JobTimeoutError is returned when a job does not reach a terminal state
// within the configured polling bound.
type JobTimeoutError struct {
	RequestID string
	Elapsed   time.Duration
	Attempts  int
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf("job %s did not complete within %s (%d status checks)", e.RequestID, e.Elapsed.Round(time.Second), e.Attempts)
}

// DownloadError is returned when fetching a generated artifact fails. No
// partial file is left at the destination when this error is returned.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}
