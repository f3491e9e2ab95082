package fal

import (
	"io"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownModelError_Message(t *testing.T) {
	err := &UnknownModelError{Kind: KindImage, Name: "floux"}
	assert.Contains(t, err.Error(), `unknown image model "floux"`)
}

func TestRequestRejectedError_CarriesDetailVerbatim(t *testing.T) {
	err := &RequestRejectedError{Status: 422, Detail: "prompt must not be empty"}
	assert.Contains(t, err.Error(), "HTTP 422")
	assert.Contains(t, err.Error(), "prompt must not be empty")

	bare := &RequestRejectedError{Status: 403}
	assert.Contains(t, bare.Error(), "HTTP 403")
}

func TestJobTimeoutError_Message(t *testing.T) {
	err := &JobTimeoutError{RequestID: "req-1", Elapsed: 90 * time.Second, Attempts: 30}
	assert.Contains(t, err.Error(), "req-1")
	assert.Contains(t, err.Error(), "1m30s")
	assert.Contains(t, err.Error(), "30 status checks")
}

func TestDownloadError_Unwrap(t *testing.T) {
	err := &DownloadError{URL: "https://example.com/a.png", Err: io.ErrUnexpectedEOF}
	assert.Contains(t, err.Error(), "https://example.com/a.png")
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestErrMissingCredential_IsMatchable(t *testing.T) {
	wrapped := errors.Wrap(ErrMissingCredential, "client setup")
	require.True(t, errors.Is(wrapped, ErrMissingCredential))
}
