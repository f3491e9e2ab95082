package fal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueue simulates the fal.ai queue API: submit, status, response and
// artifact endpoints backed by an httptest server.
type fakeQueue struct {
	t        *testing.T
	server   *httptest.Server
	mux      *http.ServeMux
	requests atomic.Int64

	// statuses is consumed one per status check; the last entry repeats.
	statuses []string
	// resultPayload is served from the response endpoint once COMPLETED.
	resultPayload string

	statusCalls atomic.Int64
}

func newFakeQueue(t *testing.T) *fakeQueue {
	q := &fakeQueue{t: t, statuses: []string{statusCompleted}}
	q.mux = http.NewServeMux()
	q.server = httptest.NewServer(q.mux)
	t.Cleanup(q.server.Close)

	q.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		q.requests.Add(1)
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"request_id":   "req-123",
			"status_url":   q.server.URL + "/status",
			"response_url": q.server.URL + "/response",
			"cancel_url":   q.server.URL + "/cancel",
		})
	})
	q.mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		q.requests.Add(1)
		idx := int(q.statusCalls.Add(1)) - 1
		if idx >= len(q.statuses) {
			idx = len(q.statuses) - 1
		}
		json.NewEncoder(w).Encode(map[string]any{"status": q.statuses[idx]})
	})
	q.mux.HandleFunc("/response", func(w http.ResponseWriter, r *http.Request) {
		q.requests.Add(1)
		fmt.Fprint(w, q.resultPayload)
	})
	return q
}

func (q *fakeQueue) client(t *testing.T) *Client {
	c, err := New("test-key",
		WithBaseURL(q.server.URL),
		WithRetry(RetrySettings{Attempts: 1, InitialDelay: 1, MaxDelay: 1}),
		WithPolling(10*time.Millisecond, 500*time.Millisecond),
	)
	require.NoError(t, err)
	return c
}

func TestNew_MissingCredential(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))

	_, err = New("   ")
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestSubmit_ReturnsHandle(t *testing.T) {
	q := newFakeQueue(t)
	c := q.client(t)

	handle, err := c.Submit(context.Background(), &Request{Kind: KindImage, Prompt: "a fox"})
	require.NoError(t, err)

	assert.Equal(t, "req-123", handle.RequestID)
	assert.Equal(t, KindImage, handle.Kind)
	assert.Equal(t, q.server.URL+"/status", handle.StatusURL)
	assert.Equal(t, q.server.URL+"/response", handle.ResponseURL)
}

func TestSubmit_UnknownModelFailsBeforeNetwork(t *testing.T) {
	q := newFakeQueue(t)
	c := q.client(t)

	_, err := c.Submit(context.Background(), &Request{Kind: KindImage, Model: "no-such-model", Prompt: "x"})
	require.Error(t, err)

	var unknownErr *UnknownModelError
	assert.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, int64(0), q.requests.Load(), "no network call may be made for an unknown model")
}

func TestSubmit_RejectionCarriesDetailVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"detail": "prompt contains forbidden content"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := New("test-key", WithBaseURL(server.URL), WithRetry(RetrySettings{Attempts: 1}))
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), &Request{Kind: KindImage, Prompt: "x"})
	require.Error(t, err)

	var rejected *RequestRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, http.StatusUnprocessableEntity, rejected.Status)
	assert.Equal(t, "prompt contains forbidden content", rejected.Detail)
}

func TestSubmit_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"request_id": "req-9"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := New("test-key", WithBaseURL(server.URL),
		WithRetry(RetrySettings{Attempts: 3, InitialDelay: 1, MaxDelay: 2}))
	require.NoError(t, err)

	handle, err := c.Submit(context.Background(), &Request{Kind: KindImage, Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "req-9", handle.RequestID)
	assert.Equal(t, int64(2), calls.Load())
}

func TestSubmit_DoesNotRetryRejections(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail": "bad prompt"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := New("test-key", WithBaseURL(server.URL),
		WithRetry(RetrySettings{Attempts: 5, InitialDelay: 1, MaxDelay: 2}))
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), &Request{Kind: KindImage, Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load(), "rejections are permanent and must not be retried")
}

func TestServiceDetail(t *testing.T) {
	assert.Equal(t, "plain message", serviceDetail([]byte(`{"detail": "plain message"}`)))
	assert.Equal(t, `[{"loc":"prompt"}]`, serviceDetail([]byte(`{"detail": [{"loc":"prompt"}]}`)))
	assert.Equal(t, "not json at all", serviceDetail([]byte("not json at all")))
}

func TestGenerate_ThenDownload_ProducesExactlyOneFile(t *testing.T) {
	q := newFakeQueue(t)
	q.resultPayload = `{"images": [{"url": "` + q.server.URL + `/artifact", "content_type": "image/png"}]}`
	q.mux.HandleFunc("/artifact", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "png-bytes")
	})

	c := q.client(t)
	dir := t.TempDir()

	result, err := c.Generate(context.Background(), &Request{Kind: KindImage, Prompt: "a fox"})
	require.NoError(t, err)
	require.Len(t, result.Outputs, 1)

	dest := UniquePath(dir + "/" + DefaultFilename(KindImage, result.Outputs[0], 0, 1, time.Now()))
	path, err := c.Download(context.Background(), result.Outputs[0].URL, dest)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "exactly one artifact file")
	assert.Equal(t, dir+"/"+entries[0].Name(), path)
}

func TestGenerate_EndToEnd(t *testing.T) {
	q := newFakeQueue(t)
	q.statuses = []string{statusInQueue, statusInProgress, statusCompleted}
	q.resultPayload = `{"images": [{"url": "` + q.server.URL + `/file.png", "width": 1024, "height": 1024, "content_type": "image/png"}]}`

	c := q.client(t)

	result, err := c.Generate(context.Background(), &Request{Kind: KindImage, Prompt: "a fox"})
	require.NoError(t, err)

	require.False(t, result.Failed())
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, q.server.URL+"/file.png", result.Outputs[0].URL)
	assert.Equal(t, 1024, result.Outputs[0].Width)
}
