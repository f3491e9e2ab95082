package fal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/nunomen/falgen/pkg/logger"
)

// WaitForResult polls the job's status at the configured interval until it
// reaches a terminal state. It returns a *JobTimeoutError once the configured
// maximum wait has elapsed; the total wall time never exceeds that bound by
// more than one polling interval.
func (c *Client) WaitForResult(ctx context.Context, handle *JobHandle) (*Result, error) {
	deadline := time.Now().Add(c.maxWait)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		attempts++

		var status statusResponse
		err := c.doWithRetry(ctx, "status", func() error {
			return c.getJSON(ctx, handle.StatusURL+"?logs=1", &status)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to check status of job %s", handle.RequestID)
		}

		log := logger.G(ctx).WithField("request_id", handle.RequestID).WithField("status", status.Status)
		for _, entry := range status.Logs {
			if entry.Message != "" {
				log.WithField("remote_log", entry.Message).Debug("job progress")
			}
		}

		switch status.Status {
		case statusCompleted:
			return c.fetchResult(ctx, handle)
		case statusFailed, statusError:
			reason := status.Error
			if reason == "" {
				reason = "job failed without a reason"
			}
			return &Result{Reason: reason}, nil
		case statusInQueue:
			log.WithField("queue_position", status.QueuePosition).Debug("job queued")
		case statusInProgress:
			log.Debug("job in progress")
		default:
			log.Warn("unrecognized job status")
		}

		if time.Now().After(deadline) {
			return nil, &JobTimeoutError{
				RequestID: handle.RequestID,
				Elapsed:   c.maxWait,
				Attempts:  attempts,
			}
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "cancelled while waiting for job %s", handle.RequestID)
		case <-ticker.C:
		}
	}
}

// fetchResult retrieves the terminal payload of a completed job. A rejection
// at this stage means the job failed server-side; it becomes a failed Result
// rather than an error so the caller sees the job outcome, not a transport
// problem.
func (c *Client) fetchResult(ctx context.Context, handle *JobHandle) (*Result, error) {
	var raw json.RawMessage
	err := c.doWithRetry(ctx, "result", func() error {
		return c.getJSON(ctx, handle.ResponseURL, &raw)
	})
	if err != nil {
		var rejected *RequestRejectedError
		if errors.As(err, &rejected) {
			return &Result{Reason: rejected.Detail}, nil
		}
		return nil, errors.Wrapf(err, "failed to fetch result of job %s", handle.RequestID)
	}

	return parseResult(handle.Kind, raw)
}
