// Package fal is a client library for the fal.ai queue API. It submits
// generation jobs (image, video, speech), polls them to a terminal state and
// downloads the resulting artifacts.
package fal

import "encoding/json"

// Kind identifies the generation task a request performs.
type Kind string

const (
	// KindImage generates images from a text prompt.
	KindImage Kind = "image"
	// KindAnimate generates a video from a source image.
	KindAnimate Kind = "animate"
	// KindVideo generates a video from a text prompt.
	KindVideo Kind = "video"
	// KindSpeech synthesizes speech from text.
	KindSpeech Kind = "speech"
)

// Kinds lists every task kind in display order.
var Kinds = []Kind{KindImage, KindAnimate, KindVideo, KindSpeech}

// JobHandle identifies an in-flight job on the fal.ai queue. It is returned
// by Submit and consumed by WaitForResult.
type JobHandle struct {
	Kind        Kind   `json:"-"`
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
	CancelURL   string `json:"cancel_url"`
}

// Queue status values reported by the service.
const (
	statusInQueue    = "IN_QUEUE"
	statusInProgress = "IN_PROGRESS"
	statusCompleted  = "COMPLETED"
	statusFailed     = "FAILED"
	statusError      = "ERROR"
)

type statusResponse struct {
	Status        string     `json:"status"`
	QueuePosition int        `json:"queue_position"`
	Error         string     `json:"error"`
	Logs          []queueLog `json:"logs"`
}

type queueLog struct {
	Message string `json:"message"`
}

// Output describes one generated artifact referenced by URL.
type Output struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Result is the terminal outcome of a job: either a set of output artifacts
// or a failure reason. Exactly one Result is produced per submitted request.
type Result struct {
	Outputs []Output
	Reason  string

	raw json.RawMessage
}

// Failed reports whether the job reached a terminal failure state.
func (r *Result) Failed() bool {
	return r.Reason != ""
}

// Raw returns the unparsed response payload, useful for debugging model
// specific fields such as the seed actually used.
func (r *Result) Raw() json.RawMessage {
	return r.raw
}
