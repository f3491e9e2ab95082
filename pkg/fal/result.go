package fal

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// parseResult extracts the output artifacts from a completed job's payload.
// The payload shape is vendor-defined and varies per task kind: image models
// return an "images" array, video models a "video" object, and speech models
// an "audio" object with a few legacy variants.
func parseResult(kind Kind, raw json.RawMessage) (*Result, error) {
	result := &Result{raw: raw}

	switch kind {
	case KindImage:
		var payload struct {
			Images []Output `json:"images"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, errors.Wrap(err, "failed to decode image result")
		}
		result.Outputs = payload.Images

	case KindAnimate, KindVideo:
		var payload struct {
			Video *Output `json:"video"`
			URL   string  `json:"url"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, errors.Wrap(err, "failed to decode video result")
		}
		if payload.Video != nil && payload.Video.URL != "" {
			result.Outputs = []Output{*payload.Video}
		} else if payload.URL != "" {
			result.Outputs = []Output{{URL: payload.URL}}
		}

	case KindSpeech:
		var payload struct {
			Audio    *Output `json:"audio"`
			AudioURL string  `json:"audio_url"`
			URL      string  `json:"url"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, errors.Wrap(err, "failed to decode speech result")
		}
		switch {
		case payload.Audio != nil && payload.Audio.URL != "":
			result.Outputs = []Output{*payload.Audio}
		case payload.AudioURL != "":
			result.Outputs = []Output{{URL: payload.AudioURL}}
		case payload.URL != "":
			result.Outputs = []Output{{URL: payload.URL}}
		}

	default:
		return nil, errors.Errorf("unsupported task kind %q", kind)
	}

	if len(result.Outputs) == 0 {
		return nil, errors.Errorf("job completed but returned no output (payload: %s)", truncate(string(raw), 200))
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
