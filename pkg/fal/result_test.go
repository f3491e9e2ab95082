package fal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult_Images(t *testing.T) {
	raw := json.RawMessage(`{
		"images": [
			{"url": "https://cdn.example.com/a.png", "width": 1024, "height": 768, "content_type": "image/png"},
			{"url": "https://cdn.example.com/b.png", "width": 1024, "height": 768, "content_type": "image/png"}
		],
		"seed": 42
	}`)

	result, err := parseResult(KindImage, raw)
	require.NoError(t, err)

	require.Len(t, result.Outputs, 2)
	assert.Equal(t, "https://cdn.example.com/a.png", result.Outputs[0].URL)
	assert.Equal(t, 768, result.Outputs[0].Height)
	assert.False(t, result.Failed())
	assert.JSONEq(t, string(raw), string(result.Raw()))
}

func TestParseResult_VideoObject(t *testing.T) {
	raw := json.RawMessage(`{"video": {"url": "https://cdn.example.com/clip.mp4", "content_type": "video/mp4"}}`)

	result, err := parseResult(KindVideo, raw)
	require.NoError(t, err)
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, "video/mp4", result.Outputs[0].ContentType)
}

func TestParseResult_VideoTopLevelURL(t *testing.T) {
	raw := json.RawMessage(`{"url": "https://cdn.example.com/clip.mp4"}`)

	result, err := parseResult(KindAnimate, raw)
	require.NoError(t, err)
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", result.Outputs[0].URL)
}

func TestParseResult_SpeechVariants(t *testing.T) {
	cases := map[string]string{
		"audio object": `{"audio": {"url": "https://cdn.example.com/v.wav"}}`,
		"audio_url":    `{"audio_url": "https://cdn.example.com/v.wav"}`,
		"bare url":     `{"url": "https://cdn.example.com/v.wav"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			result, err := parseResult(KindSpeech, json.RawMessage(payload))
			require.NoError(t, err)
			require.Len(t, result.Outputs, 1)
			assert.Equal(t, "https://cdn.example.com/v.wav", result.Outputs[0].URL)
		})
	}
}

func TestParseResult_EmptyOutputIsAnError(t *testing.T) {
	_, err := parseResult(KindImage, json.RawMessage(`{"images": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output")

	_, err = parseResult(KindSpeech, json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestParseResult_MalformedPayload(t *testing.T) {
	_, err := parseResult(KindImage, json.RawMessage(`{"images": "nope"}`))
	assert.Error(t, err)
}
