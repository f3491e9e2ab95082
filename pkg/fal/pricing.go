package fal

import (
	"fmt"
	"strings"
)

// Per-endpoint unit pricing, fetched from the fal.ai pricing API. Endpoints
// missing from this table simply get no estimate.
var pricing = map[string]struct {
	UnitPrice float64
	Unit      string
}{
	// Image models
	"fal-ai/flux/schnell":               {0.003, "megapixels"},
	"fal-ai/flux/dev":                   {0.025, "megapixels"},
	"fal-ai/flux-pro/v1.1":              {0.04, "megapixels"},
	"fal-ai/flux-realism":               {0.035, "megapixels"},
	"fal-ai/recraft-v3":                 {0.04, "images"},
	"fal-ai/stable-diffusion-v3-medium": {0.035, "images"},
	// Image-to-video models
	"fal-ai/kling-video/v1.5/pro/image-to-video": {0.1, "seconds"},
	"fal-ai/minimax-video/image-to-video":        {0.5, "videos"},
	"fal-ai/luma-dream-machine/image-to-video":   {0.5, "videos"},
	"fal-ai/runway-gen3/turbo/image-to-video":    {0.05, "seconds"},
	"fal-ai/hunyuan-video-v1.5/image-to-video":   {0.00125, "compute seconds"},
	// Text-to-video models
	"fal-ai/hunyuan-video":                    {0.075, "seconds"},
	"fal-ai/hunyuan-video-v1.5/text-to-video": {0.075, "seconds"},
	"fal-ai/minimax/video-01":                 {0.5, "videos"},
	"fal-ai/ltx-video":                        {0.04, "seconds"},
	"fal-ai/ltx-2/text-to-video":              {0.04, "seconds"},
	"fal-ai/ltx-2/text-to-video/fast":         {0.04, "seconds"},
	"fal-ai/wan/v2.1/text-to-video":           {0.05, "seconds"},
	// Speech models
	"fal-ai/f5-tts":                     {0.05, "1000 characters"},
	"fal-ai/kokoro":                     {0.02, "1000 characters"},
	"fal-ai/playht/tts/v3":              {0.03, "minutes"},
	"fal-ai/minimax-tts/text-to-speech": {0.1, "1000 characters"},
}

// CostEstimate is a rough price prediction for one job.
type CostEstimate struct {
	Cost      float64
	Unit      string
	Breakdown string
}

func (e *CostEstimate) String() string {
	return fmt.Sprintf("$%.4f (%s)", e.Cost, e.Breakdown)
}

// EstimateImage estimates the cost of generating numImages images at the
// given pixel dimensions. Returns nil when the endpoint is unpriced.
func EstimateImage(endpoint string, numImages, width, height int) *CostEstimate {
	info, ok := pricing[endpoint]
	if !ok {
		return nil
	}

	if info.Unit == "megapixels" {
		megapixels := float64(width*height) / 1_000_000
		return &CostEstimate{
			Cost:      info.UnitPrice * megapixels * float64(numImages),
			Unit:      info.Unit,
			Breakdown: fmt.Sprintf("%d image(s) x %.2fMP x $%g/MP", numImages, megapixels, info.UnitPrice),
		}
	}
	return &CostEstimate{
		Cost:      info.UnitPrice * float64(numImages),
		Unit:      info.Unit,
		Breakdown: fmt.Sprintf("%d image(s) x $%g/image", numImages, info.UnitPrice),
	}
}

// EstimateVideo estimates the cost of generating a video of the given
// duration. Returns nil when the endpoint is unpriced.
func EstimateVideo(endpoint string, durationSeconds float64) *CostEstimate {
	info, ok := pricing[endpoint]
	if !ok {
		return nil
	}

	if info.Unit == "seconds" || info.Unit == "compute seconds" {
		return &CostEstimate{
			Cost:      info.UnitPrice * durationSeconds,
			Unit:      info.Unit,
			Breakdown: fmt.Sprintf("%gs x $%g/%s", durationSeconds, info.UnitPrice, info.Unit),
		}
	}
	return &CostEstimate{
		Cost:      info.UnitPrice,
		Unit:      info.Unit,
		Breakdown: fmt.Sprintf("1 video x $%g/video", info.UnitPrice),
	}
}

// EstimateSpeech estimates the cost of synthesizing the given text. Returns
// nil when the endpoint is unpriced.
func EstimateSpeech(endpoint, text string) *CostEstimate {
	info, ok := pricing[endpoint]
	if !ok {
		return nil
	}

	chars := len(text)
	switch {
	case strings.Contains(info.Unit, "1000 characters"):
		return &CostEstimate{
			Cost:      info.UnitPrice * float64(chars) / 1000,
			Unit:      info.Unit,
			Breakdown: fmt.Sprintf("%d chars x $%g/1k chars", chars, info.UnitPrice),
		}
	case strings.Contains(info.Unit, "minutes"):
		// Rough speaking rate: ~150 words/min at ~5 chars/word.
		minutes := float64(chars) / 750
		return &CostEstimate{
			Cost:      info.UnitPrice * minutes,
			Unit:      info.Unit,
			Breakdown: fmt.Sprintf("~%.2f min x $%g/min", minutes, info.UnitPrice),
		}
	default:
		return &CostEstimate{
			Cost:      info.UnitPrice,
			Unit:      info.Unit,
			Breakdown: fmt.Sprintf("$%g per request", info.UnitPrice),
		}
	}
}

// ImageSize returns the pixel dimensions for a named aspect ratio, falling
// back to 1024x1024 for ratios without an explicit size.
func ImageSize(aspectRatio string) (width, height int) {
	if size, ok := imageSizes[aspectRatio]; ok {
		return size[0], size[1]
	}
	return 1024, 1024
}
