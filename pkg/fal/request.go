package fal

import (
	"strconv"

	"github.com/pkg/errors"
)

// Request is an immutable description of one generation job. Construct it
// once per invocation; the zero value of every optional field means "let the
// model decide".
type Request struct {
	Kind  Kind
	Model string

	// Prompt is the text prompt for image and video generation, the motion
	// description for animate, and the text to speak for speech.
	Prompt string

	// Image generation options.
	AspectRatio          string
	NumImages            int
	NegativePrompt       string
	DisableSafetyChecker bool
	Seed                 *int64

	// Video options.
	Duration   float64
	Resolution string

	// Animate input: path to the local source image.
	ImagePath string

	// Speech options.
	Voice          string
	ReferenceAudio string
	Speed          float64
}

const (
	minImages = 1
	maxImages = 4
)

// Endpoint resolves the request's model against the catalog for its kind.
func (r *Request) Endpoint() (string, error) {
	model := r.Model
	if model == "" {
		model = DefaultModel(r.Kind)
	}
	return Resolve(r.Kind, model)
}

// payload builds the vendor JSON body for the request. Reference files are
// read and inlined as data URLs at this point, so a missing file fails
// before submission.
func (r *Request) payload() (map[string]any, error) {
	switch r.Kind {
	case KindImage:
		return r.imagePayload(), nil
	case KindAnimate:
		return r.animatePayload()
	case KindVideo:
		return r.videoPayload(), nil
	case KindSpeech:
		return r.speechPayload()
	default:
		return nil, errors.Errorf("unsupported task kind %q", r.Kind)
	}
}

func (r *Request) imagePayload() map[string]any {
	num := r.NumImages
	if num < minImages {
		num = minImages
	} else if num > maxImages {
		num = maxImages
	}

	payload := map[string]any{
		"prompt":                r.Prompt,
		"num_images":            num,
		"enable_safety_checker": !r.DisableSafetyChecker,
	}
	if r.AspectRatio != "" && r.AspectRatio != "square" {
		payload["image_size"] = r.AspectRatio
	}
	if r.Seed != nil {
		payload["seed"] = *r.Seed
	}
	if r.NegativePrompt != "" {
		payload["negative_prompt"] = r.NegativePrompt
	}
	return payload
}

func (r *Request) animatePayload() (map[string]any, error) {
	imageURL, err := encodeImageFile(r.ImagePath)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"image_url": imageURL,
	}
	if r.Prompt != "" {
		payload["prompt"] = r.Prompt
	}
	if r.Duration > 0 {
		// image-to-video endpoints take the duration as a whole-second string
		payload["duration"] = strconv.Itoa(int(r.Duration))
	}
	if r.AspectRatio != "" {
		payload["aspect_ratio"] = r.AspectRatio
	}
	return payload, nil
}

func (r *Request) videoPayload() map[string]any {
	payload := map[string]any{
		"prompt": r.Prompt,
	}
	if r.AspectRatio != "" {
		payload["aspect_ratio"] = r.AspectRatio
	}
	if r.Resolution != "" {
		payload["resolution"] = r.Resolution
	}
	if r.Duration > 0 {
		payload["duration"] = r.Duration
	}
	if r.Seed != nil {
		payload["seed"] = *r.Seed
	}
	return payload
}

func (r *Request) speechPayload() (map[string]any, error) {
	payload := map[string]any{
		"gen_text": r.Prompt,
	}
	if r.ReferenceAudio != "" {
		audioURL, err := encodeAudioFile(r.ReferenceAudio)
		if err != nil {
			return nil, err
		}
		payload["ref_audio_url"] = audioURL
	}
	if r.Voice != "" {
		payload["voice"] = r.Voice
	}
	if r.Speed != 0 && r.Speed != 1.0 {
		payload["speed"] = r.Speed
	}
	return payload, nil
}
