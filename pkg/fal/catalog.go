package fal

import (
	"sort"
	"strings"
)

// Model catalogs mapping short names to fal.ai endpoint IDs, one per task
// kind. The catalogs are fixed at build time; a name containing a slash is
// treated as a full endpoint ID and passed through unresolved.
var (
	imageModels = map[string]string{
		"flux-pro":            "fal-ai/flux-pro/v1.1",
		"flux-dev":            "fal-ai/flux/dev",
		"flux-schnell":        "fal-ai/flux/schnell",
		"flux-realism":        "fal-ai/flux-realism",
		"stable-diffusion-xl": "fal-ai/stable-diffusion-v3-medium",
		"recraft-v3":          "fal-ai/recraft-v3",
	}

	animateModels = map[string]string{
		"kling":       "fal-ai/kling-video/v1.5/pro/image-to-video",
		"minimax":     "fal-ai/minimax-video/image-to-video",
		"luma":        "fal-ai/luma-dream-machine/image-to-video",
		"runway-gen3": "fal-ai/runway-gen3/turbo/image-to-video",
		"hunyuan":     "fal-ai/hunyuan-video-v1.5/image-to-video",
	}

	videoModels = map[string]string{
		"hunyuan":      "fal-ai/hunyuan-video",
		"hunyuan-v1.5": "fal-ai/hunyuan-video-v1.5/text-to-video",
		"minimax":      "fal-ai/minimax/video-01",
		"ltx":          "fal-ai/ltx-video",
		"ltx-v2":       "fal-ai/ltx-2/text-to-video",
		"ltx-v2-fast":  "fal-ai/ltx-2/text-to-video/fast",
		"wan":          "fal-ai/wan/v2.1/text-to-video",
	}

	speechModels = map[string]string{
		"f5-tts":      "fal-ai/f5-tts",
		"kokoro":      "fal-ai/kokoro",
		"playht":      "fal-ai/playht/tts/v3",
		"minimax-tts": "fal-ai/minimax-tts/text-to-speech",
	}

	defaultModels = map[Kind]string{
		KindImage:   "flux-schnell",
		KindAnimate: "kling",
		KindVideo:   "ltx-v2-fast",
		KindSpeech:  "f5-tts",
	}
)

// AspectRatios lists the image sizes accepted by the image models.
var AspectRatios = []string{
	"square", "square_hd", "portrait_4_3", "portrait_16_9",
	"landscape_4_3", "landscape_16_9", "21_9", "9_21",
}

// imageSizes maps aspect ratio names to pixel dimensions, used for
// megapixel-based cost estimates.
var imageSizes = map[string][2]int{
	"square":         {1024, 1024},
	"square_hd":      {1536, 1536},
	"portrait_4_3":   {896, 1152},
	"portrait_16_9":  {768, 1344},
	"landscape_4_3":  {1152, 896},
	"landscape_16_9": {1344, 768},
}

func catalogFor(kind Kind) map[string]string {
	switch kind {
	case KindImage:
		return imageModels
	case KindAnimate:
		return animateModels
	case KindVideo:
		return videoModels
	case KindSpeech:
		return speechModels
	default:
		return nil
	}
}

// DefaultModel returns the default model short name for a task kind.
func DefaultModel(kind Kind) string {
	return defaultModels[kind]
}

// Resolve maps a model short name to its fal.ai endpoint ID for the given
// task kind. Names containing a slash are assumed to already be endpoint IDs.
// An unresolvable name yields an *UnknownModelError without any network call.
func Resolve(kind Kind, name string) (string, error) {
	if endpoint, ok := catalogFor(kind)[name]; ok {
		return endpoint, nil
	}
	if strings.Contains(name, "/") {
		return name, nil
	}
	return "", &UnknownModelError{Kind: kind, Name: name}
}

// ModelInfo is one catalog entry in a listing.
type ModelInfo struct {
	Name     string
	Endpoint string
	Default  bool
}

// Models returns the catalog for a task kind sorted by short name.
func Models(kind Kind) []ModelInfo {
	catalog := catalogFor(kind)
	infos := make([]ModelInfo, 0, len(catalog))
	for name, endpoint := range catalog {
		infos = append(infos, ModelInfo{
			Name:     name,
			Endpoint: endpoint,
			Default:  name == defaultModels[kind],
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// ValidAspectRatio reports whether name is one of the accepted image aspect
// ratios.
func ValidAspectRatio(name string) bool {
	for _, ar := range AspectRatios {
		if ar == name {
			return true
		}
	}
	return false
}
