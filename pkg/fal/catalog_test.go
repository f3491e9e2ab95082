package fal

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ShortName(t *testing.T) {
	endpoint, err := Resolve(KindImage, "flux-schnell")
	require.NoError(t, err)
	assert.Equal(t, "fal-ai/flux/schnell", endpoint)
}

func TestResolve_FullEndpointPassthrough(t *testing.T) {
	endpoint, err := Resolve(KindVideo, "fal-ai/some-new/model")
	require.NoError(t, err)
	assert.Equal(t, "fal-ai/some-new/model", endpoint)
}

func TestResolve_UnknownModel(t *testing.T) {
	_, err := Resolve(KindSpeech, "nope")
	require.Error(t, err)

	var unknownErr *UnknownModelError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, KindSpeech, unknownErr.Kind)
	assert.Equal(t, "nope", unknownErr.Name)
	assert.Contains(t, err.Error(), "nope")
}

func TestResolve_ShortNameScopedToKind(t *testing.T) {
	// hunyuan exists for both video kinds but resolves per kind.
	i2v, err := Resolve(KindAnimate, "hunyuan")
	require.NoError(t, err)
	t2v, err := Resolve(KindVideo, "hunyuan")
	require.NoError(t, err)
	assert.NotEqual(t, i2v, t2v)

	// An image-only name is unknown for speech.
	_, err = Resolve(KindSpeech, "flux-schnell")
	assert.Error(t, err)
}

func TestDefaultModel(t *testing.T) {
	for _, kind := range Kinds {
		name := DefaultModel(kind)
		require.NotEmpty(t, name, "kind %s has no default", kind)

		_, err := Resolve(kind, name)
		assert.NoError(t, err, "default model of %s must resolve", kind)
	}
}

func TestModels_SortedWithDefaultMarked(t *testing.T) {
	infos := Models(KindImage)
	require.NotEmpty(t, infos)

	defaults := 0
	for i, info := range infos {
		if info.Default {
			defaults++
			assert.Equal(t, DefaultModel(KindImage), info.Name)
		}
		if i > 0 {
			assert.Less(t, infos[i-1].Name, info.Name)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestValidAspectRatio(t *testing.T) {
	assert.True(t, ValidAspectRatio("square"))
	assert.True(t, ValidAspectRatio("landscape_16_9"))
	assert.False(t, ValidAspectRatio("16:9"))
	assert.False(t, ValidAspectRatio(""))
}
