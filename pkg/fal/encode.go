package fal

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

var audioMIMETypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
}

// encodeFileAsDataURL reads a local file and returns it as a base64 data URL,
// which the fal.ai endpoints accept in place of a hosted URL.
func encodeFileAsDataURL(path string, mimeTypes map[string]string, fallbackMIME string) (string, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	mimeType, ok := mimeTypes[strings.ToLower(filepath.Ext(resolved))]
	if !ok {
		mimeType = fallbackMIME
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

func encodeImageFile(path string) (string, error) {
	return encodeFileAsDataURL(path, imageMIMETypes, "image/png")
}

func encodeAudioFile(path string) (string, error) {
	return encodeFileAsDataURL(path, audioMIMETypes, "audio/mpeg")
}

// expandPath resolves a leading ~ and returns an absolute path.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to resolve home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	return abs, nil
}
