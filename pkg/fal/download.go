package fal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nunomen/falgen/pkg/logger"
)

// extensions by content type, with URL path and per-kind fallbacks below.
var extensionsByContentType = map[string]string{
	"image/png":   "png",
	"image/jpeg":  "jpg",
	"image/webp":  "webp",
	"image/gif":   "gif",
	"video/mp4":   "mp4",
	"video/webm":  "webm",
	"audio/mpeg":  "mp3",
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/ogg":   "ogg",
	"audio/mp4":   "m4a",
}

var defaultExtensions = map[Kind]string{
	KindImage:   "png",
	KindAnimate: "mp4",
	KindVideo:   "mp4",
	KindSpeech:  "wav",
}

var filenameStems = map[Kind]string{
	KindImage:   "fal_image",
	KindAnimate: "fal_video",
	KindVideo:   "fal_video_t2v",
	KindSpeech:  "fal_speech",
}

// Download fetches a generated artifact into destPath. The artifact is
// streamed to a temporary file next to the destination and renamed into
// place only on success, so a failed or interrupted transfer never leaves a
// truncated file behind.
func (c *Client) Download(ctx context.Context, rawURL, destPath string) (string, error) {
	dest, err := expandPath(destPath)
	if err != nil {
		return "", &DownloadError{URL: rawURL, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", &DownloadError{URL: rawURL, Err: errors.Wrap(err, "failed to create output directory")}
	}

	tmp := dest + ".partial-" + uuid.NewString()[:8]
	if err := c.fetchToFile(ctx, rawURL, tmp); err != nil {
		os.Remove(tmp)
		return "", &DownloadError{URL: rawURL, Err: err}
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", &DownloadError{URL: rawURL, Err: errors.Wrap(err, "failed to move artifact into place")}
	}

	logger.G(ctx).WithField("url", rawURL).WithField("path", dest).Debug("artifact downloaded")
	return dest, nil
}

func (c *Client) fetchToFile(ctx context.Context, rawURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return errors.Wrap(err, "transfer interrupted")
	}
	return out.Close()
}

// DefaultFilename synthesizes a collision-free artifact filename of the form
// fal_<kind>_<timestamp>[_N].<ext> for outputs the caller gave no explicit
// destination. index and total describe the output's position in its batch;
// a numeric suffix is added only for batches larger than one.
func DefaultFilename(kind Kind, output Output, index, total int, now time.Time) string {
	suffix := ""
	if total > 1 {
		suffix = fmt.Sprintf("_%d", index+1)
	}
	return fmt.Sprintf("%s_%s%s.%s", filenameStems[kind], now.Format("20060102_150405"), suffix, outputExtension(kind, output))
}

// outputExtension picks a file extension from the artifact's content type,
// then its URL path, then the task kind's default.
func outputExtension(kind Kind, output Output) string {
	if ext, ok := extensionsByContentType[strings.ToLower(output.ContentType)]; ok {
		return ext
	}
	if parsed, err := url.Parse(output.URL); err == nil {
		if ext := strings.TrimPrefix(filepath.Ext(parsed.Path), "."); ext != "" {
			return ext
		}
	}
	return defaultExtensions[kind]
}

// UniquePath returns path unchanged when nothing exists there, otherwise a
// variant with a short random tag so a prior artifact is never overwritten.
func UniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + uuid.NewString()[:8] + ext
}
