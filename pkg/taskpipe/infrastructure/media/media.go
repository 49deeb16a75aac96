package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}
var audioExtensions = []string{".wav", ".mp3", ".flac", ".ogg", ".m4a"}

// IsImageFormat reports whether the path or URL looks like an image file.
func IsImageFormat(ref string) bool {
	return common.IsStringInSlice(extension(ref), imageExtensions)
}

// IsAudioFormat reports whether the path or URL looks like an audio file.
func IsAudioFormat(ref string) bool {
	return common.IsStringInSlice(extension(ref), audioExtensions)
}

// MIMEType maps a media path or URL to its MIME type, or "application/octet-stream" when unknown.
func MIMEType(ref string) string {
	switch extension(ref) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}

type fetcher struct {
	tempDir string
}

// NewFetcher stages remote media into the OS temp directory. Files keep the URL's extension so
// that format sniffing by extension keeps working on the staged copy.
func NewFetcher() domain.MediaFetcher {
	return &fetcher{tempDir: os.TempDir()}
}

func (f *fetcher) Fetch(_ context.Context, url string) (string, error) {
	filePath := filepath.Join(f.tempDir, "tpmedia_"+uuid.NewString()+extension(url))
	err := common.DownloadFromURL(url, filePath)
	if err != nil {
		return "", err
	}
	return filePath, nil
}

func extension(ref string) string {
	ref = strings.ToLower(ref)
	// Strip a possible query string before looking at the extension.
	if queryIndex := strings.IndexByte(ref, '?'); queryIndex != -1 {
		ref = ref[:queryIndex]
	}
	return filepath.Ext(ref)
}
