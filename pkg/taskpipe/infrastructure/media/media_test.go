package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsImageFormat(t *testing.T) {
	require.True(t, IsImageFormat("cat.png"))
	require.True(t, IsImageFormat("https://example.com/photo.JPEG"))
	require.True(t, IsImageFormat("https://example.com/photo.jpg?size=large"))
	require.False(t, IsImageFormat("speech.wav"))
	require.False(t, IsImageFormat("notes.txt"))
}

func TestIsAudioFormat(t *testing.T) {
	require.True(t, IsAudioFormat("speech.flac"))
	require.True(t, IsAudioFormat("https://example.com/song.mp3?dl=1"))
	require.False(t, IsAudioFormat("cat.png"))
}

func TestMIMEType(t *testing.T) {
	tests := []struct {
		ref      string
		expected string
	}{
		{"cat.jpg", "image/jpeg"},
		{"cat.jpeg", "image/jpeg"},
		{"cat.png", "image/png"},
		{"speech.wav", "audio/wav"},
		{"speech.flac", "audio/flac"},
		{"https://example.com/song.mp3?dl=1", "audio/mpeg"},
		{"unknown.bin", "application/octet-stream"},
	}
	for _, test := range tests {
		require.Equal(t, test.expected, MIMEType(test.ref), test.ref)
	}
}

func TestFetcherKeepsExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake-image-bytes"))
	}))
	defer server.Close()

	fetcher := NewFetcher()
	filePath, err := fetcher.Fetch(context.Background(), server.URL+"/cat.png")
	require.NoError(t, err)
	defer func() {
		_ = os.Remove(filePath)
	}()

	require.True(t, strings.HasSuffix(filePath, ".png"))
	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, []byte("fake-image-bytes"), data)
}
