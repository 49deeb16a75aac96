package rss

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<item><title>First headline</title><description>First description.</description></item>
<item><title>Second headline</title><description></description></item>
<item><title>Third headline</title><description>Third description.</description></item>
</channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testFeed))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDatasetStreamsFeedItems(t *testing.T) {
	dataset := NewDataset(newFeedServer(t).URL, 0)
	ctx := context.Background()

	input, err := dataset.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "First headline. First description.", input.Text)

	input, err = dataset.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "Second headline", input.Text)

	input, err = dataset.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "Third headline. Third description.", input.Text)

	_, err = dataset.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestDatasetMaxCount(t *testing.T) {
	dataset := NewDataset(newFeedServer(t).URL, 1)
	ctx := context.Background()

	_, err := dataset.Next(ctx)
	require.NoError(t, err)
	_, err = dataset.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestDatasetFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewDataset(server.URL, 0).Next(context.Background())
	require.Error(t, err)
}
