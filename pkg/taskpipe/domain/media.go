package domain

import (
	"context"
	"fmt"
	"os"
)

// StageMedia resolves an input's media reference to a local file path, fetching it first when
// the reference is a URL. Backends only ever see local paths. The returned cleanup removes the
// fetched copy; pipelines call it once the backend is done, so long dataset runs over remote
// media don't fill the temp dir. Local files are left alone.
func StageMedia(ctx context.Context, fetcher MediaFetcher, input Input) (string, func(), error) {
	if !input.IsRemote() {
		return input.Path, func() {}, nil
	}
	filePath, err := fetcher.Fetch(ctx, input.URL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch \"%s\": %w", input.URL, err)
	}
	return filePath, func() {
		_ = os.Remove(filePath)
	}, nil
}
