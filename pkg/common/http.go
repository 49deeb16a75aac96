package common

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// The shared client puts an upper bound on how long a remote input fetch can take, so that one dead host
// cannot stall a whole batch.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// ReadAllFromURL reads all content from the URL.
// TODO Unsafe if the URL is a dynamic page which infinitely streams output -- we can crash with an OOM in that case.
func ReadAllFromURL(url string) ([]byte, error) {
	res, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch \"%s\": status %d", url, res.StatusCode)
	}
	return io.ReadAll(res.Body)
}

// DownloadFromURL fetches the URL and stores the content in the file specified by `filePath`.
func DownloadFromURL(url, filePath string) error {
	res, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch \"%s\": status %d", url, res.StatusCode)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, res.Body)
	closeErr := file.Close()
	if err != nil {
		return err
	}
	return closeErr
}
