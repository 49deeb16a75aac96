package hfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"avolkov.dev/taskpipe/pkg/common"
)

const (
	// ConfigKeyBaseURL endpoint of the hosted inference API
	ConfigKeyBaseURL = "hfAPIBaseURL"
	// ConfigKeyToken the access token sent as a bearer header
	ConfigKeyToken = "hfAPIToken"
	// ConfigKeyRequestTimeout when to give up on a hosted inference call. Cold models can take
	// a while to load on the other side, hence the generous default.
	ConfigKeyRequestTimeout = "hfAPIRequestTimeout"
)

const defaultBaseURL = "https://api-inference.huggingface.co"

// Client calls the hosted inference HTTP API: one POST per model, JSON or raw media bytes in,
// task-shaped JSON out. There is no wire protocol beyond that, so a raw HTTP client is all
// that's needed.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(config *common.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.GetDurationOrDefault(ConfigKeyRequestTimeout, 2*time.Minute),
		},
		baseURL: config.GetStringOrDefault(ConfigKeyBaseURL, defaultBaseURL),
		token:   config.GetString(ConfigKeyToken),
	}
}

// PostJSON calls the model with a JSON payload and decodes the JSON response into `out`.
func (c *Client) PostJSON(ctx context.Context, model string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.post(ctx, model, "application/json", body, out)
}

// PostBytes calls the model with a raw payload (image or audio bytes) and decodes the JSON
// response into `out`.
func (c *Client) PostBytes(ctx context.Context, model, contentType string, payload []byte, out any) error {
	return c.post(ctx, model, contentType, payload, out)
}

func (c *Client) post(ctx context.Context, model, contentType string, payload []byte, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+model, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", contentType)
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("inference call to \"%s\" failed: %w", model, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("inference call to \"%s\" failed: status %d: %s", model, response.StatusCode, common.Truncate(string(responseBody), 200))
	}
	return json.Unmarshal(responseBody, out)
}
