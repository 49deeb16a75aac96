package hfapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(common.NewConfig(map[string]any{
		ConfigKeyBaseURL: server.URL,
		ConfigKeyToken:   "test-token",
	}))
}

func TestClientSendsBearerTokenAndModelPath(t *testing.T) {
	var gotPath, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	})

	var out map[string]any
	err := client.PostJSON(context.Background(), "org/model", map[string]string{"inputs": "x"}, &out)
	require.NoError(t, err)
	require.Equal(t, "/models/org/model", gotPath)
	require.Equal(t, "Bearer test-token", gotAuth)
}

func TestClientReportsErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model is loading"}`))
	})

	var out map[string]any
	err := client.PostJSON(context.Background(), "org/model", map[string]string{"inputs": "x"}, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
	require.Contains(t, err.Error(), "model is loading")
}

func TestTextClassifierNestedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[{"label":"POSITIVE","score":0.99},{"label":"NEGATIVE","score":0.01}]]`))
	})
	classifier := NewTextClassifier("test/model", client)

	predictions, err := classifier.Classify(context.Background(), "great")
	require.NoError(t, err)
	require.Len(t, predictions, 2)
	require.Equal(t, "POSITIVE", predictions[0].Label)
	require.InDelta(t, 0.99, predictions[0].Score, 1e-9)
}

func TestTextClassifierFlatResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"NEUTRAL","score":0.5}]`))
	})
	classifier := NewTextClassifier("test/model", client)

	predictions, err := classifier.Classify(context.Background(), "meh")
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	require.Equal(t, "NEUTRAL", predictions[0].Label)
}

func TestGeneratorParameters(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		_, _ = w.Write([]byte(`[{"generated_text":" continuation one"},{"generated_text":" continuation two"}]`))
	})
	generator := NewGenerator("test/model", client)

	options := domain.DefaultRunOptions.WithReturnCount(2).WithMaxNewTokens(50).WithTemperature(0.9)
	sequences, err := generator.Generate(context.Background(), "prompt", options)
	require.NoError(t, err)
	require.Equal(t, []string{" continuation one", " continuation two"}, sequences)

	require.Equal(t, "prompt", gotBody["inputs"])
	parameters := gotBody["parameters"].(map[string]any)
	require.Equal(t, float64(2), parameters["num_return_sequences"])
	require.Equal(t, float64(50), parameters["max_new_tokens"])
	require.Equal(t, true, parameters["do_sample"])
	require.Equal(t, false, parameters["return_full_text"])
}

func TestSummarizer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"summary_text":" a short summary "}]`))
	})
	summarizer := NewSummarizer("test/model", client)

	summary, err := summarizer.Summarize(context.Background(), "a very long text", domain.DefaultRunOptions)
	require.NoError(t, err)
	require.Equal(t, "a short summary", summary)
}

func TestTranscriberPostsRawAudio(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "speech.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("fake-audio-bytes"), 0644))

	var gotContentType string
	var gotBody []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"text":"I HAVE A DREAM"}`))
	})
	transcriber := NewTranscriber("test/model", client)

	text, err := transcriber.Transcribe(context.Background(), audioPath)
	require.NoError(t, err)
	require.Equal(t, "I HAVE A DREAM", text)
	require.Equal(t, "audio/wav", gotContentType)
	require.Equal(t, []byte("fake-audio-bytes"), gotBody)
}

func TestVisualAnswererEncodesImage(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "invoice.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("fake-image-bytes"), 0644))

	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		_, _ = w.Write([]byte(`[{"answer":"us-001","score":0.42}]`))
	})
	answerer := NewVisualAnswerer("test/model", client)

	predictions, err := answerer.Answer(context.Background(), imagePath, "What is the invoice number?")
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	require.Equal(t, "us-001", predictions[0].Answer)

	inputs := gotBody["inputs"].(map[string]any)
	require.Equal(t, "What is the invoice number?", inputs["question"])
	require.NotEmpty(t, inputs["image"])
}
