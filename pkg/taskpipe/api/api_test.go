package api

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
	infragemini "avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/gemini"
)

func newTestAPI(t *testing.T, values map[string]any) API {
	t.Helper()
	if values == nil {
		values = map[string]any{}
	}
	values[ConfigKeyLogPath] = filepath.Join(t.TempDir(), "log.txt")
	a := NewAPI(common.NewConfig(values))
	t.Cleanup(a.Stop)
	return a
}

func TestDefaultModels(t *testing.T) {
	a := newTestAPI(t, nil)

	for _, task := range a.Tasks() {
		models := a.Models(task)
		require.NotEmpty(t, models, string(task))
		require.Equal(t, BackendHFAPI, models[0].Backend, string(task))
	}
	require.Equal(t, "openai-community/gpt2", a.Models(domain.TaskTextGeneration)[0].ID)
	require.Equal(t, "sshleifer/distilbart-cnn-12-6", a.Models(domain.TaskSummarization)[0].ID)
}

func TestPipelineUsesTaskDefault(t *testing.T) {
	a := newTestAPI(t, nil)

	pipeline, err := a.Pipeline(domain.TaskTextClassification, DefaultPipelineOptions)
	require.NoError(t, err)
	require.Equal(t, domain.TaskTextClassification, pipeline.Task())
	require.Equal(t, "distilbert/distilbert-base-uncased-finetuned-sst-2-english", pipeline.ModelID())
}

func TestPipelineWithExplicitModel(t *testing.T) {
	a := newTestAPI(t, nil)
	a.Register(domain.ModelCard{ID: "my-org/my-classifier", Task: domain.TaskTextClassification, Backend: BackendHFAPI})

	pipeline, err := a.Pipeline(domain.TaskTextClassification, DefaultPipelineOptions.WithModel("my-org/my-classifier"))
	require.NoError(t, err)
	require.Equal(t, "my-org/my-classifier", pipeline.ModelID())
}

func TestPipelineUnknownModel(t *testing.T) {
	a := newTestAPI(t, nil)

	_, err := a.Pipeline(domain.TaskTextClassification, DefaultPipelineOptions.WithModel("nobody/registered-this"))
	require.ErrorIs(t, err, domain.ErrNoModel)
}

func TestPipelineModelOfAnotherTaskIsRejected(t *testing.T) {
	a := newTestAPI(t, nil)

	_, err := a.Pipeline(domain.TaskSummarization, DefaultPipelineOptions.WithModel("openai-community/gpt2"))
	require.ErrorIs(t, err, domain.ErrNoModel)
}

func TestOptionalBackendsStayUnregisteredWithoutConfig(t *testing.T) {
	a := newTestAPI(t, nil)

	for _, card := range a.Models(domain.TaskTextGeneration) {
		require.Equal(t, BackendHFAPI, card.Backend)
	}
}

func TestGeminiModelsAreRegisteredWithKey(t *testing.T) {
	a := newTestAPI(t, map[string]any{
		infragemini.ConfigKeyAPIKey: "fake-key",
		ConfigKeyGeminiModel:        "gemini-2.5-flash",
	})

	var found bool
	for _, card := range a.Models(domain.TaskVisualQuestionAnswering) {
		if card.Backend == BackendGemini {
			found = true
			require.Equal(t, "vqa/gemini-2.5-flash", card.ID)
		}
	}
	require.True(t, found)
	// The hosted default keeps serving the task.
	require.Equal(t, BackendHFAPI, a.Models(domain.TaskVisualQuestionAnswering)[0].Backend)
}

func TestLlamaCppModelsAreRegisteredWithConfig(t *testing.T) {
	a := newTestAPI(t, map[string]any{ConfigKeyLlamaCppModelFile: "ggml-model.gguf"})

	pipeline, err := a.Pipeline(domain.TaskTextGeneration, DefaultPipelineOptions.WithModel("local/ggml-model.gguf"))
	require.NoError(t, err)
	require.Equal(t, "local/ggml-model.gguf", pipeline.ModelID())
}
