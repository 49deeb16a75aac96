package openaiapi

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

const (
	// ConfigKeyBaseURL endpoint of an OpenAI-compatible server (llama.cpp server, vLLM, or the real thing)
	ConfigKeyBaseURL = "openAIBaseURL"
	// ConfigKeyAPIKey the API key; local servers usually accept anything
	ConfigKeyAPIKey = "openAIAPIKey"
)

type generator struct {
	client *openai.Client
	model  string
}

// NewGenerator runs text generation against any server which speaks the OpenAI chat completion
// protocol. Unlike the subprocess engines, this one supports multiple return sequences natively
// via the request's N field.
func NewGenerator(model string, config *common.Config) domain.Generator {
	clientConfig := openai.DefaultConfig(config.GetStringOrDefault(ConfigKeyAPIKey, "none"))
	baseURL := config.GetString(ConfigKeyBaseURL)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &generator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (g *generator) Generate(ctx context.Context, prompt string, options domain.RunOptions) ([]string, error) {
	response, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		N:           options.ReturnCountOrDefault(1),
		MaxTokens:   options.MaxNewTokensOrDefault(200),
		Temperature: float32(options.TemperatureOrDefault(0.7)),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion with \"%s\" failed: %w", g.model, err)
	}
	sequences := make([]string, 0, len(response.Choices))
	for _, choice := range response.Choices {
		sequences = append(sequences, choice.Message.Content)
	}
	return sequences, nil
}
