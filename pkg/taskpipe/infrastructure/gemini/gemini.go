package gemini

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/media"
)

// ConfigKeyAPIKey the Gemini API key
const ConfigKeyAPIKey = "geminiAPIKey"

// NewClient connects to the Gemini API using the key from the config (or the GEMINI_API_KEY
// environment variable as a fallback).
func NewClient(ctx context.Context, config *common.Config) (*genai.Client, error) {
	apiKey := config.GetStringOrDefault(ConfigKeyAPIKey, os.Getenv("GEMINI_API_KEY"))
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

type generator struct {
	client *genai.Client
	model  string
}

// NewGenerator runs text generation on a hosted Gemini model. The API can serve several
// candidates per request via CandidateCount.
func NewGenerator(model string, client *genai.Client) domain.Generator {
	return &generator{
		client: client,
		model:  model,
	}
}

func (g *generator) Generate(ctx context.Context, prompt string, options domain.RunOptions) ([]string, error) {
	maxNewTokens := int32(options.MaxNewTokensOrDefault(200))
	temperature := float32(options.TemperatureOrDefault(0.7))
	response, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			CandidateCount:  int32(options.ReturnCountOrDefault(1)),
			MaxOutputTokens: maxNewTokens,
			Temperature:     &temperature,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with \"%s\": %w", g.model, err)
	}
	sequences := make([]string, 0, len(response.Candidates))
	for _, candidate := range response.Candidates {
		var text string
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				text += part.Text
			}
		}
		sequences = append(sequences, text)
	}
	return sequences, nil
}

type answerer struct {
	client *genai.Client
	model  string
}

// NewAnswerer answers questions about images with a multimodal Gemini model. The API reports
// no answer confidence, so answers carry a score of 1.
func NewAnswerer(model string, client *genai.Client) domain.VisualAnswerer {
	return &answerer{
		client: client,
		model:  model,
	}
}

func (a *answerer) Answer(ctx context.Context, imagePath string, question string) ([]domain.Prediction, error) {
	response, err := generateWithFile(ctx, a.client, a.model, imagePath, question)
	if err != nil {
		return nil, err
	}
	return []domain.Prediction{{Answer: response, Score: 1.0}}, nil
}

type transcriber struct {
	client *genai.Client
	model  string
}

const transcribePrompt = "Transcribe this audio verbatim. Reply with the transcription only."

// NewTranscriber converts speech to text with a multimodal Gemini model.
func NewTranscriber(model string, client *genai.Client) domain.Transcriber {
	return &transcriber{
		client: client,
		model:  model,
	}
}

func (t *transcriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	return generateWithFile(ctx, t.client, t.model, filePath, transcribePrompt)
}

func generateWithFile(ctx context.Context, client *genai.Client, model, filePath, prompt string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		{
			InlineData: &genai.Blob{
				MIMEType: media.MIMEType(filePath),
				Data:     data,
			},
		},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	response, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", fmt.Errorf("failed to generate content with \"%s\": %w", model, err)
	}
	return response.Text(), nil
}
