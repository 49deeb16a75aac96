package hfapi

import (
	"context"
	"fmt"
	"strings"

	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain/pipelines/summarize"
)

type generationParameters struct {
	NumReturnSequences int     `json:"num_return_sequences,omitempty"`
	MaxNewTokens       int     `json:"max_new_tokens,omitempty"`
	Temperature        float64 `json:"temperature,omitempty"`
	DoSample           bool    `json:"do_sample,omitempty"`
	ReturnFullText     *bool   `json:"return_full_text,omitempty"`
}

type generator struct {
	client *Client
	model  string
}

// NewGenerator runs text generation on a hosted model. The API supports multiple return
// sequences natively.
func NewGenerator(model string, client *Client) domain.Generator {
	return &generator{client: client, model: model}
}

func (g *generator) Generate(ctx context.Context, prompt string, options domain.RunOptions) ([]string, error) {
	returnFullText := false
	count := options.ReturnCountOrDefault(1)
	payload := struct {
		Inputs     string               `json:"inputs"`
		Parameters generationParameters `json:"parameters"`
	}{
		Inputs: prompt,
		Parameters: generationParameters{
			NumReturnSequences: count,
			MaxNewTokens:       options.MaxNewTokensOrDefault(200),
			Temperature:        options.TemperatureOrDefault(0.7),
			DoSample:           count > 1,
			ReturnFullText:     &returnFullText,
		},
	}
	var response []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := g.client.PostJSON(ctx, g.model, payload, &response); err != nil {
		return nil, err
	}
	if len(response) == 0 {
		return nil, fmt.Errorf("model \"%s\" returned no sequences", g.model)
	}
	sequences := make([]string, 0, len(response))
	for _, item := range response {
		sequences = append(sequences, item.GeneratedText)
	}
	return sequences, nil
}

type summarizer struct {
	client *Client
	model  string
}

// NewSummarizer runs a dedicated hosted summarization model. Unlike the generator adapter, the
// text is sent as is, with no instruction prompt around it.
func NewSummarizer(model string, client *Client) summarize.Summarizer {
	return &summarizer{client: client, model: model}
}

func (s *summarizer) Summarize(ctx context.Context, text string, options domain.RunOptions) (string, error) {
	payload := struct {
		Inputs     string               `json:"inputs"`
		Parameters generationParameters `json:"parameters"`
	}{
		Inputs: text,
		Parameters: generationParameters{
			MaxNewTokens: options.MaxNewTokensOrDefault(160),
		},
	}
	var response []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := s.client.PostJSON(ctx, s.model, payload, &response); err != nil {
		return "", err
	}
	if len(response) == 0 {
		return "", fmt.Errorf("model \"%s\" returned no summary", s.model)
	}
	return strings.TrimSpace(response[0].SummaryText), nil
}
