package hfapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"

	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/media"
)

// The hosted API returns classification results as a list of label/score records; for text
// models the list is wrapped in an extra one-element list.
type scoredLabel struct {
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
	Answer string  `json:"answer"`
}

func toPredictions(labels []scoredLabel) []domain.Prediction {
	predictions := make([]domain.Prediction, 0, len(labels))
	for _, label := range labels {
		predictions = append(predictions, domain.Prediction{
			Label:  label.Label,
			Answer: label.Answer,
			Score:  label.Score,
		})
	}
	return predictions
}

type textClassifier struct {
	client *Client
	model  string
}

func NewTextClassifier(model string, client *Client) domain.TextClassifier {
	return &textClassifier{client: client, model: model}
}

func (t *textClassifier) Classify(ctx context.Context, text string) ([]domain.Prediction, error) {
	payload := struct {
		Inputs string `json:"inputs"`
	}{Inputs: text}
	var raw json.RawMessage
	if err := t.client.PostJSON(ctx, t.model, payload, &raw); err != nil {
		return nil, err
	}
	// Either [[{label,score}]] or [{label,score}] depending on the model.
	var nested [][]scoredLabel
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return toPredictions(nested[0]), nil
	}
	var flat []scoredLabel
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	return toPredictions(flat), nil
}

type mediaClassifier struct {
	client *Client
	model  string
}

func NewMediaClassifier(model string, client *Client) domain.MediaClassifier {
	return &mediaClassifier{client: client, model: model}
}

func (m *mediaClassifier) ClassifyFile(ctx context.Context, filePath string) ([]domain.Prediction, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var labels []scoredLabel
	if err := m.client.PostBytes(ctx, m.model, media.MIMEType(filePath), data, &labels); err != nil {
		return nil, err
	}
	return toPredictions(labels), nil
}

type transcriber struct {
	client *Client
	model  string
}

func NewTranscriber(model string, client *Client) domain.Transcriber {
	return &transcriber{client: client, model: model}
}

func (t *transcriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	var response struct {
		Text string `json:"text"`
	}
	if err := t.client.PostBytes(ctx, t.model, media.MIMEType(filePath), data, &response); err != nil {
		return "", err
	}
	return response.Text, nil
}

type visualAnswerer struct {
	client *Client
	model  string
}

func NewVisualAnswerer(model string, client *Client) domain.VisualAnswerer {
	return &visualAnswerer{client: client, model: model}
}

func (v *visualAnswerer) Answer(ctx context.Context, imagePath string, question string) ([]domain.Prediction, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, err
	}
	payload := struct {
		Inputs struct {
			Image    string `json:"image"`
			Question string `json:"question"`
		} `json:"inputs"`
	}{}
	payload.Inputs.Image = base64.StdEncoding.EncodeToString(data)
	payload.Inputs.Question = question
	var answers []scoredLabel
	if err := v.client.PostJSON(ctx, v.model, payload, &answers); err != nil {
		return nil, err
	}
	return toPredictions(answers), nil
}
