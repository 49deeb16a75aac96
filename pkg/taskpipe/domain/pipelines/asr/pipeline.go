package asr

import (
	"context"
	"strings"

	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

type pipeline struct {
	modelID     string
	transcriber domain.Transcriber
	fetcher     domain.MediaFetcher
}

// NewPipeline builds a speech recognition pipeline: each audio input yields a single prediction
// carrying the transcribed text.
func NewPipeline(modelID string, transcriber domain.Transcriber, fetcher domain.MediaFetcher) domain.Pipeline {
	return &pipeline{
		modelID:     modelID,
		transcriber: transcriber,
		fetcher:     fetcher,
	}
}

func (p *pipeline) Task() domain.Task {
	return domain.TaskSpeechRecognition
}

func (p *pipeline) ModelID() string {
	return p.modelID
}

func (p *pipeline) Run(ctx context.Context, inputs []domain.Input, options domain.RunOptions) ([][]domain.Prediction, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	results := make([][]domain.Prediction, 0, len(inputs))
	for _, input := range inputs {
		if err := input.Validate(p.Task()); err != nil {
			return nil, err
		}
		filePath, cleanup, err := domain.StageMedia(ctx, p.fetcher, input)
		if err != nil {
			return nil, err
		}
		text, err := p.transcriber.Transcribe(ctx, filePath)
		cleanup()
		if err != nil {
			return nil, err
		}
		results = append(results, []domain.Prediction{{Text: strings.TrimSpace(text)}})
	}
	return results, nil
}
