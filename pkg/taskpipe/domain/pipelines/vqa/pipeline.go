package vqa

import (
	"context"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

// ConfigKeyDefaultTopK how many best-scored answers to keep when the caller doesn't say
const ConfigKeyDefaultTopK = "vqaDefaultTopK"

type pipeline struct {
	modelID     string
	answerer    domain.VisualAnswerer
	fetcher     domain.MediaFetcher
	defaultTopK int
}

// NewPipeline builds a visual question answering pipeline: each image+question input yields
// the top-k scored answers, best first.
func NewPipeline(modelID string, answerer domain.VisualAnswerer, fetcher domain.MediaFetcher, config *common.Config) domain.Pipeline {
	return &pipeline{
		modelID:     modelID,
		answerer:    answerer,
		fetcher:     fetcher,
		defaultTopK: config.GetIntOrDefault(ConfigKeyDefaultTopK, 5),
	}
}

func (p *pipeline) Task() domain.Task {
	return domain.TaskVisualQuestionAnswering
}

func (p *pipeline) ModelID() string {
	return p.modelID
}

func (p *pipeline) Run(ctx context.Context, inputs []domain.Input, options domain.RunOptions) ([][]domain.Prediction, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	topK := options.TopKOrDefault(p.defaultTopK)
	results := make([][]domain.Prediction, 0, len(inputs))
	for _, input := range inputs {
		if err := input.Validate(p.Task()); err != nil {
			return nil, err
		}
		imagePath, cleanup, err := domain.StageMedia(ctx, p.fetcher, input)
		if err != nil {
			return nil, err
		}
		predictions, err := p.answerer.Answer(ctx, imagePath, input.Question)
		cleanup()
		if err != nil {
			return nil, err
		}
		results = append(results, domain.CutTopK(predictions, topK))
	}
	return results, nil
}
