package mediaclass

import (
	"context"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

// ConfigKeyDefaultTopK how many best-scored labels to keep when the caller doesn't say
const ConfigKeyDefaultTopK = "mediaClassifyDefaultTopK"

// Audio and image classification share the same call contract (a media file in, scored labels
// out), so one pipeline serves both, parameterized by the task.
type pipeline struct {
	task        domain.Task
	modelID     string
	classifier  domain.MediaClassifier
	fetcher     domain.MediaFetcher
	defaultTopK int
}

func NewAudioPipeline(modelID string, classifier domain.MediaClassifier, fetcher domain.MediaFetcher, config *common.Config) domain.Pipeline {
	return newPipeline(domain.TaskAudioClassification, modelID, classifier, fetcher, config)
}

func NewImagePipeline(modelID string, classifier domain.MediaClassifier, fetcher domain.MediaFetcher, config *common.Config) domain.Pipeline {
	return newPipeline(domain.TaskImageClassification, modelID, classifier, fetcher, config)
}

func newPipeline(task domain.Task, modelID string, classifier domain.MediaClassifier, fetcher domain.MediaFetcher, config *common.Config) domain.Pipeline {
	return &pipeline{
		task:        task,
		modelID:     modelID,
		classifier:  classifier,
		fetcher:     fetcher,
		defaultTopK: config.GetIntOrDefault(ConfigKeyDefaultTopK, 5),
	}
}

func (p *pipeline) Task() domain.Task {
	return p.task
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
		if err := input.Validate(p.task); err != nil {
			return nil, err
		}
		filePath, cleanup, err := domain.StageMedia(ctx, p.fetcher, input)
		if err != nil {
			return nil, err
		}
		predictions, err := p.classifier.ClassifyFile(ctx, filePath)
		cleanup()
		if err != nil {
			return nil, err
		}
		results = append(results, domain.CutTopK(predictions, topK))
	}
	return results, nil
}
