package classify

import (
	"context"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

// ConfigKeyDefaultTopK how many best-scored labels to keep when the caller doesn't say
const ConfigKeyDefaultTopK = "classifyDefaultTopK"

type pipeline struct {
	modelID     string
	classifier  domain.TextClassifier
	defaultTopK int
}

// NewPipeline builds a text classification pipeline: each input text yields the top-k scored
// labels, best first.
func NewPipeline(modelID string, classifier domain.TextClassifier, config *common.Config) domain.Pipeline {
	return &pipeline{
		modelID:     modelID,
		classifier:  classifier,
		defaultTopK: config.GetIntOrDefault(ConfigKeyDefaultTopK, 5),
	}
}

func (p *pipeline) Task() domain.Task {
	return domain.TaskTextClassification
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
		predictions, err := p.classifier.Classify(ctx, input.Text)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.CutTopK(predictions, topK))
	}
	return results, nil
}
