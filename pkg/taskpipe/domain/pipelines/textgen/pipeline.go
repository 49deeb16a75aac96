package textgen

import (
	"context"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

const (
	// ConfigKeyDefaultReturnCount how many alternative continuations to produce when the caller doesn't say
	ConfigKeyDefaultReturnCount = "textGenDefaultReturnCount"
	// ConfigKeyDefaultMaxNewTokens the default upper bound on continuation length
	ConfigKeyDefaultMaxNewTokens = "textGenDefaultMaxNewTokens"
	// ConfigKeyDefaultTemperature how creative the output is when the caller doesn't say
	ConfigKeyDefaultTemperature = "textGenDefaultTemperature"
)

type pipeline struct {
	modelID             string
	generator           domain.Generator
	defaultReturnCount  int
	defaultMaxNewTokens int
	defaultTemperature  float64
}

// NewPipeline builds a text generation pipeline: each input prompt yields ReturnCount alternative
// continuations, each returned as the prompt followed by the continuation.
func NewPipeline(modelID string, generator domain.Generator, config *common.Config) domain.Pipeline {
	return &pipeline{
		modelID:             modelID,
		generator:           generator,
		defaultReturnCount:  config.GetIntOrDefault(ConfigKeyDefaultReturnCount, 1),
		defaultMaxNewTokens: config.GetIntOrDefault(ConfigKeyDefaultMaxNewTokens, 200),
		defaultTemperature:  config.GetFloatOrDefault(ConfigKeyDefaultTemperature, 0.7),
	}
}

func (p *pipeline) Task() domain.Task {
	return domain.TaskTextGeneration
}

func (p *pipeline) ModelID() string {
	return p.modelID
}

func (p *pipeline) Run(ctx context.Context, inputs []domain.Input, options domain.RunOptions) ([][]domain.Prediction, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	options = options.
		WithReturnCount(options.ReturnCountOrDefault(p.defaultReturnCount)).
		WithMaxNewTokens(options.MaxNewTokensOrDefault(p.defaultMaxNewTokens)).
		WithTemperature(options.TemperatureOrDefault(p.defaultTemperature))
	results := make([][]domain.Prediction, 0, len(inputs))
	for _, input := range inputs {
		if err := input.Validate(p.Task()); err != nil {
			return nil, err
		}
		sequences, err := p.generator.Generate(ctx, input.Text, options)
		if err != nil {
			return nil, err
		}
		predictions := make([]domain.Prediction, 0, len(sequences))
		for _, sequence := range sequences {
			predictions = append(predictions, domain.Prediction{GeneratedText: input.Text + sequence})
		}
		results = append(results, predictions)
	}
	return results, nil
}
