package logging

import (
	"context"
	"fmt"
	"time"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

type pipelineDecorator struct {
	wrappedPipeline domain.Pipeline
	logger          common.Logger
}

// NewPipelineDecorator logs every run of the wrapped pipeline: the task, the model, the input
// count and how long inference took.
func NewPipelineDecorator(wrappedPipeline domain.Pipeline, logger common.Logger) domain.Pipeline {
	return &pipelineDecorator{
		wrappedPipeline: wrappedPipeline,
		logger:          logger,
	}
}

func (p *pipelineDecorator) Task() domain.Task {
	return p.wrappedPipeline.Task()
}

func (p *pipelineDecorator) ModelID() string {
	return p.wrappedPipeline.ModelID()
}

func (p *pipelineDecorator) Run(ctx context.Context, inputs []domain.Input, options domain.RunOptions) ([][]domain.Prediction, error) {
	p.logger.Log(fmt.Sprintf("\"%s\" (model \"%s\"): running %d input(s)", p.Task(), p.ModelID(), len(inputs)))
	t := time.Now()
	results, err := p.wrappedPipeline.Run(ctx, inputs, options)
	if err != nil {
		p.logger.Log(fmt.Sprintf("\"%s\" (model \"%s\"): failed after %d ms: %s", p.Task(), p.ModelID(), time.Since(t).Milliseconds(), err.Error()))
		return nil, err
	}
	p.logger.Log(fmt.Sprintf("\"%s\" (model \"%s\"): done in %d ms", p.Task(), p.ModelID(), time.Since(t).Milliseconds()))
	return results, nil
}
