package domain

import (
	"context"
	"errors"
	"io"
)

// Dataset is a streaming source of inference inputs, for feeding a pipeline without materializing
// everything in memory first. Next returns io.EOF when the source is exhausted.
type Dataset interface {
	Next(ctx context.Context) (Input, error)
}

// DatasetResult is one processed dataset entry. Err is set when this particular input failed;
// the stream keeps going so that one broken entry doesn't abort a long run.
type DatasetResult struct {
	Input       Input
	Predictions []Prediction
	Err         error
}

// RunDataset pulls inputs from the dataset one by one and streams predictions on the returned
// channel. The channel is closed when the dataset ends, the dataset fails, or the context is
// canceled.
func RunDataset(ctx context.Context, pipeline Pipeline, dataset Dataset, options RunOptions) <-chan DatasetResult {
	results := make(chan DatasetResult)
	go func() {
		defer close(results)
		for {
			input, err := dataset.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case results <- DatasetResult{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			predictions, err := RunOne(ctx, pipeline, input, options)
			select {
			case results <- DatasetResult{Input: input, Predictions: predictions, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return results
}

// SliceDataset adapts a fixed list of inputs to the Dataset interface. Useful in tests and for
// frontends which read inputs from a file.
type SliceDataset struct {
	inputs []Input
	index  int
}

func NewSliceDataset(inputs []Input) *SliceDataset {
	return &SliceDataset{inputs: inputs}
}

func (s *SliceDataset) Next(_ context.Context) (Input, error) {
	if s.index >= len(s.inputs) {
		return Input{}, io.EOF
	}
	input := s.inputs[s.index]
	s.index++
	return input, nil
}
