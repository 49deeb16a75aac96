package domain

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	task    Task
	modelID string
	runFunc func(ctx context.Context, inputs []Input, options RunOptions) ([][]Prediction, error)
}

func (f *fakePipeline) Task() Task {
	return f.task
}

func (f *fakePipeline) ModelID() string {
	return f.modelID
}

func (f *fakePipeline) Run(ctx context.Context, inputs []Input, options RunOptions) ([][]Prediction, error) {
	return f.runFunc(ctx, inputs, options)
}

func TestSliceDataset(t *testing.T) {
	dataset := NewSliceDataset([]Input{TextInput("a"), TextInput("b")})
	ctx := context.Background()

	input, err := dataset.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", input.Text)
	input, err = dataset.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", input.Text)
	_, err = dataset.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestRunDataset(t *testing.T) {
	pipeline := &fakePipeline{
		task:    TaskTextClassification,
		modelID: "fake",
		runFunc: func(_ context.Context, inputs []Input, _ RunOptions) ([][]Prediction, error) {
			if inputs[0].Text == "broken" {
				return nil, errors.New("model exploded")
			}
			return [][]Prediction{{{Label: "ok:" + inputs[0].Text, Score: 1.0}}}, nil
		},
	}
	dataset := NewSliceDataset([]Input{TextInput("a"), TextInput("broken"), TextInput("b")})

	var results []DatasetResult
	for result := range RunDataset(context.Background(), pipeline, dataset, DefaultRunOptions) {
		results = append(results, result)
	}
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.Equal(t, "ok:a", results[0].Predictions[0].Label)
	// One broken entry doesn't abort the stream.
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)
	require.Equal(t, "ok:b", results[2].Predictions[0].Label)
}

func TestRunDatasetCanceled(t *testing.T) {
	pipeline := &fakePipeline{
		task:    TaskTextClassification,
		modelID: "fake",
		runFunc: func(_ context.Context, inputs []Input, _ RunOptions) ([][]Prediction, error) {
			return [][]Prediction{{}}, nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := RunDataset(ctx, pipeline, NewSliceDataset([]Input{TextInput("a")}), DefaultRunOptions)
	// The channel must close even though nobody consumed the pending result.
	for range results {
	}
}
