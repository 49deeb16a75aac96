package domain

import "context"

// Pipeline is the caller-facing inference abstraction: it is constructed for one task and one model
// and turns inputs into prediction records. Implementations wrap a backend with the task's
// pre- and post-processing (fetching remote media, chunking long text, sorting scores).
type Pipeline interface {
	// Task the task this pipeline was constructed for.
	Task() Task
	// ModelID the identifier of the model serving this pipeline. Useful for debugging and cache keys.
	ModelID() string
	// Run produces one prediction list per input, in input order. An empty input list yields an
	// empty result and no error. Implementations must be safe for concurrent use.
	Run(ctx context.Context, inputs []Input, options RunOptions) ([][]Prediction, error)
}

// RunOne is a convenience wrapper for the common single-input case.
func RunOne(ctx context.Context, pipeline Pipeline, input Input, options RunOptions) ([]Prediction, error) {
	results, err := pipeline.Run(ctx, []Input{input}, options)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}
