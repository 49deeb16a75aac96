package domain

import "fmt"

var DefaultRunOptions = RunOptions{}

// RunOptions are per-call knobs. Zero values mean "use the pipeline's default". Options which
// don't apply to a task are ignored by its pipeline.
type RunOptions struct {
	// ReturnCount how many alternative outputs to produce per input (generation tasks).
	ReturnCount int
	// TopK keep only this many best-scored predictions per input (classification tasks).
	TopK int
	// MaxNewTokens an upper bound on the length of generated continuations.
	MaxNewTokens int
	// Temperature how creative the output is (generation tasks).
	Temperature float64
}

func (r RunOptions) WithReturnCount(value int) RunOptions {
	r.ReturnCount = value
	return r
}

func (r RunOptions) WithTopK(value int) RunOptions {
	r.TopK = value
	return r
}

func (r RunOptions) WithMaxNewTokens(value int) RunOptions {
	r.MaxNewTokens = value
	return r
}

func (r RunOptions) WithTemperature(value float64) RunOptions {
	r.Temperature = value
	return r
}

func (r RunOptions) ReturnCountOrDefault(defaultValue int) int {
	if r.ReturnCount == 0 {
		return defaultValue
	}
	return r.ReturnCount
}

func (r RunOptions) TopKOrDefault(defaultValue int) int {
	if r.TopK == 0 {
		return defaultValue
	}
	return r.TopK
}

func (r RunOptions) MaxNewTokensOrDefault(defaultValue int) int {
	if r.MaxNewTokens == 0 {
		return defaultValue
	}
	return r.MaxNewTokens
}

func (r RunOptions) TemperatureOrDefault(defaultValue float64) float64 {
	if r.Temperature == 0.0 {
		return defaultValue
	}
	return r.Temperature
}

// Validate rejects values outside their valid range. Zero values are valid ("use the default").
func (r RunOptions) Validate() error {
	if r.ReturnCount < 0 {
		return fmt.Errorf("%w: return count must be positive, got %d", ErrBadOption, r.ReturnCount)
	}
	if r.TopK < 0 {
		return fmt.Errorf("%w: top-k must be positive, got %d", ErrBadOption, r.TopK)
	}
	if r.MaxNewTokens < 0 {
		return fmt.Errorf("%w: max new tokens must be positive, got %d", ErrBadOption, r.MaxNewTokens)
	}
	if r.Temperature < 0.0 {
		return fmt.Errorf("%w: temperature must be positive, got %f", ErrBadOption, r.Temperature)
	}
	return nil
}
