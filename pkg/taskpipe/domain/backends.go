package domain

import "context"

// Backends do the actual model inference, delegating to an external engine or service.
// Pipelines own everything around them: input validation, fetching remote media,
// chunking, score ordering and top-k cuts.

// Generator produces free-form text continuations of a prompt.
type Generator interface {
	// Generate returns `options.ReturnCount` alternative continuations of `prompt`.
	// Engines without native support for multiple candidates sample repeatedly.
	Generate(ctx context.Context, prompt string, options RunOptions) ([]string, error)
}

// TextClassifier assigns scored labels to a text.
type TextClassifier interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

// MediaClassifier assigns scored labels to a media file (image or audio) on local disk.
type MediaClassifier interface {
	ClassifyFile(ctx context.Context, filePath string) ([]Prediction, error)
}

// Transcriber converts speech audio on local disk to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// VisualAnswerer answers a question about an image on local disk.
type VisualAnswerer interface {
	Answer(ctx context.Context, imagePath string, question string) ([]Prediction, error)
}

// MediaFetcher stages a remote media URL into a local file so that backends only ever deal
// with local paths.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
