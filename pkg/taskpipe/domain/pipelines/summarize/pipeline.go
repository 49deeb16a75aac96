package summarize

import (
	"context"
	"fmt"
	"strings"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

const (
	// ConfigKeyChunkWordCount inputs longer than this many words are summarized chunk by chunk first
	ConfigKeyChunkWordCount = "summaryChunkWordCount"
	// ConfigKeyDefaultMaxNewTokens the default upper bound on the summary length
	ConfigKeyDefaultMaxNewTokens = "summaryDefaultMaxNewTokens"
)

// Summarizer condenses one piece of text which already fits the model. Dedicated summarization
// models implement it directly; general-purpose generators are adapted via NewGeneratorSummarizer.
type Summarizer interface {
	Summarize(ctx context.Context, text string, options domain.RunOptions) (string, error)
}

const summaryPromptFormat = "Summarize the following text in a few sentences. Reply with the summary only.\n\nText: %s\n\nSummary:"

type generatorSummarizer struct {
	generator domain.Generator
}

// NewGeneratorSummarizer adapts a free-form text generator into a Summarizer with an
// instruction prompt.
func NewGeneratorSummarizer(generator domain.Generator) Summarizer {
	return &generatorSummarizer{generator: generator}
}

func (g *generatorSummarizer) Summarize(ctx context.Context, text string, options domain.RunOptions) (string, error) {
	sequences, err := g.generator.Generate(ctx, fmt.Sprintf(summaryPromptFormat, text), options.WithReturnCount(1))
	if err != nil {
		return "", err
	}
	if len(sequences) == 0 {
		return "", fmt.Errorf("the model returned no summary")
	}
	return strings.TrimSpace(sequences[0]), nil
}

type pipeline struct {
	modelID             string
	summarizer          Summarizer
	chunkWordCount      int
	defaultMaxNewTokens int
}

// NewPipeline builds a summarization pipeline. Long inputs are split into word windows, each
// window is summarized on its own, and the partial summaries are folded into a final one with
// one more summarizer call.
func NewPipeline(modelID string, summarizer Summarizer, config *common.Config) domain.Pipeline {
	return &pipeline{
		modelID:             modelID,
		summarizer:          summarizer,
		chunkWordCount:      config.GetIntOrDefault(ConfigKeyChunkWordCount, 800),
		defaultMaxNewTokens: config.GetIntOrDefault(ConfigKeyDefaultMaxNewTokens, 160),
	}
}

func (p *pipeline) Task() domain.Task {
	return domain.TaskSummarization
}

func (p *pipeline) ModelID() string {
	return p.modelID
}

func (p *pipeline) Run(ctx context.Context, inputs []domain.Input, options domain.RunOptions) ([][]domain.Prediction, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	options = options.WithMaxNewTokens(options.MaxNewTokensOrDefault(p.defaultMaxNewTokens))
	results := make([][]domain.Prediction, 0, len(inputs))
	for _, input := range inputs {
		if err := input.Validate(p.Task()); err != nil {
			return nil, err
		}
		summary, err := p.summarize(ctx, input.Text, options)
		if err != nil {
			return nil, err
		}
		results = append(results, []domain.Prediction{{GeneratedText: summary}})
	}
	return results, nil
}

func (p *pipeline) summarize(ctx context.Context, text string, options domain.RunOptions) (string, error) {
	chunks := splitIntoChunks(text, p.chunkWordCount)
	if len(chunks) == 1 {
		return p.summarizer.Summarize(ctx, chunks[0], options)
	}
	partialSummaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		partialSummary, err := p.summarizer.Summarize(ctx, chunk, options)
		if err != nil {
			return "", err
		}
		partialSummaries = append(partialSummaries, partialSummary)
	}
	// The joined partial summaries may still be long, but they shrink with every level, so one
	// extra pass is enough in practice.
	return p.summarizer.Summarize(ctx, strings.Join(partialSummaries, " "), options)
}

func splitIntoChunks(text string, chunkWordCount int) []string {
	words := strings.Fields(text)
	if len(words) <= chunkWordCount {
		return []string{text}
	}
	var chunks []string
	for start := 0; start < len(words); start += chunkWordCount {
		end := start + chunkWordCount
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
