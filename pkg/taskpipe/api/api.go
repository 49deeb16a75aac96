package api

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain/pipelines/asr"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain/pipelines/classify"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain/pipelines/mediaclass"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain/pipelines/summarize"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain/pipelines/textgen"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain/pipelines/vqa"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/cached"
	infragemini "avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/gemini"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/hfapi"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/llamacpp"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/llavacpp"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/logging"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/media"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/openaiapi"
)

const (
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyCacheEnabled whether predictions are memoized in memory
	ConfigKeyCacheEnabled = "predictionCacheEnabled"
	// ConfigKeyLlamaCppModelFile registering this GGUF file adds a local text generation model
	ConfigKeyLlamaCppModelFile = "llamaCppModelFile"
	// ConfigKeyOpenAIModel registering this model adds an OpenAI-compatible text generation model
	ConfigKeyOpenAIModel = "openAIModel"
	// ConfigKeyGeminiModel the Gemini model used when the Gemini API key is configured
	ConfigKeyGeminiModel = "geminiModel"
)

// Backend names as used in model cards.
const (
	BackendHFAPI    = "hfapi"
	BackendLlamaCpp = "llamacpp"
	BackendLlavaCpp = "llavacpp"
	BackendOpenAI   = "openai"
	BackendGemini   = "gemini"
)

var DefaultPipelineOptions = PipelineOptions{}

// PipelineOptions are construction-time knobs: which model serves the pipeline (default: the
// task's registered default) and whether prediction caching is bypassed.
type PipelineOptions struct {
	Model   string
	NoCache bool
}

func (p PipelineOptions) WithModel(value string) PipelineOptions {
	p.Model = value
	return p
}

func (p PipelineOptions) WithoutCache() PipelineOptions {
	p.NoCache = true
	return p
}

// API is the entrypoint to taskpipe. It shouldn't contain any logic of its own; it glues the
// registry, the backends and the decorators together. It can be used in various contexts: a
// console, an IRC chat, an HTTP server etc.
type API interface {
	// Pipeline constructs a pipeline for the given task, served by the task's default model
	// unless overridden via PipelineOptions.
	Pipeline(task domain.Task, options PipelineOptions) (domain.Pipeline, error)
	// Tasks lists all supported tasks.
	Tasks() []domain.Task
	// Models lists the models registered for the task, default first.
	Models(task domain.Task) []domain.ModelCard
	// Register adds a model card, e.g. for a custom self-hosted model.
	Register(card domain.ModelCard)
	// Stop flushes background work (pending cache writes). Call it on shutdown.
	Stop()
}

type api struct {
	config          *common.Config
	logger          common.Logger
	jobQueue        *common.JobQueue
	registry        *domain.Registry
	hfClient        *hfapi.Client
	fetcher         domain.MediaFetcher
	predictionCache *cached.Cache
	cacheEnabled    bool

	geminiOnce   sync.Once
	geminiClient *genai.Client
	geminiErr    error
}

func NewAPI(config *common.Config) API {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	a := &api{
		config:          config,
		logger:          logger,
		jobQueue:        common.NewJobQueue(logger),
		registry:        domain.NewRegistry(),
		hfClient:        hfapi.NewClient(config),
		fetcher:         media.NewFetcher(),
		predictionCache: cached.NewCache(config),
		cacheEnabled:    config.GetBoolOrDefault(ConfigKeyCacheEnabled, true),
	}
	a.registerDefaultModels()
	return a
}

// The hosted defaults mirror what a caller gets when selecting a task without naming a model:
// a small well-known model per task, served by the hosted inference API.
func (a *api) registerDefaultModels() {
	a.registry.Register(domain.ModelCard{ID: "openai-community/gpt2", Task: domain.TaskTextGeneration, Backend: BackendHFAPI, Description: "small generic text generation model"})
	a.registry.Register(domain.ModelCard{ID: "sshleifer/distilbart-cnn-12-6", Task: domain.TaskSummarization, Backend: BackendHFAPI, Description: "news summarization model"})
	a.registry.Register(domain.ModelCard{ID: "distilbert/distilbert-base-uncased-finetuned-sst-2-english", Task: domain.TaskTextClassification, Backend: BackendHFAPI, Description: "binary sentiment model"})
	a.registry.Register(domain.ModelCard{ID: "superb/wav2vec2-base-superb-ks", Task: domain.TaskAudioClassification, Backend: BackendHFAPI, Description: "keyword spotting model"})
	a.registry.Register(domain.ModelCard{ID: "facebook/wav2vec2-base-960h", Task: domain.TaskSpeechRecognition, Backend: BackendHFAPI, Description: "English speech recognition model"})
	a.registry.Register(domain.ModelCard{ID: "google/vit-base-patch16-224", Task: domain.TaskImageClassification, Backend: BackendHFAPI, Description: "generic image classification model"})
	a.registry.Register(domain.ModelCard{ID: "dandelin/vilt-b32-finetuned-vqa", Task: domain.TaskVisualQuestionAnswering, Backend: BackendHFAPI, Description: "visual question answering model"})
	// Locally-served and third-party models join the registry when configured.
	if llamaModelFile := a.config.GetString(ConfigKeyLlamaCppModelFile); llamaModelFile != "" {
		a.registry.Register(domain.ModelCard{ID: "local/" + llamaModelFile, Task: domain.TaskTextGeneration, Backend: BackendLlamaCpp, Description: "local llama.cpp model"})
		a.registry.Register(domain.ModelCard{ID: "local-summary/" + llamaModelFile, Task: domain.TaskSummarization, Backend: BackendLlamaCpp, Description: "local llama.cpp model (instruction-prompted)"})
	}
	if a.config.GetString(llavacpp.ConfigKeyModelPath) != "" {
		a.registry.Register(domain.ModelCard{ID: "local/llava", Task: domain.TaskVisualQuestionAnswering, Backend: BackendLlavaCpp, Description: "local llava.cpp model"})
	}
	if openAIModel := a.config.GetString(ConfigKeyOpenAIModel); openAIModel != "" {
		a.registry.Register(domain.ModelCard{ID: openAIModel, Task: domain.TaskTextGeneration, Backend: BackendOpenAI, Description: "OpenAI-compatible chat model"})
		a.registry.Register(domain.ModelCard{ID: "summary/" + openAIModel, Task: domain.TaskSummarization, Backend: BackendOpenAI, Description: "OpenAI-compatible chat model (instruction-prompted)"})
	}
	if a.config.GetString(infragemini.ConfigKeyAPIKey) != "" {
		geminiModel := a.config.GetStringOrDefault(ConfigKeyGeminiModel, "gemini-2.5-flash")
		a.registry.Register(domain.ModelCard{ID: geminiModel, Task: domain.TaskTextGeneration, Backend: BackendGemini, Description: "hosted Gemini model"})
		a.registry.Register(domain.ModelCard{ID: "summary/" + geminiModel, Task: domain.TaskSummarization, Backend: BackendGemini, Description: "hosted Gemini model (instruction-prompted)"})
		a.registry.Register(domain.ModelCard{ID: "vqa/" + geminiModel, Task: domain.TaskVisualQuestionAnswering, Backend: BackendGemini, Description: "hosted Gemini model (multimodal)"})
		a.registry.Register(domain.ModelCard{ID: "asr/" + geminiModel, Task: domain.TaskSpeechRecognition, Backend: BackendGemini, Description: "hosted Gemini model (multimodal)"})
	}
}

func (a *api) Pipeline(task domain.Task, options PipelineOptions) (domain.Pipeline, error) {
	var card domain.ModelCard
	var err error
	if options.Model != "" {
		card, err = a.registry.Find(task, options.Model)
	} else {
		card, err = a.registry.Default(task)
	}
	if err != nil {
		return nil, err
	}
	pipeline, err := a.buildPipeline(task, card)
	if err != nil {
		return nil, err
	}
	pipeline = logging.NewPipelineDecorator(pipeline, a.logger)
	if a.cacheEnabled && !options.NoCache {
		// The cache is shared across Pipeline calls: frontends construct a pipeline per request
		// and a per-pipeline cache would never see a hit.
		pipeline = cached.NewPipelineDecorator(pipeline, a.predictionCache, a.jobQueue)
	}
	return pipeline, nil
}

func (a *api) buildPipeline(task domain.Task, card domain.ModelCard) (domain.Pipeline, error) {
	switch task {
	case domain.TaskTextGeneration:
		generator, err := a.buildGenerator(card)
		if err != nil {
			return nil, err
		}
		return textgen.NewPipeline(card.ID, generator, a.config), nil
	case domain.TaskSummarization:
		summarizer, err := a.buildSummarizer(card)
		if err != nil {
			return nil, err
		}
		return summarize.NewPipeline(card.ID, summarizer, a.config), nil
	case domain.TaskTextClassification:
		return classify.NewPipeline(card.ID, hfapi.NewTextClassifier(card.ID, a.hfClient), a.config), nil
	case domain.TaskAudioClassification:
		return mediaclass.NewAudioPipeline(card.ID, hfapi.NewMediaClassifier(card.ID, a.hfClient), a.fetcher, a.config), nil
	case domain.TaskImageClassification:
		return mediaclass.NewImagePipeline(card.ID, hfapi.NewMediaClassifier(card.ID, a.hfClient), a.fetcher, a.config), nil
	case domain.TaskSpeechRecognition:
		transcriber, err := a.buildTranscriber(card)
		if err != nil {
			return nil, err
		}
		return asr.NewPipeline(card.ID, transcriber, a.fetcher), nil
	case domain.TaskVisualQuestionAnswering:
		answerer, err := a.buildAnswerer(card)
		if err != nil {
			return nil, err
		}
		return vqa.NewPipeline(card.ID, answerer, a.fetcher, a.config), nil
	default:
		return nil, fmt.Errorf("%w: \"%s\"", domain.ErrUnknownTask, task)
	}
}

func (a *api) buildGenerator(card domain.ModelCard) (domain.Generator, error) {
	switch card.Backend {
	case BackendLlamaCpp:
		return llamacpp.NewGenerator(a.config.GetString(ConfigKeyLlamaCppModelFile), a.config, a.logger), nil
	case BackendOpenAI:
		return openaiapi.NewGenerator(card.ID, a.config), nil
	case BackendGemini:
		client, err := a.gemini()
		if err != nil {
			return nil, err
		}
		return infragemini.NewGenerator(card.ID, client), nil
	default:
		return hfapi.NewGenerator(card.ID, a.hfClient), nil
	}
}

func (a *api) buildSummarizer(card domain.ModelCard) (summarize.Summarizer, error) {
	if card.Backend == BackendHFAPI {
		return hfapi.NewSummarizer(card.ID, a.hfClient), nil
	}
	// "summary/<model>" cards are the same generator models, instruction-prompted.
	generatorCard := card
	generatorCard.ID = strings.TrimPrefix(card.ID, "summary/")
	generator, err := a.buildGenerator(generatorCard)
	if err != nil {
		return nil, err
	}
	return summarize.NewGeneratorSummarizer(generator), nil
}

func (a *api) buildTranscriber(card domain.ModelCard) (domain.Transcriber, error) {
	if card.Backend == BackendGemini {
		client, err := a.gemini()
		if err != nil {
			return nil, err
		}
		return infragemini.NewTranscriber(a.config.GetStringOrDefault(ConfigKeyGeminiModel, "gemini-2.5-flash"), client), nil
	}
	return hfapi.NewTranscriber(card.ID, a.hfClient), nil
}

func (a *api) buildAnswerer(card domain.ModelCard) (domain.VisualAnswerer, error) {
	switch card.Backend {
	case BackendLlavaCpp:
		return llavacpp.NewAnswerer(a.config), nil
	case BackendGemini:
		client, err := a.gemini()
		if err != nil {
			return nil, err
		}
		return infragemini.NewAnswerer(a.config.GetStringOrDefault(ConfigKeyGeminiModel, "gemini-2.5-flash"), client), nil
	default:
		return hfapi.NewVisualAnswerer(card.ID, a.hfClient), nil
	}
}

// The Gemini client dials out on creation, so it's built lazily and shared.
func (a *api) gemini() (*genai.Client, error) {
	a.geminiOnce.Do(func() {
		a.geminiClient, a.geminiErr = infragemini.NewClient(context.Background(), a.config)
	})
	return a.geminiClient, a.geminiErr
}

func (a *api) Tasks() []domain.Task {
	return domain.AllTasks()
}

func (a *api) Models(task domain.Task) []domain.ModelCard {
	return a.registry.Models(task)
}

func (a *api) Register(card domain.ModelCard) {
	a.registry.Register(card)
}

func (a *api) Stop() {
	a.jobQueue.Stop()
}
