package llamacpp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

var errUnexpectedModelOutput = errors.New("unexpected model output")

const (
	// ConfigKeyBinaryPath path to the llama.cpp main binary
	ConfigKeyBinaryPath = "llamaCppBinaryPath"
	// ConfigKeyModelDir the directory which holds the GGUF model files
	ConfigKeyModelDir = "llamaCppModelDir"
	// ConfigKeyContextSize the size of the context
	ConfigKeyContextSize = "llamaCppContextSize"
	// ConfigKeyCPUThreadCount the number of CPUs used during inference
	ConfigKeyCPUThreadCount = "llamaCppCPUThreadCount"
	// ConfigKeyGPULayerCount how many layers in the model can be offloaded to GPU
	ConfigKeyGPULayerCount = "llamaCppGPULayerCount"
	// ConfigKeyRepeatPenalty a coefficient against repetitions of same tokens
	ConfigKeyRepeatPenalty = "llamaCppRepeatPenalty"
	// ConfigKeyResponseTimeout when to stop if the engine takes too long to generate output
	ConfigKeyResponseTimeout = "llamaCppResponseTimeout"
)

type generator struct {
	// Only 1 subprocess runs at a time: we target commodity hardware which usually can't fit
	// two inference runs in VRAM at once.
	mutex           sync.Mutex
	logger          common.Logger
	binaryPath      string
	modelFile       string
	modelDir        string
	contextSize     int
	cpuThreadCount  int
	gpuLayerCount   int
	repeatPenalty   float64
	responseTimeout time.Duration
}

// NewGenerator runs text generation by launching a llama.cpp subprocess per request.
// A fresh subprocess per run gives full isolation and fault-tolerance: a crash in the engine
// doesn't take the caller down with it.
func NewGenerator(modelFile string, config *common.Config, logger common.Logger) domain.Generator {
	return &generator{
		logger:          logger,
		binaryPath:      config.GetStringOrDefault(ConfigKeyBinaryPath, "./llama.cpp"),
		modelDir:        config.GetStringOrDefault(ConfigKeyModelDir, "."),
		modelFile:       modelFile,
		contextSize:     config.GetIntOrDefault(ConfigKeyContextSize, 4096),
		cpuThreadCount:  config.GetIntOrDefault(ConfigKeyCPUThreadCount, 6),
		gpuLayerCount:   config.GetIntOrDefault(ConfigKeyGPULayerCount, 40),
		repeatPenalty:   config.GetFloatOrDefault(ConfigKeyRepeatPenalty, 1.1),
		responseTimeout: config.GetDurationOrDefault(ConfigKeyResponseTimeout, time.Minute),
	}
}

func (g *generator) Generate(ctx context.Context, prompt string, options domain.RunOptions) ([]string, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	// llama.cpp produces one sampled continuation per run, so multiple return sequences are
	// simply multiple runs.
	count := options.ReturnCountOrDefault(1)
	sequences := make([]string, 0, count)
	for i := 0; i < count; i++ {
		sequence, err := g.generateOne(ctx, prompt, options)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, sequence)
	}
	return sequences, nil
}

func (g *generator) generateOne(ctx context.Context, prompt string, options domain.RunOptions) (string, error) {
	var buf strings.Builder
	err := g.runInferCommand(ctx, g.buildArgs(prompt, options), func(s string) bool {
		buf.WriteString(s)
		return true
	})
	if err != nil {
		// A process can run successfully but be terminated with a SIGKILL when the deadline
		// cancels the context. We log it and keep what has been generated so far.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", err
		}
		g.logger.Log("llama.cpp exited early: " + err.Error())
	}
	output := buf.String()
	if len(output) < len(prompt) {
		return "", errUnexpectedModelOutput
	}
	// The engine echoes the prompt before the continuation, so we remove it from the response.
	return strings.TrimRight(output[len(prompt):], "\n"), nil
}

func (g *generator) buildArgs(prompt string, options domain.RunOptions) []string {
	return []string{
		"-m", fmt.Sprintf("%s/%s", g.modelDir, g.modelFile),
		"-t", fmt.Sprintf("%d", g.cpuThreadCount),
		"-ngl", fmt.Sprintf("%d", g.gpuLayerCount),
		"-c", fmt.Sprintf("%d", g.contextSize),
		"--temp", fmt.Sprintf("%f", options.TemperatureOrDefault(0.7)),
		"--repeat_penalty", fmt.Sprintf("%f", g.repeatPenalty),
		"-n", fmt.Sprintf("%d", options.MaxNewTokensOrDefault(200)),
		"-p", prompt,
	}
}

// We hook up to the llama.cpp binary by launching a subprocess and reading its standard output
// until processLineFunc(..) signals it should stop with false as the returned value.
func (g *generator) runInferCommand(ctx context.Context, args []string, processLineFunc func(s string) bool) error {
	ctx, cancelFunc := context.WithDeadline(ctx, time.Now().Add(g.responseTimeout))
	defer cancelFunc()
	cmd := exec.CommandContext(ctx, g.binaryPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	var wg sync.WaitGroup
	wg.Add(1)
	scanner := bufio.NewScanner(stdout)
	go func() {
		for scanner.Scan() {
			line := scanner.Text() + "\n"
			keepRunning := processLineFunc(line)
			if !keepRunning {
				cancelFunc() // the process function signals a stop condition has been met
				break
			}
		}
		wg.Done()
	}()
	if err = cmd.Start(); err != nil {
		return err
	}
	wg.Wait()
	return cmd.Wait()
}
