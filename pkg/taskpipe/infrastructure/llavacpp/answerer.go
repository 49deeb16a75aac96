package llavacpp

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

const (
	// ConfigKeyBinaryPath path to the llava.cpp binary
	ConfigKeyBinaryPath = "llavaCppBinaryPath"
	// ConfigKeyModelPath path to the multimodal GGUF model
	ConfigKeyModelPath = "llavaCppModelPath"
	// ConfigKeyProjectorPath path to the multimodal projector weights
	ConfigKeyProjectorPath = "llavaCppProjectorPath"
)

type answerer struct {
	// Only 1 request can be processed at a time because commodity hardware usually can't
	// process two requests simultaneously due to low amounts of VRAM.
	mutex         sync.Mutex
	binaryPath    string
	modelPath     string
	projectorPath string
}

// NewAnswerer answers questions about images by launching a llava.cpp subprocess.
// The engine reports no confidence, so answers are returned with a score of 1.
func NewAnswerer(config *common.Config) domain.VisualAnswerer {
	return &answerer{
		binaryPath:    config.GetStringOrDefault(ConfigKeyBinaryPath, "./llava.cpp"),
		modelPath:     config.GetStringOrDefault(ConfigKeyModelPath, "./llava.bin"),
		projectorPath: config.GetStringOrDefault(ConfigKeyProjectorPath, "./llava-proj.bin"),
	}
}

func (a *answerer) Answer(ctx context.Context, imagePath string, question string) ([]domain.Prediction, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	cmd := exec.CommandContext(
		ctx,
		a.binaryPath,
		"-m", a.modelPath,
		"--mmproj", a.projectorPath,
		"--image", imagePath,
		"--temp", "0.1",
		"-p", question,
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err != nil {
		return nil, err
	}
	return []domain.Prediction{{Answer: removeGarbage(out.String()), Score: 1.0}}, nil
}

// TODO can we get rid of the hack?
func removeGarbage(result string) string {
	const anchor = "per image patch)"
	hackIndex := strings.Index(result, anchor)
	if hackIndex != -1 {
		result = result[hackIndex+len(anchor):]
	}
	return strings.TrimSpace(result)
}
