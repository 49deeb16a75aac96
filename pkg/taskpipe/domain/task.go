package domain

import "fmt"

// Task names a kind of inference request. The task determines the default model, the input modality
// and which fields of the returned predictions are populated.
type Task string

const (
	TaskTextGeneration          = Task("text-generation")
	TaskSummarization           = Task("summarization")
	TaskTextClassification      = Task("text-classification")
	TaskAudioClassification     = Task("audio-classification")
	TaskSpeechRecognition       = Task("automatic-speech-recognition")
	TaskImageClassification     = Task("image-classification")
	TaskVisualQuestionAnswering = Task("visual-question-answering")
)

// Modality describes what kind of payload a task consumes.
type Modality int

const (
	ModalityText = Modality(iota)
	ModalityImage
	ModalityAudio
	ModalityImageWithQuestion
)

// Aliases accepted by ParseTask in addition to the canonical names above.
var taskAliases = map[string]Task{
	"sentiment-analysis": TaskTextClassification,
	"asr":                TaskSpeechRecognition,
	"vqa":                TaskVisualQuestionAnswering,
}

func AllTasks() []Task {
	return []Task{
		TaskTextGeneration,
		TaskSummarization,
		TaskTextClassification,
		TaskAudioClassification,
		TaskSpeechRecognition,
		TaskImageClassification,
		TaskVisualQuestionAnswering,
	}
}

// ParseTask maps a task name (canonical or alias) to a Task. Unknown names produce ErrUnknownTask
// wrapped with the list of supported names, so that frontends can show it to the user as is.
func ParseTask(name string) (Task, error) {
	for _, task := range AllTasks() {
		if string(task) == name {
			return task, nil
		}
	}
	if task, ok := taskAliases[name]; ok {
		return task, nil
	}
	return "", fmt.Errorf("%w: \"%s\" (supported: %v)", ErrUnknownTask, name, AllTasks())
}

func (t Task) Modality() Modality {
	switch t {
	case TaskAudioClassification, TaskSpeechRecognition:
		return ModalityAudio
	case TaskImageClassification:
		return ModalityImage
	case TaskVisualQuestionAnswering:
		return ModalityImageWithQuestion
	default:
		return ModalityText
	}
}

// IsScored reports whether predictions of this task carry a meaningful confidence score,
// which implies best-first ordering and top-k cutting.
func (t Task) IsScored() bool {
	switch t {
	case TaskTextClassification, TaskAudioClassification, TaskImageClassification, TaskVisualQuestionAnswering:
		return true
	default:
		return false
	}
}
