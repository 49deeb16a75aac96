package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTask(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Task
		wantErr  bool
	}{
		{name: "canonical name", input: "text-generation", expected: TaskTextGeneration},
		{name: "sentiment alias", input: "sentiment-analysis", expected: TaskTextClassification},
		{name: "asr alias", input: "asr", expected: TaskSpeechRecognition},
		{name: "vqa alias", input: "vqa", expected: TaskVisualQuestionAnswering},
		{name: "unknown task", input: "time-travel", wantErr: true},
		{name: "empty name", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := ParseTask(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownTask)
				// The error should teach the user what is supported.
				require.Contains(t, err.Error(), "text-generation")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, task)
		})
	}
}

func TestTaskModality(t *testing.T) {
	require.Equal(t, ModalityText, TaskTextGeneration.Modality())
	require.Equal(t, ModalityText, TaskSummarization.Modality())
	require.Equal(t, ModalityText, TaskTextClassification.Modality())
	require.Equal(t, ModalityAudio, TaskAudioClassification.Modality())
	require.Equal(t, ModalityAudio, TaskSpeechRecognition.Modality())
	require.Equal(t, ModalityImage, TaskImageClassification.Modality())
	require.Equal(t, ModalityImageWithQuestion, TaskVisualQuestionAnswering.Modality())
}

func TestTaskIsScored(t *testing.T) {
	require.True(t, TaskTextClassification.IsScored())
	require.True(t, TaskVisualQuestionAnswering.IsScored())
	require.False(t, TaskTextGeneration.IsScored())
	require.False(t, TaskSpeechRecognition.IsScored())
}
