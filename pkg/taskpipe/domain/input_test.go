package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMediaInput(t *testing.T) {
	input := MediaInput("https://example.com/cat.png")
	require.Equal(t, "https://example.com/cat.png", input.URL)
	require.Empty(t, input.Path)
	require.True(t, input.IsRemote())
	require.Equal(t, "https://example.com/cat.png", input.MediaRef())

	input = MediaInput("/tmp/cat.png")
	require.Equal(t, "/tmp/cat.png", input.Path)
	require.Empty(t, input.URL)
	require.False(t, input.IsRemote())
	require.Equal(t, "/tmp/cat.png", input.MediaRef())
}

func TestImageQuestionInput(t *testing.T) {
	input := ImageQuestionInput("invoice.png", "What is the invoice number?")
	require.Equal(t, "invoice.png", input.Path)
	require.Equal(t, "What is the invoice number?", input.Question)
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		task    Task
		wantErr bool
	}{
		{name: "text for text task", input: TextInput("hello"), task: TaskTextGeneration},
		{name: "empty text", input: TextInput("  "), task: TaskTextGeneration, wantErr: true},
		{name: "file for image task", input: FileInput("cat.png"), task: TaskImageClassification},
		{name: "url for audio task", input: URLInput("https://example.com/a.flac"), task: TaskAudioClassification},
		{name: "text for image task", input: TextInput("cat"), task: TaskImageClassification, wantErr: true},
		{name: "image and question", input: ImageQuestionInput("invoice.png", "What is the total?"), task: TaskVisualQuestionAnswering},
		{name: "image without question", input: FileInput("invoice.png"), task: TaskVisualQuestionAnswering, wantErr: true},
		{name: "question without image", input: Input{Question: "What is the total?"}, task: TaskVisualQuestionAnswering, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate(tt.task)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadInput)
				require.Contains(t, err.Error(), string(tt.task))
				return
			}
			require.NoError(t, err)
		})
	}
}
