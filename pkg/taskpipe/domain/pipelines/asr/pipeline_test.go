package asr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

type fakeTranscriber struct {
	text string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	return f.text, nil
}

type fakeFetcher struct{}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return "/tmp/staged-audio", nil
}

func TestRunTrimsTranscript(t *testing.T) {
	pipeline := NewPipeline("test-model", &fakeTranscriber{text: " I HAVE A DREAM \n"}, &fakeFetcher{})

	results, err := pipeline.Run(context.Background(), []domain.Input{domain.FileInput("speech.flac")}, domain.DefaultRunOptions)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0], 1)
	require.Equal(t, "I HAVE A DREAM", results[0][0].Text)
}

func TestRunRejectsTextInput(t *testing.T) {
	pipeline := NewPipeline("test-model", &fakeTranscriber{}, &fakeFetcher{})

	_, err := pipeline.Run(context.Background(), []domain.Input{domain.TextInput("hello")}, domain.DefaultRunOptions)
	require.ErrorIs(t, err, domain.ErrBadInput)
}
