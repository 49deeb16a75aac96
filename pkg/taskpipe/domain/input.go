package domain

import (
	"fmt"
	"strings"
)

// Input is a single inference input: a text string, a local media file, a remote media URL,
// or an image paired with a question. Exactly one of Text/Path/URL is set.
type Input struct {
	Text     string
	Path     string
	URL      string
	Question string
}

func TextInput(text string) Input {
	return Input{Text: text}
}

func FileInput(path string) Input {
	return Input{Path: path}
}

func URLInput(url string) Input {
	return Input{URL: url}
}

// MediaInput turns a media reference (a local path or an http(s) URL) into an Input.
func MediaInput(ref string) Input {
	if isHTTPURL(ref) {
		return URLInput(ref)
	}
	return FileInput(ref)
}

// ImageQuestionInput pairs an image reference (path or URL) with a question about it.
func ImageQuestionInput(imageRef, question string) Input {
	input := MediaInput(imageRef)
	input.Question = question
	return input
}

// IsRemote reports whether the payload still needs to be fetched over HTTP.
func (i Input) IsRemote() bool {
	return i.URL != ""
}

// MediaRef returns the media location regardless of whether it's local or remote.
func (i Input) MediaRef() string {
	if i.URL != "" {
		return i.URL
	}
	return i.Path
}

// Validate checks the input against the modality of `task`. All pipelines call it before any work,
// so a modality mismatch is reported the same way everywhere.
func (i Input) Validate(task Task) error {
	switch task.Modality() {
	case ModalityText:
		if strings.TrimSpace(i.Text) == "" {
			return fmt.Errorf("%w: task \"%s\" expects a non-empty text input", ErrBadInput, task)
		}
	case ModalityImage, ModalityAudio:
		if i.MediaRef() == "" {
			return fmt.Errorf("%w: task \"%s\" expects a file path or URL", ErrBadInput, task)
		}
	case ModalityImageWithQuestion:
		if i.MediaRef() == "" || strings.TrimSpace(i.Question) == "" {
			return fmt.Errorf("%w: task \"%s\" expects an image path or URL and a question", ErrBadInput, task)
		}
	}
	return nil
}

func isHTTPURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
