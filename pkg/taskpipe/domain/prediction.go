package domain

import "sort"

// Prediction is a single structured output item. Which fields are populated depends on the task:
// generated text for generation tasks, label+score for classification tasks, answer+score for
// question answering, text for speech recognition.
type Prediction struct {
	GeneratedText string  `json:"generated_text,omitempty"`
	Label         string  `json:"label,omitempty"`
	Answer        string  `json:"answer,omitempty"`
	Text          string  `json:"text,omitempty"`
	Score         float64 `json:"score,omitempty"`
}

// SortByScore orders predictions best-first. The sort is stable so that backends which return
// equal scores keep their own ordering.
func SortByScore(predictions []Prediction) {
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})
}

// CutTopK returns the first `k` predictions after sorting best-first. k <= 0 means "no cut".
func CutTopK(predictions []Prediction, k int) []Prediction {
	SortByScore(predictions)
	if k <= 0 || k >= len(predictions) {
		return predictions
	}
	return predictions[:k]
}
