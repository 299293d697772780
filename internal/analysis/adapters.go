package analysis

import (
	"context"

	"github.com/spacesedan/commentlens/internal/models"
)

// Classifier maps cleaned comments to raw labels and confidence scores,
// one result per input in the same order.
type Classifier interface {
	Classify(ctx context.Context, comments []string) ([]models.ClassificationResult, error)
}

// Summarizer produces a short synopsis bounded by minWords and maxWords.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, comments []string) ([]models.ClassificationResult, error)

func (f ClassifierFunc) Classify(ctx context.Context, comments []string) ([]models.ClassificationResult, error) {
	return f(ctx, comments)
}

// SummarizerFunc adapts a function to Summarizer.
type SummarizerFunc func(ctx context.Context, text string, minWords, maxWords int) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	return f(ctx, text, minWords, maxWords)
}
