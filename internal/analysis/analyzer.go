package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentlens/internal/models"
)

// Options holds every tunable of the pipeline.
type Options struct {
	NeutralThreshold float64
	MaxLength        int
	Themes           ThemeOptions
	MaxSuggestions   int
	Summary          SummaryOptions
}

func DefaultOptions() Options {
	return Options{
		NeutralThreshold: DefaultNeutralThreshold,
		MaxLength:        DefaultMaxLength,
		Themes:           DefaultThemeOptions(),
		MaxSuggestions:   DefaultMaxSuggestions,
		Summary:          DefaultSummaryOptions(),
	}
}

// Analyzer turns a batch of raw comments into an AnalysisResult. It holds no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	classifier Classifier
	summarizer Summarizer
	opts       Options
}

// NewAnalyzer builds an Analyzer. summarizer may be nil, in which case any
// batch long enough to summarize gets the fallback summary.
func NewAnalyzer(classifier Classifier, summarizer Summarizer, opts Options) *Analyzer {
	return &Analyzer{
		classifier: classifier,
		summarizer: summarizer,
		opts:       opts,
	}
}

// EmptyResult is the report for a batch with no comments.
func EmptyResult() models.AnalysisResult {
	return models.AnalysisResult{
		Summary:     NoCommentsSummary,
		KeyThemes:   models.Themes{},
		Suggestions: []string{},
	}
}

// Analyze runs the pipeline. Only classifier failures are returned, as a
// *ModelInferenceError; summarizer failures are absorbed.
func (a *Analyzer) Analyze(ctx context.Context, comments []string) (models.AnalysisResult, error) {
	if len(comments) == 0 {
		return EmptyResult(), nil
	}

	start := time.Now()
	cleaned := PreprocessComments(comments, a.opts.MaxLength)

	results, err := a.classify(ctx, cleaned)
	if err != nil {
		slog.Error("[Analyzer] Classification failed",
			slog.Int("comments", len(comments)),
			slog.String("error", err.Error()))
		return models.AnalysisResult{}, err
	}
	slog.Debug("[Analyzer] Classified batch",
		slog.Int("comments", len(comments)),
		slog.Duration("elapsed", time.Since(start)))

	buckets := bucketAll(results, a.opts.NeutralThreshold)
	summary := Summarize(ctx, a.summarizer, comments, a.opts.Summary)

	result := models.AnalysisResult{
		SentimentPercentages: SentimentPercentages(buckets),
		Summary:              summary.Text,
		KeyThemes:            ExtractThemes(cleaned, buckets, a.opts.Themes),
		LengthAnalysis:       AnalyzeLengths(comments, cleaned, buckets),
		TopComments:          SelectTopComments(comments, results),
		Suggestions:          ExtractSuggestions(comments, a.opts.MaxSuggestions),
	}

	slog.Debug("[Analyzer] Analysis complete",
		slog.Int("comments", len(comments)),
		slog.String("summary_source", string(summary.Source)),
		slog.Int("themes", len(result.KeyThemes)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

func (a *Analyzer) classify(ctx context.Context, cleaned []string) ([]models.ClassificationResult, error) {
	if a.classifier == nil {
		return nil, &ModelInferenceError{Err: fmt.Errorf("no classifier configured")}
	}
	results, err := a.classifier.Classify(ctx, cleaned)
	if err != nil {
		return nil, &ModelInferenceError{Err: err}
	}
	if len(results) != len(cleaned) {
		return nil, &ModelInferenceError{
			Err: fmt.Errorf("classifier returned %d results for %d comments", len(results), len(cleaned)),
		}
	}
	return results, nil
}
