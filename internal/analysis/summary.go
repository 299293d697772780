package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

const (
	SummaryPrefix          = "Summarize the following viewer comments: "
	NoCommentsSummary      = "No comments to analyze."
	SummaryUnavailable     = "Unable to generate summary."
	briefCommentsLead      = "Comments are too brief for a detailed summary: "
	briefPreviewCharacters = 100

	DefaultSummaryMinWords  = 50
	DefaultSummaryMinLength = 30
	DefaultSummaryMaxLength = 100
)

var errNoSummarizer = errors.New("no summarizer configured")

type SummarySource string

const (
	SummaryGenerated SummarySource = "generated"
	SummaryBrief     SummarySource = "brief"
	SummaryFallback  SummarySource = "fallback"
)

// SummaryResult is the outcome of the summarization step. Failures are a
// normal outcome carrying the fallback text and the cause.
type SummaryResult struct {
	Text   string
	Source SummarySource
	Err    error
}

func (r SummaryResult) Failed() bool {
	return r.Source == SummaryFallback
}

// SummaryOptions bounds the summarization step.
type SummaryOptions struct {
	MinWords  int
	MinLength int
	MaxLength int
}

func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		MinWords:  DefaultSummaryMinWords,
		MinLength: DefaultSummaryMinLength,
		MaxLength: DefaultSummaryMaxLength,
	}
}

// Summarize builds the synopsis for the raw comments. Short input never
// reaches the summarizer and summarizer failures never escape.
func Summarize(ctx context.Context, summarizer Summarizer, comments []string, opts SummaryOptions) SummaryResult {
	joined := strings.Join(comments, " ")
	text := SummaryPrefix + joined

	if wordCount(text) < opts.MinWords {
		return SummaryResult{Text: briefSummary(joined), Source: SummaryBrief}
	}

	if summarizer == nil {
		return SummaryResult{
			Text:   SummaryUnavailable,
			Source: SummaryFallback,
			Err:    &SummarizationError{Err: errNoSummarizer},
		}
	}

	start := time.Now()
	summary, err := summarizer.Summarize(ctx, text, opts.MinLength, opts.MaxLength)
	if err == nil && strings.TrimSpace(summary) == "" {
		err = errors.New("empty summary")
	}
	if err != nil {
		slog.Warn("[Analyzer] Summarization failed, using fallback",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return SummaryResult{
			Text:   SummaryUnavailable,
			Source: SummaryFallback,
			Err:    &SummarizationError{Err: err},
		}
	}

	return SummaryResult{Text: strings.TrimSpace(summary), Source: SummaryGenerated}
}

func briefSummary(joined string) string {
	preview := strings.TrimSpace(joined)
	if truncated := truncateRunes(preview, briefPreviewCharacters); truncated != preview {
		preview = strings.TrimSpace(truncated) + "..."
	}
	return briefCommentsLead + preview
}
