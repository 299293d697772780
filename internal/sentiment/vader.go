package sentiment

import (
	"context"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/commentlens/internal/models"
)

// VADER_THRESHOLD is the compound magnitude at which a comment stops being
// neutral.
const VADER_THRESHOLD = 0.20

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// VaderClassifier is a lexicon classifier that needs no model service.
// It satisfies analysis.Classifier and emits the LABEL_0/1/2 scheme.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Classify(ctx context.Context, comments []string) ([]models.ClassificationResult, error) {
	results := make([]models.ClassificationResult, len(comments))
	for i, comment := range comments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = LabelCompound(v.analyzer.PolarityScores(ConvertMarkdownToText(comment)).Compound)
	}
	return results, nil
}

// LabelCompound maps a compound score in [-1, 1] to a label and confidence.
// Polar labels score 0.5 + |compound|/2, so only strong compounds clear the
// analysis neutral threshold; neutral scores 1 - |compound|.
func LabelCompound(compound float64) models.ClassificationResult {
	magnitude := math.Abs(compound)
	switch {
	case compound >= VADER_THRESHOLD:
		return models.ClassificationResult{Label: models.LabelPositive, Score: 0.5 + magnitude/2}
	case compound <= -VADER_THRESHOLD:
		return models.ClassificationResult{Label: models.LabelNegative, Score: 0.5 + magnitude/2}
	default:
		return models.ClassificationResult{Label: models.LabelNeutral, Score: 1 - magnitude}
	}
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips the resulting HTML so
// emphasis markers and link targets do not reach the lexicon.
func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := tagPattern.ReplaceAllString(string(output), " ")
	return strings.Join(strings.Fields(html.UnescapeString(plain)), " ")
}
