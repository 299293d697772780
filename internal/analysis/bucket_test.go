package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacesedan/commentlens/internal/models"
)

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name   string
		result models.ClassificationResult
		want   Bucket
	}{
		{"confident negative", models.ClassificationResult{Label: models.LabelNegative, Score: 0.95}, BucketNegative},
		{"confident positive", models.ClassificationResult{Label: models.LabelPositive, Score: 0.8}, BucketPositive},
		{"unsure positive", models.ClassificationResult{Label: models.LabelPositive, Score: 0.79}, BucketNeutral},
		{"unsure negative", models.ClassificationResult{Label: models.LabelNegative, Score: 0.1}, BucketNeutral},
		{"confident middle label", models.ClassificationResult{Label: models.LabelNeutral, Score: 0.99}, BucketNeutral},
		{"word labels", models.ClassificationResult{Label: "Negative", Score: 0.9}, BucketNegative},
		{"unknown label", models.ClassificationResult{Label: "LABEL_7", Score: 0.99}, BucketNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketFor(tt.result, DefaultNeutralThreshold))
		})
	}
}

func TestSentimentPercentages(t *testing.T) {
	got := SentimentPercentages([]Bucket{BucketPositive, BucketNegative, BucketNeutral})

	assert.Equal(t, 33.33, got.Positive)
	assert.Equal(t, 33.33, got.Negative)
	assert.Equal(t, 33.33, got.Neutral)
	assert.InDelta(t, 100.0, got.Total(), 0.01)
}

func TestSentimentPercentages_Empty(t *testing.T) {
	assert.Equal(t, models.SentimentPercentages{}, SentimentPercentages(nil))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, round2(200.0/3))
	assert.Equal(t, 2.67, round2(2.675))
	assert.Equal(t, 0.12, round2(0.125))
	assert.Equal(t, 0.0, round2(0))
}
