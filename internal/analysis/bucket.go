package analysis

import (
	"strings"

	"github.com/spacesedan/commentlens/internal/models"
)

// DefaultNeutralThreshold is the confidence below which every result is neutral.
const DefaultNeutralThreshold = 0.8

type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNegative Bucket = "negative"
	BucketNeutral  Bucket = "neutral"
)

// IsNegativeLabel reports whether a raw classifier label denotes the negative class.
func IsNegativeLabel(label string) bool {
	return label == models.LabelNegative || strings.EqualFold(label, "negative")
}

// IsPositiveLabel reports whether a raw classifier label denotes the positive class.
func IsPositiveLabel(label string) bool {
	return label == models.LabelPositive || strings.EqualFold(label, "positive")
}

// BucketFor folds a classification into a bucket. The middle label is
// always neutral, whatever its confidence.
func BucketFor(result models.ClassificationResult, threshold float64) Bucket {
	switch {
	case result.Score < threshold:
		return BucketNeutral
	case IsNegativeLabel(result.Label):
		return BucketNegative
	case IsPositiveLabel(result.Label):
		return BucketPositive
	default:
		return BucketNeutral
	}
}

func bucketAll(results []models.ClassificationResult, threshold float64) []Bucket {
	buckets := make([]Bucket, len(results))
	for i, result := range results {
		buckets[i] = BucketFor(result, threshold)
	}
	return buckets
}

// SentimentPercentages converts bucket counts into percentages of the batch.
func SentimentPercentages(buckets []Bucket) models.SentimentPercentages {
	total := len(buckets)
	if total == 0 {
		return models.SentimentPercentages{}
	}
	counts := countBuckets(buckets)
	return models.SentimentPercentages{
		Positive: percentage(counts[BucketPositive], total),
		Negative: percentage(counts[BucketNegative], total),
		Neutral:  percentage(counts[BucketNeutral], total),
	}
}

func countBuckets(buckets []Bucket) map[Bucket]int {
	counts := make(map[Bucket]int, 3)
	for _, b := range buckets {
		counts[b]++
	}
	return counts
}
