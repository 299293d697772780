package analysis

import (
	"strings"
	"unicode"

	"github.com/spacesedan/commentlens/internal/models"
)

func wordCount(s string) int {
	return len(splitWords(s))
}

// splitWords splits on Unicode whitespace plus the \x1c-\x1f separators,
// which unicode.IsSpace leaves out.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, isSeparator)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// AnalyzeLengths computes mean word counts. The overall average is taken over
// the raw comments, the per-bucket averages over the cleaned comments.
func AnalyzeLengths(raw, cleaned []string, buckets []Bucket) models.LengthStats {
	if len(raw) == 0 {
		return models.LengthStats{}
	}

	total := 0
	for _, comment := range raw {
		total += wordCount(comment)
	}

	sums := make(map[Bucket]int, 3)
	counts := make(map[Bucket]int, 3)
	for i, comment := range cleaned {
		if i >= len(buckets) {
			break
		}
		sums[buckets[i]] += wordCount(comment)
		counts[buckets[i]]++
	}

	return models.LengthStats{
		AvgLength:   mean(total, len(raw)),
		PositiveAvg: mean(sums[BucketPositive], counts[BucketPositive]),
		NegativeAvg: mean(sums[BucketNegative], counts[BucketNegative]),
		NeutralAvg:  mean(sums[BucketNeutral], counts[BucketNeutral]),
	}
}
