package analysis

import "github.com/spacesedan/commentlens/internal/models"

// SelectTopComments picks the most confident raw-label positive and negative
// comments. The neutral threshold is not applied; ties keep the earlier comment.
func SelectTopComments(raw []string, results []models.ClassificationResult) models.TopComments {
	var top models.TopComments
	bestPositive, bestNegative := -1.0, -1.0

	for i, result := range results {
		if i >= len(raw) {
			break
		}
		switch {
		case IsNegativeLabel(result.Label):
			if result.Score > bestNegative {
				bestNegative = result.Score
				top.TopNegative = raw[i]
			}
		case IsPositiveLabel(result.Label):
			if result.Score > bestPositive {
				bestPositive = result.Score
				top.TopPositive = raw[i]
			}
		}
	}
	return top
}
