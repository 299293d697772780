package models

// Raw labels emitted by cardiffnlp/twitter-roberta-base-sentiment.
const (
	LabelNegative = "LABEL_0"
	LabelNeutral  = "LABEL_1"
	LabelPositive = "LABEL_2"
)

// ClassificationResult is one classifier output for one cleaned comment.
type ClassificationResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type (
	ClassificationRequest struct {
		Inputs []string `json:"inputs"`
	}
	ClassificationResponse []ClassificationResult
)

type SummaryRequest struct {
	Inputs    string `json:"inputs"`
	MinLength int    `json:"min_length"`
	MaxLength int    `json:"max_length"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}
