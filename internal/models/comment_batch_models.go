package models

// CommentBatch is the payload read from the comment-batches topic and the
// body accepted by the HTTP boundary.
type CommentBatch struct {
	BatchID  string   `json:"batch_id,omitempty"`
	Comments []string `json:"comments"`
}

// AnalyzedBatch is published to the analysis results topic.
type AnalyzedBatch struct {
	BatchID string          `json:"batch_id"`
	Result  *AnalysisResult `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}
