package analysis

import (
	"errors"
	"fmt"
)

// ErrModelInference matches every ModelInferenceError via errors.Is.
var ErrModelInference = errors.New("model inference failed")

// ModelInferenceError is returned when the classifier fails. Analysis aborts.
type ModelInferenceError struct {
	Err error
}

func (e *ModelInferenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrModelInference, e.Err)
}

func (e *ModelInferenceError) Unwrap() error {
	return e.Err
}

func (e *ModelInferenceError) Is(target error) bool {
	return target == ErrModelInference
}

// SummarizationError records a summarizer failure. It is carried in
// SummaryResult and never returned from Analyze.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}
