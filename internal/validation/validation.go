package validation

import (
	"fmt"
	"unicode/utf8"
)

// ValidationError reports input rejected before it reaches the analysis core.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateComments enforces the per-comment character limit.
func ValidateComments(comments []string, maxLength int) error {
	if comments == nil {
		return &ValidationError{Message: "comments field is required"}
	}
	for _, c := range comments {
		if utf8.RuneCountInString(c) > maxLength {
			return &ValidationError{Message: fmt.Sprintf("Comments must not exceed %d characters", maxLength)}
		}
	}
	return nil
}
