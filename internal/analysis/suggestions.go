package analysis

import (
	"regexp"
	"strings"
)

const DefaultMaxSuggestions = 3

// Order matters: matches are emitted per comment in this pattern order.
var suggestionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcould\s+(?:be|have|use|add|improve)\b[^.!?\n]*`),
	regexp.MustCompile(`(?i)\bshould\s+(?:be|have|add|fix)\b[^.!?\n]*`),
	regexp.MustCompile(`(?i)\bneeds?\s+(?:to|more)\b[^.!?\n]*`),
	regexp.MustCompile(`(?i)\bwould\s+be\s+better\s+if\b[^.!?\n]*`),
}

// ExtractSuggestions returns up to max advisory phrases, taking at most the
// first match of each pattern per comment.
func ExtractSuggestions(comments []string, max int) []string {
	suggestions := []string{}
	for _, comment := range comments {
		for _, pattern := range suggestionPatterns {
			match := pattern.FindString(comment)
			if match == "" {
				continue
			}
			suggestions = append(suggestions, strings.TrimSpace(match))
		}
	}
	if max >= 0 && len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}
