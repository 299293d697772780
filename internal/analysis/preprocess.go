package analysis

import (
	"regexp"
	"strings"
)

// DefaultMaxLength bounds a cleaned comment, in characters.
const DefaultMaxLength = 512

var (
	// RE2's \s is ASCII only, so both patterns name the Unicode separators
	// and the \x1c-\x1f information separators explicitly.
	urlPattern        = regexp.MustCompile(`http[^\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+|www[^\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+`)
	disallowedPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\v\p{Z}\x{85}\x{1c}-\x{1f}!?]`)
)

// CleanComment strips URLs and punctuation other than ! and ?, lowercases,
// trims, and truncates to maxLength characters.
func CleanComment(comment string, maxLength int) string {
	comment = urlPattern.ReplaceAllString(comment, "")
	comment = disallowedPattern.ReplaceAllString(comment, "")
	comment = strings.TrimFunc(strings.ToLower(comment), isSeparator)
	return truncateRunes(comment, maxLength)
}

// PreprocessComments cleans every comment, preserving order.
func PreprocessComments(comments []string, maxLength int) []string {
	cleaned := make([]string, len(comments))
	for i, comment := range comments {
		cleaned[i] = CleanComment(comment, maxLength)
	}
	return cleaned
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
