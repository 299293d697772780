package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/spacesedan/commentlens/internal/models"
)

const (
	DefaultKeywordMinFrequency = 2
	DefaultKeywordMinLength    = 4
	DefaultMaxThemes           = 5
)

// Keyword is a word mined from the combined comment text.
type Keyword struct {
	Word     string
	Count    int
	FirstPos int
}

// ThemeOptions bounds keyword mining.
type ThemeOptions struct {
	MinFrequency int
	MinLength    int // in characters
	MaxThemes    int
}

func DefaultThemeOptions() ThemeOptions {
	return ThemeOptions{
		MinFrequency: DefaultKeywordMinFrequency,
		MinLength:    DefaultKeywordMinLength,
		MaxThemes:    DefaultMaxThemes,
	}
}

// ExtractKeywords returns the qualifying words in first-occurrence order,
// capped at opts.MaxThemes. Frequency never reorders them.
func ExtractKeywords(cleaned []string, opts ThemeOptions) []Keyword {
	words := splitWords(strings.Join(cleaned, " "))

	index := make(map[string]int)
	var seen []Keyword
	for pos, word := range words {
		if i, ok := index[word]; ok {
			seen[i].Count++
			continue
		}
		index[word] = len(seen)
		seen = append(seen, Keyword{Word: word, Count: 1, FirstPos: pos})
	}

	var keywords []Keyword
	for _, kw := range seen {
		if opts.MaxThemes > 0 && len(keywords) == opts.MaxThemes {
			break
		}
		if utf8.RuneCountInString(kw.Word) < opts.MinLength || kw.Count < opts.MinFrequency {
			continue
		}
		keywords = append(keywords, kw)
	}
	return keywords
}

// ExtractThemes computes, per keyword, the bucket split of the comments whose
// cleaned text contains the keyword as a substring.
func ExtractThemes(cleaned []string, buckets []Bucket, opts ThemeOptions) models.Themes {
	themes := models.Themes{}
	for _, kw := range ExtractKeywords(cleaned, opts) {
		counts := make(map[Bucket]int, 3)
		matched := 0
		for i, comment := range cleaned {
			if i >= len(buckets) {
				break
			}
			if strings.Contains(comment, kw.Word) {
				counts[buckets[i]]++
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		themes = append(themes, models.Theme{
			Keyword: kw.Word,
			Distribution: models.SentimentPercentages{
				Positive: percentage(counts[BucketPositive], matched),
				Negative: percentage(counts[BucketNegative], matched),
				Neutral:  percentage(counts[BucketNeutral], matched),
			},
		})
	}
	return themes
}
