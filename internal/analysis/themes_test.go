package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/commentlens/internal/models"
)

func TestExtractKeywords_LengthFilter(t *testing.T) {
	got := ExtractKeywords([]string{"good good good bad", "bad bad"}, DefaultThemeOptions())

	require.Len(t, got, 1)
	assert.Equal(t, Keyword{Word: "good", Count: 3, FirstPos: 0}, got[0])
}

func TestExtractKeywords_FirstOccurrenceOrderNotFrequency(t *testing.T) {
	cleaned := []string{
		"alpha bravo charlie delta",
		"echo foxtrot",
		"foxtrot foxtrot foxtrot echo echo",
		"delta charlie bravo alpha",
	}

	got := ExtractKeywords(cleaned, DefaultThemeOptions())

	words := make([]string, len(got))
	for i, kw := range got {
		words[i] = kw.Word
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, words)
}

func TestExtractKeywords_MinFrequency(t *testing.T) {
	opts := DefaultThemeOptions()
	opts.MinFrequency = 3

	got := ExtractKeywords([]string{"video video", "music music music"}, opts)

	require.Len(t, got, 1)
	assert.Equal(t, "music", got[0].Word)
	assert.Equal(t, 2, got[0].FirstPos)
}

func TestExtractThemes_SubstringMatching(t *testing.T) {
	cleaned := []string{
		"great sound",
		"sound quality awful",
		"soundtrack rocks",
		"nothing here",
	}
	buckets := []Bucket{BucketPositive, BucketNegative, BucketPositive, BucketNeutral}

	got := ExtractThemes(cleaned, buckets, DefaultThemeOptions())

	require.Len(t, got, 1)
	assert.Equal(t, "sound", got[0].Keyword)
	assert.Equal(t, models.SentimentPercentages{Positive: 66.67, Negative: 33.33, Neutral: 0}, got[0].Distribution)
}

func TestExtractThemes_NoKeywords(t *testing.T) {
	got := ExtractThemes([]string{"one two", "six ten"}, []Bucket{BucketNeutral, BucketNeutral}, DefaultThemeOptions())

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
