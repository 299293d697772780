package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/analysis"
)

func baseConfig(classifier, summarizer string) config.Config {
	return config.Config{
		Analysis: config.AnalysisConfig{
			NeutralThreshold:    0.8,
			MaxCommentLength:    512,
			KeywordMinFrequency: 2,
			KeywordMinLength:    4,
			MaxThemes:           5,
			MaxSuggestions:      3,
			SummaryMinWords:     50,
			SummaryMinLength:    30,
			SummaryMaxLength:    100,
		},
		Backends: config.BackendConfig{Classifier: classifier, Summarizer: summarizer},
	}
}

func TestAnalysisOptions_MatchesDefaults(t *testing.T) {
	assert.Equal(t, analysis.DefaultOptions(), AnalysisOptions(baseConfig("", "").Analysis))
}

func TestBuild_VaderWithoutSummarizer(t *testing.T) {
	c, err := Build(baseConfig(config.ClassifierVader, config.SummarizerNone))
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.HuggingFace)

	result, err := c.Cache.Analyze(context.Background(), []string{"I love this, it is wonderful and amazing"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.SentimentPercentages.Positive)
}

func TestBuild_HuggingFaceSharesOneClient(t *testing.T) {
	c, err := Build(baseConfig(config.ClassifierHuggingFace, config.SummarizerNone))
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.HuggingFace)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(baseConfig("bert", config.SummarizerNone))
	assert.ErrorContains(t, err, `unknown classifier backend "bert"`)

	_, err = Build(baseConfig(config.ClassifierVader, "gpt"))
	assert.ErrorContains(t, err, `unknown summarizer backend "gpt"`)

	_, err = Build(baseConfig(config.ClassifierVader, config.SummarizerOpenAI))
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
