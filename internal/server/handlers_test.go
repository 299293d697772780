package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/commentlens/internal/analysis"
	"github.com/spacesedan/commentlens/internal/models"
	"github.com/spacesedan/commentlens/internal/monitoring"
)

var testOrigins = []string{"http://localhost:3000", "http://localhost:8080"}

func labelByKeyword(_ context.Context, comments []string) ([]models.ClassificationResult, error) {
	out := make([]models.ClassificationResult, len(comments))
	for i, c := range comments {
		switch {
		case strings.Contains(c, "great"):
			out[i] = models.ClassificationResult{Label: models.LabelPositive, Score: 0.95}
		case strings.Contains(c, "bad"):
			out[i] = models.ClassificationResult{Label: models.LabelNegative, Score: 0.95}
		default:
			out[i] = models.ClassificationResult{Label: models.LabelNeutral, Score: 0.95}
		}
	}
	return out, nil
}

func newTestMux(t *testing.T, classifier analysis.Classifier, health *monitoring.AdapterHealth) http.Handler {
	t.Helper()
	cache, err := analysis.NewResultCache(analysis.NewAnalyzer(classifier, nil, analysis.DefaultOptions()), analysis.CacheConfig{})
	require.NoError(t, err)
	return NewMux(NewHandler(cache, 512, health), testOrigins)
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze-sentiments/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeSentiments_OK(t *testing.T) {
	h := newTestMux(t, analysis.ClassifierFunc(labelByKeyword), nil)

	rec := post(t, h, `{"comments": ["Great video, great sound", "Bad sound mixing", "Sound was okay"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"sentiment_percentages", "summary", "key_themes", "length_analysis", "top_comments", "suggestions"} {
		assert.Contains(t, body, key)
	}

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 100, result.SentimentPercentages.Total(), 0.02)
	assert.Equal(t, "Great video, great sound", result.TopComments.TopPositive)
	assert.Equal(t, "Bad sound mixing", result.TopComments.TopNegative)
	assert.Equal(t, "great", result.KeyThemes[0].Keyword)
	assert.Equal(t, "sound", result.KeyThemes[1].Keyword)
	assert.JSONEq(t, `{"positive": 33.33, "negative": 33.33, "neutral": 33.33}`, string(mustMarshal(t, result.KeyThemes[1].Distribution)))
}

func TestAnalyzeSentiments_KeyThemesKeepOrder(t *testing.T) {
	stub := stubAnalyzer{result: models.AnalysisResult{
		KeyThemes: models.Themes{
			{Keyword: "zebra", Distribution: models.SentimentPercentages{Positive: 100}},
			{Keyword: "apple", Distribution: models.SentimentPercentages{Neutral: 100}},
		},
		Suggestions: []string{},
	}}
	rec := post(t, NewMux(NewHandler(stub, 512, nil), testOrigins), `{"comments": ["x"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, `"zebra"`), strings.Index(body, `"apple"`))
}

func TestAnalyzeSentiments_TooLong(t *testing.T) {
	h := newTestMux(t, analysis.ClassifierFunc(labelByKeyword), nil)

	rec := post(t, h, `{"comments": ["`+strings.Repeat("a", 513)+`"]}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"detail": "Comments must not exceed 512 characters"}`, rec.Body.String())
}

func TestAnalyzeSentiments_MalformedBody(t *testing.T) {
	h := newTestMux(t, analysis.ClassifierFunc(labelByKeyword), nil)

	for _, body := range []string{`{"comments": [`, `{}`, `{"comments": "nope"}`} {
		rec := post(t, h, body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
	}
}

func TestAnalyzeSentiments_EmptyList(t *testing.T) {
	h := newTestMux(t, analysis.ClassifierFunc(labelByKeyword), nil)

	rec := post(t, h, `{"comments": []}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, analysis.NoCommentsSummary, result.Summary)
}

func TestAnalyzeSentiments_ModelFailure(t *testing.T) {
	failing := analysis.ClassifierFunc(func(context.Context, []string) ([]models.ClassificationResult, error) {
		return nil, errors.New("model service down")
	})
	h := newTestMux(t, failing, nil)

	rec := post(t, h, `{"comments": ["hello"]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail": "Internal server error"}`, rec.Body.String())
}

func TestAnalyzeSentiments_WrongMethod(t *testing.T) {
	h := newTestMux(t, analysis.ClassifierFunc(labelByKeyword), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze-sentiments/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t, analysis.ClassifierFunc(labelByKeyword), nil).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())
}

func TestHealth_WithAdapterProbes(t *testing.T) {
	health := monitoring.NewAdapterHealth()
	health.Summarizer.Store(false)

	rec := httptest.NewRecorder()
	newTestMux(t, analysis.ClassifierFunc(labelByKeyword), health).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy", "adapters": {"classifier": true, "summarizer": false}}`, rec.Body.String())
}

type stubAnalyzer struct {
	result models.AnalysisResult
}

func (s stubAnalyzer) Analyze(context.Context, []string) (models.AnalysisResult, error) {
	return s.result, nil
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
