package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/commentlens/config"
)

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(config.OpenAIConfig{Model: "gpt-4o-mini"})

	assert.Error(t, err)
}

func TestOpenAIClient_Summarize(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "  Viewers enjoyed it.  "}
			}]
		}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(
		config.OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", Timeout: 5 * time.Second},
		option.WithBaseURL(srv.URL+"/"),
	)
	require.NoError(t, err)

	got, err := client.Summarize(context.Background(), "Summarize the following viewer comments: great", 30, 100)
	require.NoError(t, err)

	assert.Equal(t, "Viewers enjoyed it.", got)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.EqualValues(t, 216, body["max_completion_tokens"])
}

func TestOpenAIClient_SummarizeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad request", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(
		config.OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", Timeout: 5 * time.Second},
		option.WithBaseURL(srv.URL+"/"),
	)
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "text", 30, 100)

	assert.ErrorContains(t, err, "openai summary")
}
