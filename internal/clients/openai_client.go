package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spacesedan/commentlens/config"
)

const summarySystemPrompt = "You summarize batches of viewer comments for a creator dashboard. " +
	"Write plain prose, no lists, no quotes from individual comments."

// OpenAIClient is a Summarizer backed by the chat completions API.
type OpenAIClient struct {
	Client openai.Client
	Model  string
}

func NewOpenAIClient(cfg config.OpenAIConfig, opts ...option.RequestOption) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		return nil, errors.New("[OpenAIClient] missing OPENAI_API_KEY")
	}

	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(2),
	}
	client := openai.NewClient(append(base, opts...)...)

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", cfg.Timeout),
		slog.String("model", cfg.Model))

	return &OpenAIClient{Client: client, Model: cfg.Model}, nil
}

// Summarize asks the model for a summary between minWords and maxWords long.
func (o *OpenAIClient) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	start := time.Now()
	instruction := fmt.Sprintf("Summarize in %d to %d words.\n\n%s", minWords, maxWords, text)

	resp, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(instruction),
		},
		// roughly 4 tokens per 3 words, with headroom
		MaxCompletionTokens: openai.Int(int64(maxWords*2 + 16)),
	})
	if err != nil {
		slog.Error("[OpenAIClient] Summary request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai summary: no choices returned")
	}

	slog.Info("[OpenAIClient] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
