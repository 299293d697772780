package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/models"
)

// HuggingFaceClient talks to the hosted sentiment classifier and summarizer.
// It satisfies analysis.Classifier and analysis.Summarizer.
type HuggingFaceClient struct {
	Client             *http.Client
	ClassifierEndpoint string
	SummarizerEndpoint string
	BatchSize          int
	MaxRetries         int
	InitialBackoff     time.Duration
}

func NewHuggingFaceClient(cfg config.HuggingFaceConfig) *HuggingFaceClient {
	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", cfg.Timeout),
		slog.Int("batch_size", cfg.BatchSize))

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}
	return &HuggingFaceClient{
		Client: &http.Client{
			Timeout: cfg.Timeout,
		},
		ClassifierEndpoint: cfg.ClassifierEndpoint,
		SummarizerEndpoint: cfg.SummarizerEndpoint,
		BatchSize:          batchSize,
		MaxRetries:         MAX_RETRIES,
		InitialBackoff:     INITIAL_BACKOFF,
	}
}

// Classify sends the comments in batches and returns one result per comment.
func (h *HuggingFaceClient) Classify(ctx context.Context, comments []string) ([]models.ClassificationResult, error) {
	slog.Info("[HuggingFaceClient] Requesting sentiment classification",
		slog.Int("comments", len(comments)))
	start := time.Now()

	results := make([]models.ClassificationResult, 0, len(comments))
	for i := 0; i < len(comments); i += h.BatchSize {
		end := min(i+h.BatchSize, len(comments))

		var batch models.ClassificationResponse
		err := h.postJSON(ctx, h.ClassifierEndpoint, models.ClassificationRequest{Inputs: comments[i:end]}, &batch)
		if err != nil {
			slog.Error("[HuggingFaceClient] Classification request failed",
				slog.Int("batch_start", i),
				slog.Duration("elapsed", time.Since(start)))
			return nil, err
		}
		if len(batch) != end-i {
			return nil, fmt.Errorf("classifier returned %d results for a batch of %d", len(batch), end-i)
		}
		results = append(results, batch...)
	}

	slog.Info("[HuggingFaceClient] Classification request successful",
		slog.Duration("elapsed", time.Since(start)))
	return results, nil
}

// Summarize requests a summary bounded by minWords and maxWords.
func (h *HuggingFaceClient) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	var result models.SummaryResponse
	slog.Info("[HuggingFaceClient] Requesting summary from summarization service")
	start := time.Now()

	req := models.SummaryRequest{Inputs: text, MinLength: minWords, MaxLength: maxWords}
	if err := h.postJSON(ctx, h.SummarizerEndpoint, req, &result); err != nil {
		slog.Error("[HuggingFaceClient] Summary Request Failed",
			slog.Duration("elapsed", time.Since(start)))
		return "", err
	}

	slog.Info("[HuggingFaceClient] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result.Summary, nil
}

// HealthCheck reports whether endpoint answers with a non-5xx status.
func (h *HuggingFaceClient) HealthCheck(ctx context.Context, endpoint string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)
	resp, err := h.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

func (h *HuggingFaceClient) ClassifierHealthCheck(ctx context.Context) bool {
	return h.HealthCheck(ctx, h.ClassifierEndpoint)
}

func (h *HuggingFaceClient) SummarizerHealthCheck(ctx context.Context) bool {
	return h.HealthCheck(ctx, h.SummarizerEndpoint)
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. newReq must build a fresh request for every attempt.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.InitialBackoff
	attempts := max(h.MaxRetries, 1)

	for attempt := 0; attempt < attempts; attempt++ {
		var req *http.Request
		req, err = newReq()
		if err != nil {
			return nil, err
		}
		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		msg := errMsg(err, resp)
		if resp != nil {
			resp.Body.Close()
			if err == nil {
				err = fmt.Errorf("unexpected %s", msg)
			}
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", msg))

		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	return nil, err
}

// helper function for posting data to the model services
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		return req, nil
	})
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, preview(respBody))
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			slog.String("raw_response", preview(respBody)),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func preview(respBody []byte) string {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
