package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/models"
)

type textClassificationPipeline interface {
	RunPipeline(inputs []string) (*pipelines.TextClassificationOutput, error)
}

// HugotClassifier runs a sentiment model in-process through ONNX Runtime.
// It satisfies analysis.Classifier.
type HugotClassifier struct {
	mu       sync.Mutex
	session  *hugot.Session
	pipeline textClassificationPipeline
}

// NewHugotClassifier downloads cfg.ModelName into cfg.ModelDir when it is
// not already there and builds a text classification pipeline over it.
func NewHugotClassifier(cfg config.ONNXConfig) (*HugotClassifier, error) {
	modelPath, err := ensureModel(cfg)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		slog.Error("[HugotClassifier] Failed to initialize Hugot session", slog.String("error", err.Error()))
		return nil, fmt.Errorf("hugot session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "commentSentimentPipeline",
	})
	if err != nil {
		_ = session.Destroy()
		slog.Error("[HugotClassifier] Failed to initialize pipeline", slog.String("error", err.Error()))
		return nil, fmt.Errorf("hugot pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Pipeline ready", slog.String("model", modelPath))
	return &HugotClassifier{session: session, pipeline: pipeline}, nil
}

func ensureModel(cfg config.ONNXConfig) (string, error) {
	if err := os.MkdirAll(cfg.ModelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	modelPath := filepath.Join(cfg.ModelDir, strings.ReplaceAll(cfg.ModelName, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	slog.Info("[HugotClassifier] Model not found, downloading...", slog.String("model", cfg.ModelName))
	start := time.Now()
	downloaded, err := hugot.DownloadModel(cfg.ModelName, cfg.ModelDir, hugot.NewDownloadOptions())
	if err != nil {
		slog.Error("[HugotClassifier] Failed to download model", slog.String("error", err.Error()))
		return "", fmt.Errorf("download %s: %w", cfg.ModelName, err)
	}
	slog.Info("[HugotClassifier] Model downloaded successfully",
		slog.String("path", downloaded),
		slog.Duration("elapsed", time.Since(start)))
	return downloaded, nil
}

func (h *HugotClassifier) Classify(ctx context.Context, comments []string) ([]models.ClassificationResult, error) {
	if len(comments) == 0 {
		return []models.ClassificationResult{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	output, err := h.pipeline.RunPipeline(comments)
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("hugot classify: %w", err)
	}

	return topLabels(output)
}

// topLabels keeps the highest-scoring label per input.
func topLabels(output *pipelines.TextClassificationOutput) ([]models.ClassificationResult, error) {
	if output == nil {
		return nil, errors.New("hugot classify: empty output")
	}
	results := make([]models.ClassificationResult, len(output.ClassificationOutputs))
	for i, candidates := range output.ClassificationOutputs {
		if len(candidates) == 0 {
			return nil, fmt.Errorf("hugot classify: no labels for input %d", i)
		}
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.Score > best.Score {
				best = c
			}
		}
		results[i] = models.ClassificationResult{Label: best.Label, Score: float64(best.Score)}
	}
	return results, nil
}

func (h *HugotClassifier) Close() {
	if h.session == nil {
		return
	}
	if err := h.session.Destroy(); err != nil {
		slog.Warn("[HugotClassifier] Failed to destroy session", slog.String("error", err.Error()))
	}
}
