package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/commentlens/internal/models"
	"github.com/spacesedan/commentlens/internal/monitoring"
	"github.com/spacesedan/commentlens/internal/validation"
)

const maxBodyBytes = 8 << 20

type Analyzer interface {
	Analyze(ctx context.Context, comments []string) (models.AnalysisResult, error)
}

type Handler struct {
	analyzer         Analyzer
	maxCommentLength int
	health           *monitoring.AdapterHealth
}

// NewHandler builds the HTTP handlers. health may be nil when no adapter is
// probed.
func NewHandler(analyzer Analyzer, maxCommentLength int, health *monitoring.AdapterHealth) *Handler {
	return &Handler{analyzer: analyzer, maxCommentLength: maxCommentLength, health: health}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type adapterStatus struct {
	Classifier bool `json:"classifier"`
	Summarizer bool `json:"summarizer"`
}

type healthResponse struct {
	Status   string         `json:"status"`
	Adapters *adapterStatus `json:"adapters,omitempty"`
}

func (h *Handler) AnalyzeSentiments(w http.ResponseWriter, r *http.Request) {
	var input models.CommentBatch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&input); err != nil {
		slog.Warn("[Server] Invalid request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "Invalid request body"})
		return
	}

	if err := validation.ValidateComments(input.Comments, h.maxCommentLength); err != nil {
		slog.Warn("[Server] Invalid input", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	slog.Info("[Server] Received request", slog.Int("comments", len(input.Comments)))
	start := time.Now()

	result, err := h.analyzer.Analyze(r.Context(), input.Comments)
	if err != nil {
		slog.Error("[Server] Processing failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
		return
	}

	slog.Debug("[Server] Request processed", slog.Duration("elapsed", time.Since(start)))
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy"}
	if h.health != nil {
		resp.Adapters = &adapterStatus{
			Classifier: h.health.Classifier.Load(),
			Summarizer: h.health.Summarizer.Load(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("[Server] Failed to encode response", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Detail: "Internal server error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("[Server] Failed to write response", slog.String("error", err.Error()))
	}
}
