package server

import "net/http"

func NewMux(h *Handler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze-sentiments/{$}", h.AnalyzeSentiments)
	mux.HandleFunc("GET /health", h.Health)

	return CORS(allowedOrigins)(mux)
}
