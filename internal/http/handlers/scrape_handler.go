package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"

	"DeadlineAgent/internal/usecase"
)

var urlExpr = regexp.MustCompile(`^https?://`)

// ScrapeHandler accepts course credentials and runs one extraction pass.
// Credentials live only in the request; nothing is cached between calls.
type ScrapeHandler struct {
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// NewScrapeHandler wires the run-once pipeline.
func NewScrapeHandler(pipeline *usecase.Pipeline, logger *slog.Logger) *ScrapeHandler {
	return &ScrapeHandler{pipeline: pipeline, logger: logger}
}

// Register mounts the handler on the mux.
func (h *ScrapeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/scrape", h.handleScrape)
}

type scrapeRequest struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *ScrapeHandler) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req scrapeRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.URL == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}
	if !urlExpr.MatchString(req.URL) {
		writeError(w, http.StatusBadRequest, "invalid URL format")
		return
	}

	result, err := h.pipeline.RunOnce(r.Context(), req.URL, req.Username, req.Password)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("run failed", "url", req.URL, "error", err)
		}
		writeError(w, http.StatusBadGateway, "scrape run failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
