// Package httphandler is the HTTP driving adapter serving the read-only API.
package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/MclaughlinSteve/github-automerge/internal/application"
	"github.com/MclaughlinSteve/github-automerge/internal/domain/model"
	"github.com/MclaughlinSteve/github-automerge/internal/domain/port/driven"
)

// defaultDecisionLimit bounds list responses when no ?limit= is given.
const defaultDecisionLimit = 50

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	decisionStore driven.DecisionStore
	pollSvc       *application.PollService
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(decisionStore driven.DecisionStore, pollSvc *application.PollService, logger *slog.Logger) *Handler {
	return &Handler{
		decisionStore: decisionStore,
		pollSvc:       pollSvc,
		logger:        logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/decisions", h.ListDecisions)
	mux.HandleFunc("POST /api/v1/refresh", h.Refresh)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListDecisions returns recent merge-gate decisions, newest first.
// Optional query parameters: repo (owner/repo filter) and limit.
func (h *Handler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	limit := defaultDecisionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	repo := r.URL.Query().Get("repo")

	var decisions []model.Decision
	var err error
	if repo != "" {
		decisions, err = h.decisionStore.ListByRepo(r.Context(), repo, limit)
	} else {
		decisions, err = h.decisionStore.ListRecent(r.Context(), limit)
	}
	if err != nil {
		h.logger.Error("failed to list decisions", "repo", repo, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]DecisionResponse, 0, len(decisions))
	for _, d := range decisions {
		resp = append(resp, toDecisionResponse(d))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Refresh triggers a manual poll cycle, bypassing the interval.
// An optional ?repo= restricts the poll to one repository.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	repo := strings.TrimSpace(r.URL.Query().Get("repo"))

	if err := h.pollSvc.Refresh(r.Context(), repo); err != nil {
		h.logger.Error("manual refresh failed", "repo", repo, "error", err)
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshed"})
}

// Health is a liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newHealthResponse())
}
