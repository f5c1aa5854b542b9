// Package httpadapter exposes the coaching pipeline over HTTP. The surface
// is deliberately small: a health probe, the prometheus endpoint and one
// chat operation.
package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
	"github.com/jhpark-lab/career-coach/internal/core/ports"
)

type Router struct {
	coach          ports.CoachService
	logger         *slog.Logger
	metricsHandler http.Handler
}

func NewRouter(coach ports.CoachService, logger *slog.Logger, metricsHandler http.Handler) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		coach:          coach,
		logger:         logger,
		metricsHandler: metricsHandler,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/chat", rt.chat)
	if rt.metricsHandler != nil {
		mux.Handle("/metrics", rt.metricsHandler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		UserProfile string `json:"user_profile"`
		Question    string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	result, err := rt.coach.Chat(r.Context(), req.UserProfile, req.Question)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		rt.logger.Error("chat_request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"status", status,
			"error", err,
		)
		writeJSON(w, status, map[string]string{"error": publicErrorMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func publicErrorMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return err.Error()
	case domain.IsKind(err, domain.ErrRetrieval):
		return "retrieval backend unavailable"
	case domain.IsKind(err, domain.ErrOracleUnavailable), domain.IsKind(err, domain.ErrTemporary):
		return "model backend unavailable"
	default:
		return "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
