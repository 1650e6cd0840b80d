// Package httpapi exposes the chat service over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driving"
	"github.com/civika-labs/faqd/internal/logger"
)

// Server wraps the HTTP listener and its routes.
type Server struct {
	chat driving.ChatService
	srv  *http.Server
}

// chatRequest is the POST /v1/chat request body.
type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// chatResponse is the POST /v1/chat response body.
type chatResponse struct {
	Answer       string `json:"answer"`
	ContextFound bool   `json:"context_found"`
}

// errorResponse is the body returned with non-2xx statuses.
type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates the HTTP server for the given chat service.
func NewServer(chat driving.ChatService, cfg domain.ServerConfig) *Server {
	s := &Server{chat: chat}

	r := mux.NewRouter()
	r.HandleFunc("/v1/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	return s
}

// ListenAndServe serves until Shutdown is called or the listener fails.
func (s *Server) ListenAndServe() error {
	logger.Info("HTTP API listening on %s", s.srv.Addr)

	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests within the context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler returns the route handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// handleChat answers one chat turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	reply, err := s.chat.Ask(r.Context(), req.SessionID, req.Message)
	if err != nil {
		logger.Error("chat request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:       reply.Answer,
		ContextFound: reply.ContextFound,
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON serialises v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}
