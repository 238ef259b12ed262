// Package server exposes capture sessions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tapcolour/internal/capture"
	"github.com/jmylchreest/tapcolour/internal/colour"
	"github.com/jmylchreest/tapcolour/internal/geometry"
)

// Session is one capture controller bound to one frame source.
type Session interface {
	Capture(ctx context.Context, tap geometry.Point, view geometry.Dimensions) (*colour.Result, error)
	Clear()
	State() capture.State
}

// Factory creates a session for a frame source.
type Factory func(source string) (Session, error)

// Server holds the live sessions.
type Server struct {
	factory Factory
	logger  hclog.Logger

	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	source  string
	session Session
}

// New creates a Server. A nil logger discards output.
func New(factory Factory, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		factory:  factory,
		logger:   logger,
		sessions: make(map[string]*entry),
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/convert/{hex}", s.handleConvert).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/capture", s.handleCapture).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/result", s.handleClear).Methods(http.MethodDelete)
	return r
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Source string `json:"source"`
}

// CaptureRequest is the body of POST /sessions/{id}/capture.
type CaptureRequest struct {
	Tap  geometry.Point      `json:"tap"`
	View geometry.Dimensions `json:"view"`
}

// SessionResponse describes a session and its last outcome.
type SessionResponse struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	InFlight bool           `json:"inFlight"`
	Result   *colour.Result `json:"result"`
	Error    *ErrorResponse `json:"error"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	rgb, err := colour.FromHex(mux.Vars(r)["hex"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "format")
		return
	}
	writeJSON(w, http.StatusOK, colour.NewResult(rgb))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}
	if req.Source == "" {
		writeError(w, http.StatusBadRequest, errors.New("source is required"), "")
		return
	}

	session, err := s.factory(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &entry{source: req.Source, session: session}
	s.mu.Unlock()

	s.logger.Info("session created", "id", id, "source", req.Source)
	writeJSON(w, http.StatusCreated, describe(id, req.Source, session.State()))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, describe(id, e.source, e.session.State()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("session not found: %s", id), "")
		return
	}
	s.logger.Info("session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	id, e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}

	result, err := e.session.Capture(r.Context(), req.Tap, req.View)
	if err != nil {
		status, kind := classify(err)
		s.logger.Warn("capture failed", "id", id, "kind", kind, "error", err)
		writeError(w, status, err, kind)
		return
	}
	if result == nil {
		writeError(w, http.StatusConflict, errors.New("capture already in progress"), "busy")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if _, e, ok := s.lookup(w, r); ok {
		e.session.Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *entry, bool) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("session not found: %s", id), "")
		return id, nil, false
	}
	return id, e, true
}

// classify maps a capture error to an HTTP status and error kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, geometry.ErrGeometry):
		return http.StatusBadRequest, "geometry"
	case errors.Is(err, capture.ErrPhotoCapture):
		return http.StatusBadGateway, capture.KindPhotoCaptureFailed.String()
	case errors.Is(err, capture.ErrTimeout):
		return http.StatusGatewayTimeout, capture.KindTimeout.String()
	default:
		return http.StatusInternalServerError, capture.KindUnknown.String()
	}
}

func describe(id, source string, state capture.State) SessionResponse {
	resp := SessionResponse{
		ID:       id,
		Source:   source,
		InFlight: state.InFlight,
		Result:   state.Result,
	}
	if state.Err != nil {
		resp.Error = &ErrorResponse{Error: state.Err.Error(), Kind: state.Err.Kind.String()}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, kind string) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}
