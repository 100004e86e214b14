// Package server exposes turn resolution over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nathoo/drgrpg/engine"
	"github.com/nathoo/drgrpg/engine/delta"
	"github.com/nathoo/drgrpg/types"
)

// PlayerHeader carries the authenticated player id. Authentication itself
// happens in front of this server.
const PlayerHeader = "X-Player-ID"

// MaxBodyBytes bounds a turn request body.
const MaxBodyBytes = 64 << 10

// Turner resolves one turn.
type Turner interface {
	Turn(ctx context.Context, playerID int, actions []types.Action) (delta.Payload, error)
}

// Server routes game requests to a Turner.
type Server struct {
	turns  Turner
	log    *zap.Logger
	router *mux.Router
}

// New builds the router.
func New(t Turner, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{turns: t, log: log, router: mux.NewRouter()}
	s.router.Use(s.requestLogger)
	s.router.HandleFunc("/game/api/turn", s.handleTurn).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// TurnRequest is the turn body: {"action": [["combat","hunt"], ...]}.
type TurnRequest struct {
	Action [][]json.RawMessage `json:"action"`
}

// Actions decodes the action pairs. Each entry is [name] or [name, arg].
func (tr TurnRequest) Actions() ([]types.Action, error) {
	out := make([]types.Action, 0, len(tr.Action))
	for i, pair := range tr.Action {
		if len(pair) == 0 || len(pair) > 2 {
			return nil, fmt.Errorf("action %d: want [name, argument]", i)
		}
		var a types.Action
		if err := json.Unmarshal(pair[0], &a.Name); err != nil {
			return nil, fmt.Errorf("action %d: name must be a string", i)
		}
		if len(pair) == 2 {
			if err := json.Unmarshal(pair[1], &a.Arg); err != nil {
				return nil, fmt.Errorf("action %d: %w", i, err)
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.Header.Get(PlayerHeader))
	if err != nil || id <= 0 {
		http.Error(w, "Missing or invalid player id", http.StatusBadRequest)
		return
	}

	var req TurnRequest
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	actions, err := req.Actions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := s.turns.Turn(r.Context(), id, actions)
	switch {
	case errors.Is(err, engine.ErrPlayerNotFound):
		http.Error(w, "That user does not exist.", http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("turn failed", zap.Int("player", id), zap.Error(err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.log.Warn("writing turn response", zap.Int("player", id), zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// statusRecorder remembers the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
