package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connect4/agent"
	"connect4/communication"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Defaults fill in the fields a MoveRequest leaves out.
type Defaults struct {
	Player    int
	Algorithm agent.Algorithm
	Depth     int
	TimeLimit time.Duration
}

// Server answers move requests and tracks metrics for games against the AI.
type Server struct {
	defaults   Defaults
	aggregator *metrics.Aggregator
	router     chi.Router
}

func New(defaults Defaults, aggregator *metrics.Aggregator) *Server {
	s := &Server{
		defaults:   defaults,
		aggregator: aggregator,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Str("request-id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get(communication.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post(communication.MovePath, s.handleMove)
	r.Get(communication.MetricsPath, s.handleMetrics)
	r.Post(communication.MetricsResetPath, s.handleResetMetrics)
	r.Post(communication.GameEndPath, s.handleGameEnd)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	log.Info().Msgf("move server listening on %s", addr)
	select {
	case <-ctx.Done():
		log.Info().Msgf("shutdown signal received: %v", ctx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return server.Close()
	}
	return nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req communication.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Board == nil {
		writeError(w, http.StatusBadRequest, "Board is required")
		return
	}

	cfg, player, err := s.agentConfig(req)
	var a *agent.Search
	if err == nil {
		a, err = agent.New(cfg)
	}
	switch {
	case errors.Is(err, agent.ErrUnknownAlgorithm):
		writeError(w, http.StatusBadRequest, "Invalid algorithm")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := a.FindMove(r.Context(), *req.Board, player)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := communication.MoveResponse{
		Value:         d.Value,
		NodesExpanded: d.NodesExpanded,
		PrunedNodes:   d.NodesPruned,
		DecisionTime:  d.Duration.Seconds(),
		Depth:         d.Depth,
	}
	if d.Move != game.NoMove {
		resp.Move = &d.Move
		if d.Shortcut {
			// Immediate wins and blocks count as a move but not as search work
			s.aggregator.RecordMove(0, 0, d.Duration)
		} else {
			s.aggregator.RecordMove(d.NodesExpanded, d.NodesPruned, d.Duration)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) agentConfig(req communication.MoveRequest) (agent.Config, game.Player, error) {
	cfg := agent.Config{
		Algorithm: s.defaults.Algorithm,
		Depth:     s.defaults.Depth,
		TimeLimit: s.defaults.TimeLimit,
	}
	id := s.defaults.Player
	if req.Player != nil {
		id = *req.Player
	}
	player, err := game.ParsePlayer(id)
	if err != nil {
		return cfg, game.Empty, err
	}
	if req.Algorithm != nil {
		cfg.Algorithm, err = agent.ParseAlgorithm(*req.Algorithm)
		if err != nil {
			return cfg, game.Empty, err
		}
	}
	if req.Depth != nil {
		cfg.Depth = *req.Depth
	}
	if req.TimeLimit != nil {
		cfg.TimeLimit = time.Duration(*req.TimeLimit * float64(time.Second))
	}
	return cfg, player, nil
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.aggregator.Snapshot())
}

func (s *Server) handleResetMetrics(w http.ResponseWriter, r *http.Request) {
	s.aggregator.Reset()
	writeJSON(w, http.StatusOK, communication.StatusResponse{Status: "reset"})
}

func (s *Server) handleGameEnd(w http.ResponseWriter, r *http.Request) {
	var req communication.GameEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s.aggregator.RecordGame(req.Winner)
	writeJSON(w, http.StatusOK, communication.StatusResponse{Status: "recorded"})
}

// cors allows any origin, as the browser front end is served separately.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, communication.ErrorResponse{Error: msg})
}
