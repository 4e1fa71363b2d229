package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/availability/internal/flow"
	"github.com/vietddude/availability/internal/interaction"
	"github.com/vietddude/availability/internal/permission"
	"github.com/vietddude/availability/internal/recovery"
	"github.com/vietddude/availability/internal/session"
	"github.com/vietddude/availability/internal/storage"
)

// HealthChecker is a dependency reported by /health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps are the components exposed over HTTP.
type Deps struct {
	Sessions    *session.Manager
	Board       *interaction.Board
	Permissions *permission.Manager
	Flows       *flow.Launcher
	Passes      storage.PassRepository
	Retrier     *recovery.Retrier
	Checkers    map[string]HealthChecker
}

// Server provides the HTTP API.
type Server struct {
	deps   Deps
	router *mux.Router
	server *http.Server
	log    *slog.Logger
}

// NewServer creates a new API server listening on port.
func NewServer(deps Deps, port int) *Server {
	s := &Server{
		deps:   deps,
		router: mux.NewRouter(),
		log:    slog.Default().With("component", "api"),
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	r := s.router
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	r.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	r.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	r.HandleFunc("/sessions/{id}", s.handleCloseSession).Methods("DELETE")
	r.HandleFunc("/sessions/{id}/strategies/{kind}", s.handleEnableStrategy).Methods("PUT")
	r.HandleFunc("/sessions/{id}/strategies/{kind}", s.handleDisableStrategy).Methods("DELETE")
	r.HandleFunc("/sessions/{id}/check", s.handleCheck).Methods("POST")
	r.HandleFunc("/sessions/{id}/resolve", s.handleResolve).Methods("POST")
	r.HandleFunc("/sessions/{id}/history", s.handleHistory).Methods("GET")

	r.HandleFunc("/interactions", s.handleInteractions).Methods("GET")
	r.HandleFunc("/permissions/{code}/result", s.handlePermissionResult).Methods("POST")
	r.HandleFunc("/flows/{id}/complete", s.handleFlowComplete).Methods("POST")

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info("HTTP API listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	components := make(map[string]string, len(s.deps.Checkers))
	for name, checker := range s.deps.Checkers {
		if err := checker.Health(r.Context()); err != nil {
			components[name] = err.Error()
			status = "critical"
			continue
		}
		components[name] = "ok"
	}

	code := http.StatusOK
	if status == "critical" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": components,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
