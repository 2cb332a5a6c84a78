// Package rest exposes the league-facing HTTP API.
package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/gridiron/internal/store"
)

// Server represents the REST API server.
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server.
func NewServer(port string, db *store.Database, runner PassRunner) *Server {
	handler := NewHandler(db, runner)

	router := mux.NewRouter()

	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/leagues/{leagueID}/scoreboard", handler.GetScoreboard).Methods("GET")
	api.HandleFunc("/leagues/{leagueID}/games", handler.GetLeagueGames).Methods("GET")
	api.HandleFunc("/owners/{ownerID}/roster", handler.GetOwnerRoster).Methods("GET")
	api.HandleFunc("/passes", handler.TriggerPass).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server. Blocks until shutdown.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
