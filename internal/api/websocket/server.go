// Package websocket pushes live score updates to connected league clients.
package websocket

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fortuna/gridiron/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // league clients connect from arbitrary origins
	},
}

// Server serves the live-score websocket endpoint.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
}

// NewServer creates a websocket server around a hub.
func NewServer(hub *Hub) *Server {
	return &Server{hub: hub}
}

// Hub exposes the server's hub for orchestrator broadcasting.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start starts the websocket server. Blocks until shutdown.
func (s *Server) Start(port string) error {
	s.port = port

	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/scores/live", s.handleLiveScores)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	logger.Get().WithField("port", port).Info("websocket server listening")
	return s.server.ListenAndServe()
}

func (s *Server) handleLiveScores(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().WithError(err).Warn("failed to upgrade websocket connection")
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
