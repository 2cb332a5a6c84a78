package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/fortuna/gridiron/internal/logger"
)

// Client is one connected websocket consumer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected clients and fans score updates out
// to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registration and broadcast events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Get().WithField("total_clients", total).Info("websocket client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Get().WithField("total_clients", total).Info("websocket client disconnected")

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastScores marshals a score update and sends it to every client.
func (h *Hub) BroadcastScores(update interface{}) {
	data, err := json.Marshal(update)
	if err != nil {
		logger.Get().WithError(err).Error("failed to marshal websocket message")
		return
	}
	h.broadcast <- data
}

// ClientCount returns the number of active connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump drains client messages so pings and close frames are handled.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Get().WithError(err).Debug("websocket read error")
			}
			break
		}
	}
}

// writePump pushes hub messages to the connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Get().WithError(err).Debug("failed to write websocket message")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
