package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/xoldn/intuition/internal/leaderboard"
)

// Hub fans leaderboard updates out to websocket spectators. The feed is
// write-only; anything a client sends is drained and discarded.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*hubClient]bool
	upgrader websocket.Upgrader
	logger   *log.Logger
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// LeaderboardUpdate is the message pushed after every resolved round.
type LeaderboardUpdate struct {
	Type    string              `json:"type"`
	Entries []leaderboard.Entry `json:"entries"`
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[*hubClient]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The feed carries only public leaderboard data.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("hub"),
	}
}

// HandleWS upgrades the request and registers the client for updates.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &hubClient{conn: conn, send: make(chan []byte, 8)}

	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("spectator connected", "total", total)

	go c.writePump()
	go h.readPump(c)
}

// BroadcastLeaderboard sends a snapshot to every connected spectator.
// Clients whose send buffers are full are dropped rather than blocking the
// request path.
func (h *Hub) BroadcastLeaderboard(entries []leaderboard.Entry) {
	data, err := json.Marshal(LeaderboardUpdate{Type: "leaderboard", Entries: entries})
	if err != nil {
		h.logger.Error("marshal leaderboard update", "error", err)
		return
	}

	var slow []*hubClient
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow spectator")
		h.unregister(c)
	}
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*hubClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *Hub) readPump(c *hubClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.unregister(c)
			return
		}
	}
}

func (h *Hub) unregister(c *hubClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
		h.logger.Info("spectator disconnected", "total", h.ClientCount())
	}
}

func (c *hubClient) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
