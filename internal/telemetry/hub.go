package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultInterval is the broadcast period.
const DefaultInterval = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Access control happens before the upgrade; subscribers carry a
		// session token already.
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	// Serializes writes; the connection allows one writer at a time.
	wmu sync.Mutex
}

func (c *client) write(message []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub fans telemetry samples out to connected websocket clients.
type Hub struct {
	sampler  Sampler
	interval time.Duration

	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex

	done chan struct{}
	once sync.Once
}

// NewHub creates a hub; Run must be started for it to do anything.
func NewHub(sampler Sampler, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Hub{
		sampler:    sampler,
		interval:   interval,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set and the sample ticker. It returns when the hub
// is stopped.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				c.conn.Close()
			}
			h.mu.Unlock()
		case <-ticker.C:
			h.broadcastStats()
		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
				c.conn.Close()
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastStats samples once and pushes to every client. A failed sample
// skips the tick; the next one tries again.
func (h *Hub) broadcastStats() {
	ctx, cancel := context.WithTimeout(context.Background(), h.interval)
	defer cancel()

	stats, err := h.sampler.Sample(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("telemetry sample failed, skipping tick")
		return
	}

	h.Broadcast("system_stats", stats)
}

// Broadcast pushes one typed message to all clients. Clients with a full
// send buffer are skipped rather than blocked on.
func (h *Hub) Broadcast(msgType string, data any) {
	payload, err := json.Marshal(map[string]any{
		"type":      msgType,
		"timestamp": time.Now().UnixMilli(),
		"data":      data,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Buffer full, drop for this client
		}
	}
}

// ServeWS upgrades the request and attaches the client to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

// readPump consumes client messages until disconnect. The only message
// clients send is a ping probe, answered directly on the connection.
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.Type == "ping" {
			pong, _ := json.Marshal(map[string]any{
				"type":      "pong",
				"timestamp": time.Now().UnixMilli(),
			})
			if err := c.write(pong); err != nil {
				return
			}
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.write(message); err != nil {
			return
		}
	}
}
