package live

import (
	"encoding/json"
	"log/slog"
	"sync"

	"example.com/scoreboard/internal/scoreboard"
	"github.com/google/uuid"
)

// Envelope is the frame sent to feed clients: {"type":"...","payload":{...}}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const TypeSummary = "summary"

// Hub fans boards out to connected clients. It implements
// scoreboard.Listener and keeps the newest board for late joiners.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[uuid.UUID]*Client
	latest  []byte
	version uint64
}

func NewHub(initial scoreboard.Board, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	h := &Hub{
		log:     log,
		clients: make(map[uuid.UUID]*Client),
	}
	h.latest = encodeBoard(initial)
	h.version = initial.Version
	return h
}

func (h *Hub) BoardChanged(b scoreboard.Board) {
	msg := encodeBoard(b)

	h.mu.Lock()
	defer h.mu.Unlock()
	if b.Version <= h.version {
		return
	}
	h.version = b.Version
	h.latest = msg
	for _, c := range h.clients {
		c.trySend(msg)
	}
}

// Register adds c and queues the current board for it.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	c.trySend(h.latest)
	h.log.Debug("feed client joined", "client_id", c.ID, "clients", len(h.clients))
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	delete(h.clients, c.ID)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.Close()
		h.log.Debug("feed client left", "client_id", c.ID, "clients", n)
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func encodeBoard(b scoreboard.Board) []byte {
	payload, _ := json.Marshal(b.Snapshot())
	msg, _ := json.Marshal(Envelope{Type: TypeSummary, Payload: payload})
	return msg
}
