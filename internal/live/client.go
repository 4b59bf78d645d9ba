package live

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one feed connection. Messages go through a buffered channel
// drained by the writer loop.
type Client struct {
	ID   uuid.UUID
	ws   *websocket.Conn
	send chan []byte

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func NewClient(ws *websocket.Conn, buffer int) *Client {
	return &Client{
		ID:   uuid.New(),
		ws:   ws,
		send: make(chan []byte, buffer),
	}
}

// trySend never blocks: a client that cannot keep up misses boards, and the
// next one it receives supersedes them anyway.
func (c *Client) trySend(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}
