package live

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // read-only public feed
}

func (h *Hub) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/summary", h.ServeWS)
}

// ServeWS streams the summary to one client: the current board right away,
// then every newer board. Anything the client sends is discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := NewClient(ws, sendBuffer)
	h.Register(c)

	go h.writeLoop(c)

	// reader loop: only here to notice the close
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	h.Unregister(c)
}

func (h *Hub) writeLoop(c *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.Unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Unregister(c)
				return
			}
		}
	}
}
