package plot

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/chartwise/pkg/logger"
	"github.com/raykavin/chartwise/pkg/upload"
)

const (
	broadcastBuffer = 16
	writeWait       = 10 * time.Second
)

// StateMessage is pushed to connected pages on every controller change
type StateMessage struct {
	Type    string `json:"type"`
	Phase   string `json:"phase"`
	Seq     uint64 `json:"seq"`
	File    string `json:"file,omitempty"`
	Message string `json:"message,omitempty"`
}

// Hub fans controller state changes out to websocket clients
type Hub struct {
	sync.RWMutex
	clients   map[*websocket.Conn]struct{}
	upgrader  websocket.Upgrader
	broadcast chan StateMessage
	done      chan struct{}
	closeOnce sync.Once
	log       logger.Logger
}

// NewHub creates a hub; Run must be started to deliver messages
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcast: make(chan StateMessage, broadcastBuffer),
		done:      make(chan struct{}),
		log:       log,
	}
}

// Publish queues state for delivery. It never blocks, since it runs under
// the controller lock; messages are dropped when the buffer is full.
func (h *Hub) Publish(state upload.State) {
	msg := StateMessage{
		Type:    "state",
		Phase:   state.Phase.String(),
		Seq:     state.Seq,
		File:    state.File,
		Message: state.Message,
	}

	select {
	case <-h.done:
	case h.broadcast <- msg:
	default:
		h.log.Warnf("state push buffer full, dropping seq %d", state.Seq)
	}
}

// Run delivers queued messages until Close is called
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.Unlock()
			return
		case msg := <-h.broadcast:
			h.RLock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					h.log.WithError(err).Error("failed to push state")
					// the reader loop removes the client once it sees the closed connection
					conn.Close()
				}
			}
			h.RUnlock()
		}
	}
}

// Close stops Run and disconnects every client
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.RLock()
	defer h.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the connection and registers the client
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("failed to upgrade connection to websocket")
		return
	}

	h.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.Unlock()

	h.log.Debugf("websocket client connected, total %d", count)

	go h.readClient(conn)
}

// readClient drains client frames until the connection drops
func (h *Hub) readClient(conn *websocket.Conn) {
	defer func() {
		h.Lock()
		delete(h.clients, conn)
		remaining := len(h.clients)
		h.Unlock()
		conn.Close()
		h.log.Debugf("websocket client disconnected, remaining %d", remaining)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Error("websocket read error")
			}
			return
		}
	}
}
