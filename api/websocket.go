package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tarn-chain/tarn/x/amm/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin; REST CORS policy does not apply
	// to websocket upgrades, so origins are accepted here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; the stream is server-push only
	maxMessageSize = 512
)

// PoolHub fans pool snapshots out to connected websocket clients. New
// clients are greeted with the latest snapshot so they never start blind.
type PoolHub struct {
	logger     log.Logger
	clients    map[*poolClient]bool
	broadcast  chan PoolsMessage
	register   chan *poolClient
	unregister chan *poolClient
	stop       chan struct{}
	stopOnce   sync.Once
	count      atomic.Int64

	mu       sync.RWMutex
	snapshot *PoolsMessage
}

type poolClient struct {
	hub  *PoolHub
	conn *websocket.Conn
	send chan PoolsMessage
}

// NewPoolHub creates the hub; Run must be started on its own goroutine.
func NewPoolHub(logger log.Logger) *PoolHub {
	return &PoolHub{
		logger:     logger.With("component", "pool-stream"),
		clients:    make(map[*poolClient]bool),
		broadcast:  make(chan PoolsMessage, 64),
		register:   make(chan *poolClient),
		unregister: make(chan *poolClient),
		stop:       make(chan struct{}),
	}
}

// Run dispatches registrations and broadcasts until Close is called.
func (h *PoolHub) Run() {
	for {
		select {
		case <-h.stop:
			for client := range h.clients {
				client.conn.Close()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			if greeting := h.lastSnapshot(); greeting != nil {
				select {
				case client.send <- *greeting:
				default:
				}
			}
			h.logger.Debug("client connected", "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.count.Store(int64(len(h.clients)))
			h.logger.Debug("client disconnected", "total", len(h.clients))

		case message := <-h.broadcast:
			h.setSnapshot(message)
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop the connection rather than
					// stalling the stream.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// BroadcastPools publishes a snapshot to all clients.
func (h *PoolHub) BroadcastPools(pools []types.Pool) {
	msg := PoolsMessage{
		Type:      "pools",
		Pools:     pools,
		Timestamp: time.Now().UnixMilli(),
	}

	select {
	case h.broadcast <- msg:
	case <-h.stop:
	}
}

// Close disconnects all clients and stops the hub.
func (h *PoolHub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// ClientCount reports the number of connected clients.
func (h *PoolHub) ClientCount() int {
	return int(h.count.Load())
}

func (h *PoolHub) setSnapshot(msg PoolsMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = &msg
}

func (h *PoolHub) lastSnapshot() *PoolsMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// handleWebSocket upgrades the connection and attaches it to the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	client := &poolClient{
		hub:  s.hub,
		conn: conn,
		send: make(chan PoolsMessage, 16),
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.stop:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains client frames. The stream is server-push only, so inbound
// payloads are discarded; the read loop exists to process control frames and
// to notice the peer going away.
func (c *poolClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stop:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards snapshots and keeps the connection alive with pings.
func (c *poolClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
