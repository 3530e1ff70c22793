// Package realtime pushes bus events to connected browsers over websockets.
//
// A client connects to /api/ws and must send {"token": "<jwt>"} within five
// seconds. After that the server writes every event addressed to that user,
// plus events addressed to everyone (shuttle moves, broadcast notifications).
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"shuttlego/internal/events"
)

const (
	authTimeout    = 5 * time.Second
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 8192
	writeWait      = 10 * time.Second
	sendBuffer     = 256
)

// AuthFunc validates the first-message token and returns the identity.
type AuthFunc func(token string) (userID, role string, err error)

// Client is one websocket connection.
type Client struct {
	ID     string
	UserID string
	Role   string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

// Hub tracks live connections. Run owns registration; reads take mu.
type Hub struct {
	clients    map[string]*Client
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	authFunc   AuthFunc
	upgrader   websocket.Upgrader
	log        *slog.Logger
}

func NewHub(authFunc AuthFunc, allowedOrigins []string, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 10),
		unregister: make(chan *Client, 10),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		authFunc:   authFunc,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("websocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Info("ws client registered", slog.String("client_id", client.ID), slog.String("user_id", client.UserID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Pump forwards bus events to clients until ctx is cancelled.
func (h *Hub) Pump(ctx context.Context, bus *events.Bus) {
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			msg, err := json.Marshal(e)
			if err != nil {
				h.log.Error("encode ws event", slog.String("topic", string(e.Topic)), slog.String("error", err.Error()))
				continue
			}
			if e.UserID == "" {
				h.Broadcast(msg)
			} else {
				h.SendToUser(e.UserID, msg)
			}
		}
	}
}

func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.log.Error("ws broadcast dropped: channel full")
	}
}

func (h *Hub) SendToUser(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.send <- message:
		default:
			h.log.Error("ws send to user dropped", slog.String("user_id", userID))
		}
	}
}

// IsUserConnected reports whether userID has at least one live connection.
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

// ServeWS upgrades the request and authenticates the first message.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))

	var authMsg struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&authMsg); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "auth timeout"))
		_ = conn.Close()
		return
	}

	userID, role, err := h.authFunc(authMsg.Token)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid token"})
		_ = conn.Close()
		h.log.Warn("ws auth rejected", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		hub:    h,
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// writes go through writePump from here on
	ack, _ := json.Marshal(map[string]string{"status": "authenticated", "user_id": userID})
	client.send <- ack

	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains client frames so pongs and close frames are processed.
// Clients have nothing to say after auth; payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("ws read error", slog.String("client_id", c.ID), slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
