// Package ws рассылает события координатора подключённым UI по WebSocket.
package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 512
)

type client struct {
	userID    contextx.UserID
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Hub подписки по пользователям. Publish не блокируется: клиент,
// не успевающий читать, отключается.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[contextx.UserID]map[*client]struct{}
	closed  bool
}

func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		clients: make(map[contextx.UserID]map[*client]struct{}),
	}
}

func (h *Hub) Publish(ctx context.Context, event entity.Event) {
	if event.UserID == "" {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger(ctx).ErrorContext(ctx, "json.Marshal", logx.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[event.UserID] {
		h.enqueueLocked(c, data)
	}
}

// Serve поднимает соединение и держит его до отключения клиента.
// initial вызывается после регистрации: события, опубликованные между
// регистрацией и снимком, приходят раньше снимка и не теряются.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID contextx.UserID, initial func() entity.Event) error {
	ctx := r.Context()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrader.Upgrade: %w", err)
	}

	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()

		return nil
	}

	h.deliver(ctx, c, initial())

	logger(ctx).InfoContext(ctx, "websocket connected", slog.String(logx.FieldUserID, userID.String()))

	go h.writePump(ctx, c)
	h.readPump(c)

	logger(ctx).InfoContext(ctx, "websocket disconnected", slog.String(logx.FieldUserID, userID.String()))

	return nil
}

// Clients число подключений пользователя.
func (h *Hub) Clients(userID contextx.UserID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}

// Close отключает всех клиентов.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	for userID, set := range h.clients {
		for c := range set {
			c.close()
		}

		delete(h.clients, userID)
	}
}

// deliver отправляет одному клиенту, если он ещё зарегистрирован.
func (h *Hub) deliver(ctx context.Context, c *client, event entity.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger(ctx).ErrorContext(ctx, "json.Marshal", logx.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c.userID][c]; ok {
		h.enqueueLocked(c, data)
	}
}

// enqueueLocked под h.mu: канал клиента закрывается только под записью.
func (h *Hub) enqueueLocked(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		go h.unregister(c)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.userID] = set
	}

	set[c] = struct{}{}

	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[c.userID]; ok {
		delete(set, c)

		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}

	c.close()
}

// readPump входящие сообщения игнорируются, нужен для pong и закрытия.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger(ctx).DebugContext(ctx, "websocket write", logx.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
