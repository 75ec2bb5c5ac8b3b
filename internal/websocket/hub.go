package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"docportal/internal/display"
	"docportal/internal/middleware"
	"docportal/internal/models"
)

const writeWait = 10 * time.Second

// CheckOrigin is left nil so only same-host pages may connect; the session
// cookie rides along with the upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub pushes display updates to every open page of a session.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]int
	board       display.Board
	logger      *zap.Logger
}

func NewHub(board display.Board, logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string]int),
		board:       board,
		logger:      logger,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates, unsubscribe, err := h.board.Subscribe(ctx, sessionID)
	if err != nil {
		cancel()
		conn.Close()
		h.logger.Error("display subscription failed", zap.String("session", sessionID), zap.Error(err))
		return
	}

	h.registerConnection(sessionID)

	if state, ok, err := h.board.Latest(ctx, sessionID); err == nil && ok {
		h.send(conn, state)
	}

	// Writer: the only goroutine writing to conn from here on.
	go func() {
		for state := range updates {
			if err := h.send(conn, state); err != nil {
				cancel()
				return
			}
		}
	}()

	// Reader: keeps the connection alive and notices the disconnect.
	go func() {
		defer h.unregisterConnection(sessionID)
		defer conn.Close()
		defer unsubscribe()
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) send(conn *websocket.Conn, state models.ViewState) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(models.WSMessage{
		Type: models.WSTypeDisplayUpdate,
		Payload: models.DisplayUpdate{
			Message:   state.Message,
			Operation: state.Operation,
			UpdatedAt: state.UpdatedAt,
		},
	})
}

func (h *Hub) registerConnection(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID]++
	h.logger.Debug("websocket connected", zap.String("session", sessionID), zap.Int("total", h.connections[sessionID]))
}

func (h *Hub) unregisterConnection(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID]--
	if h.connections[sessionID] <= 0 {
		delete(h.connections, sessionID)
	}
	h.logger.Debug("websocket disconnected", zap.String("session", sessionID))
}

// Connections reports the open pages of a session.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connections[sessionID]
}
