package notifications

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MarginAlert is pushed to a borrower when one of their positions
// classifies as warning or worse.
type MarginAlert struct {
	PositionID  string    `json:"position_id"`
	BorrowerID  string    `json:"borrower_id"`
	Health      string    `json:"health"`
	CurrentLTV  float64   `json:"current_ltv"`
	Threshold   float64   `json:"threshold"`
	Message     string    `json:"message"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Hub fans margin alerts out to connected wallet sessions
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*connection // wallet id -> open sessions
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

type connection struct {
	walletID string
	conn     *websocket.Conn
	send     chan MarginAlert
}

// NewHub creates a new alert hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string][]*connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades an HTTP request to a WebSocket session for
// the given wallet.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, walletID string) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &connection{
		walletID: walletID,
		conn:     ws,
		send:     make(chan MarginAlert, 64),
	}

	h.mu.Lock()
	h.connections[walletID] = append(h.connections[walletID], c)
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// Publish delivers an alert to every open session for the borrower.
// Sessions with a full send buffer are skipped rather than blocked on.
func (h *Hub) Publish(alert MarginAlert) {
	h.mu.RLock()
	sessions := h.connections[alert.BorrowerID]
	h.mu.RUnlock()

	for _, c := range sessions {
		select {
		case c.send <- alert:
		default:
			h.logger.Warn("alert dropped, session buffer full",
				zap.String("wallet_id", alert.BorrowerID))
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case alert, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(alert); err != nil {
				h.logger.Debug("session write failed", zap.Error(err))
				h.remove(c)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		// Clients send nothing; reads only detect closure.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions := h.connections[c.walletID]
	for i, s := range sessions {
		if s == c {
			h.connections[c.walletID] = append(sessions[:i], sessions[i+1:]...)
			break
		}
	}
	if len(h.connections[c.walletID]) == 0 {
		delete(h.connections, c.walletID)
	}
}
