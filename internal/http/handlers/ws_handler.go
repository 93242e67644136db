package handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/groupmod/backend/internal/auth"
	"github.com/groupmod/backend/internal/config"
	"github.com/groupmod/backend/internal/events"
	"go.uber.org/zap"
)

// wsClient is one operator connection, optionally scoped to a single group.
type wsClient struct {
	conn    *websocket.Conn
	groupID int64
	mu      sync.Mutex
}

func (c *wsClient) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub fans audit and moderation events out to connected operators.
type WSHub struct {
	cfg        *config.Config
	subscriber events.Subscriber
	log        *zap.Logger
	mu         sync.RWMutex
	clients    map[string][]*wsClient
}

func NewWSHub(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		cfg:        cfg,
		subscriber: subscriber,
		log:        log,
		clients:    make(map[string][]*wsClient),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, func(_ string, event events.Event) {
		h.broadcast(event)
	}, events.StreamAudit, events.StreamModeration)
}

func (h *WSHub) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for _, cl := range clients {
			if cl.groupID != 0 && cl.groupID != event.GroupID {
				continue
			}
			if err := cl.send(data); err != nil {
				h.log.Debug("ws write failed", zap.Error(err))
			}
		}
	}
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	tokenStr := conn.Query("token")
	if tokenStr == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
		conn.Close()
		return
	}

	claims, err := auth.ParseJWT(h.cfg.JWTSecret, tokenStr)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		conn.Close()
		return
	}

	cl := &wsClient{conn: conn}
	if g := conn.Query("group"); g != "" {
		id, err := strconv.ParseInt(g, 10, 64)
		if err != nil || id <= 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid group"}`))
			conn.Close()
			return
		}
		cl.groupID = id
	}

	operatorID := claims.OperatorID
	h.register(operatorID, cl)
	h.log.Info("ws connected",
		zap.String("operator_id", operatorID),
		zap.Int64("group_id", cl.groupID),
		zap.Int("connections", h.connectionCount()),
	)
	defer func() {
		h.unregister(operatorID, cl)
		conn.Close()
	}()

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *WSHub) register(operatorID string, cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[operatorID] = append(h.clients[operatorID], cl)
}

func (h *WSHub) unregister(operatorID string, cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[operatorID]
	for i, c := range clients {
		if c == cl {
			h.clients[operatorID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.clients[operatorID]) == 0 {
		delete(h.clients, operatorID)
	}
}

func (h *WSHub) connectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}
