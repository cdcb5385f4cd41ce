package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/eden-labs/trading-gateway/internal/auth"
	"github.com/eden-labs/trading-gateway/internal/config"
	"github.com/eden-labs/trading-gateway/internal/domain"
	"github.com/eden-labs/trading-gateway/internal/observability"
	"github.com/eden-labs/trading-gateway/internal/realtime"
)

// WSHandler owns the realtime updates endpoint: handshake, token check,
// registration and the session pumps.
type WSHandler struct {
	tokens   *auth.TokenService
	registry *realtime.Registry
	metrics  *observability.Metrics
	logger   *zap.Logger
	policy   config.WebsocketPolicy
	recheck  time.Duration
}

// NewWSHandler constructs handler.
func NewWSHandler(tokens *auth.TokenService, registry *realtime.Registry, metrics *observability.Metrics, logger *zap.Logger, cfg config.WebsocketConfig) *WSHandler {
	return &WSHandler{
		tokens:   tokens,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		policy:   cfg.Policy,
		recheck:  cfg.ExpiryRecheck(),
	}
}

// Upgrade gates the route to websocket upgrade requests.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Updates serves GET /ws/updates/:token. The token is verified once at
// handshake; what happens on failure depends on the configured policy.
// The connection walks Pending -> Authenticated|Anonymous -> Open; every
// exit path goes through deregistration.
func (h *WSHandler) Updates(ws *websocket.Conn) {
	token := ws.Params("token")

	state := realtime.StatePending
	var identity *domain.Identity
	var expiresAt time.Time

	verified, expiry, err := h.tokens.VerifyWithExpiry(token)
	switch {
	case err == nil && verified.Active:
		identity = &verified
		expiresAt = expiry
		state = realtime.StateAuthenticated
	case h.policy == config.PolicyAllowAnonymous:
		state = realtime.StateAnonymous
	default:
		h.logger.Info("rejecting websocket", zap.Error(err))
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(realtime.CloseAuthFailure, "authentication failed"),
			time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}

	conn := h.registry.Register(identity)
	h.metrics.SetActiveConnections(h.registry.Size())
	h.logger.Info("websocket connected",
		zap.String("connection_id", string(conn.ID)),
		zap.String("state", string(state)))

	h.sendWelcome(conn)

	session := realtime.NewSession(ws, h.registry, conn, h.logger)
	if state == realtime.StateAuthenticated {
		session.WithExpiryRecheck(expiresAt, h.recheck)
	}
	session.Run()

	h.metrics.SetActiveConnections(h.registry.Size())
	h.logger.Info("websocket disconnected", zap.String("connection_id", string(conn.ID)))
}

func (h *WSHandler) sendWelcome(conn *realtime.Connection) {
	welcome := realtime.Message{
		Type:      "connected",
		Data:      map[string]interface{}{"connection_id": string(conn.ID)},
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(welcome)
	if err != nil {
		return
	}
	if err := conn.TrySend(data); err != nil {
		h.logger.Warn("welcome frame dropped", zap.String("connection_id", string(conn.ID)), zap.Error(err))
	}
}
