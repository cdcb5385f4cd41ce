package realtime

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512
)

// CloseAuthFailure is sent when a session is terminated for authentication
// reasons, distinct from a normal close.
const CloseAuthFailure = websocket.ClosePolicyViolation

// Session ties one websocket to its registry entry and runs the read and
// write pumps. Teardown always routes through Deregister exactly once, no
// matter which side disconnects first.
type Session struct {
	ws       *websocket.Conn
	registry *Registry
	conn     *Connection
	logger   *zap.Logger

	// expiry recheck; zero expiresAt or recheck disables it
	expiresAt time.Time
	recheck   time.Duration

	done chan struct{}
	once sync.Once
}

// NewSession wraps an upgraded, already-registered connection.
func NewSession(ws *websocket.Conn, registry *Registry, conn *Connection, logger *zap.Logger) *Session {
	return &Session{
		ws:       ws,
		registry: registry,
		conn:     conn,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// WithExpiryRecheck arms periodic token-expiry enforcement for a live
// session. By default expiry is checked at handshake only.
func (s *Session) WithExpiryRecheck(expiresAt time.Time, interval time.Duration) *Session {
	s.expiresAt = expiresAt
	s.recheck = interval
	return s
}

// Run pumps until the peer disconnects or the session is torn down. It
// blocks the caller, which is what the websocket handler needs: returning
// from the handler closes the underlying socket.
func (s *Session) Run() {
	go s.writePump()
	if s.recheck > 0 && !s.expiresAt.IsZero() {
		go s.watchExpiry()
	}
	s.readPump()
}

// Close tears the session down from the server side.
func (s *Session) Close() {
	s.teardown()
}

func (s *Session) teardown() {
	s.once.Do(func() {
		s.registry.Deregister(s.conn.ID)
		close(s.done)
	})
}

// readPump consumes inbound frames. Clients are not expected to send
// anything; reading serves only to detect peer disconnect and answer pings.
func (s *Session) readPump() {
	defer func() {
		s.teardown()
		_ = s.ws.Close()
	}()

	s.ws.SetReadLimit(maxMessageSize)
	_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Debug("websocket read", zap.String("connection_id", string(s.conn.ID)), zap.Error(err))
			}
			return
		}
	}
}

// writePump drains the outbound channel onto the socket. It exits when the
// channel is closed by deregistration, sending a normal close frame.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.ws.Close()
	}()

	for {
		select {
		case data, ok := <-s.conn.Outbound():
			_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				s.teardown()
				return
			}
		case <-ticker.C:
			_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.teardown()
				return
			}
		}
	}
}

// watchExpiry closes the session once its token expiry passes.
func (s *Session) watchExpiry() {
	ticker := time.NewTicker(s.recheck)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if time.Now().After(s.expiresAt) {
				s.logger.Info("closing session with expired token",
					zap.String("connection_id", string(s.conn.ID)))
				_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
				_ = s.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(CloseAuthFailure, "token expired"))
				s.teardown()
				return
			}
		}
	}
}
