// internal/server/handlers/websocket.go

package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"cityscout/internal/logger"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: (60 * time.Second * 9) / 10,
	}
}

// WebSocketUpgrader is used to upgrade HTTP connections to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// RefreshWebSocketHandler streams cache refresh events to connected
// clients. Each connection holds its own NATS subscription on the refresh
// subject tree; events arrive as the JSON the publisher emitted.
func RefreshWebSocketHandler(natsConn *nats.Conn, subjectPrefix string) http.HandlerFunc {
	log := logger.Named("ws")
	cfg := DefaultWebSocketConfig()

	return func(w http.ResponseWriter, r *http.Request) {
		if natsConn == nil {
			respondWithError(w, http.StatusServiceUnavailable, "Event stream not configured", nil)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnw("websocket upgrade failed", "error", err)
			return
		}

		msgs := make(chan *nats.Msg, 64)
		sub, err := natsConn.ChanSubscribe(subjectPrefix+".>", msgs)
		if err != nil {
			log.Warnw("refresh subscription failed", "error", err)
			conn.Close()
			return
		}

		go writePump(conn, cfg, msgs, log)
		go readPump(conn, cfg, sub)
	}
}

// writePump forwards refresh events to the peer and keeps the connection
// alive with pings.
func writePump(conn *websocket.Conn, cfg WebSocketConfig, msgs chan *nats.Msg, log *zap.SugaredLogger) {
	ticker := time.NewTicker(cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-msgs:
			conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg.Data); err != nil {
				log.Debugw("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection until the peer goes away, then tears down
// the subscription.
func readPump(conn *websocket.Conn, cfg WebSocketConfig, sub *nats.Subscription) {
	defer func() {
		sub.Unsubscribe()
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
