/*
Package chat implements the real-time direct-messaging hub.

This file defines the Client struct, one per WebSocket connection. It runs the
connection's state machine (Unauthenticated, Bound, Closed), the ReadPump and
WritePump loops, and frame dispatch into the Hub.
*/
package chat

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dmchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxFrameSize = 8192

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256

	// WsCloseCodeSessionReplaced is a custom WebSocket Close Code (4000-4999
	// range) signaling the client that a newer connection took over its session.
	WsCloseCodeSessionReplaced = 4001
)

// wsConn is the subset of *websocket.Conn the client uses. Tests substitute a
// stub connection.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	RemoteAddr() net.Addr
	Close() error
}

// Client represents one live WebSocket connection. userID is empty until the
// auth frame promotes the connection to Bound; it never changes afterwards.
type Client struct {
	hub  *Hub
	conn wsConn

	// userID is written once by the read goroutine on auth. The hub
	// goroutines only see the client after Bind publishes it.
	userID string

	// send queues outbound frames for the WritePump. It is never closed;
	// done signals the writer to exit instead.
	send chan []byte
	done chan struct{}

	closeOnce sync.Once

	logger zerolog.Logger
}

// NewClient constructs a Client in the Unauthenticated state.
func NewClient(hub *Hub, conn wsConn) *Client {
	clientLogger := logx.Logger().With().
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger()

	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: clientLogger,
	}
}

// ReadPump reads frames from the connection until it closes, for any cause,
// and then runs teardown. Frames are processed inline, one at a time, in
// arrival order.
func (c *Client) ReadPump() {
	defer c.teardown()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed while reading")
			}
			break
		}

		c.processFrame(context.Background(), frameBytes)
	}
}

// processFrame dispatches one inbound frame. Malformed payloads and unknown
// types are logged and dropped; they never terminate the connection.
func (c *Client) processFrame(ctx context.Context, frameBytes []byte) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frameBytes, &head); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame_bytes", frameBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch head.Type {
	case FrameAuth:
		c.handleAuth(ctx, frameBytes)

	case FrameSendMessage:
		if !c.requireBound(head.Type) {
			return
		}
		var frame SendMessageFrame
		if err := json.Unmarshal(frameBytes, &frame); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage frame")
			return
		}
		c.hub.SendDirectMessage(ctx, c, frame)

	case FrameTyping:
		if !c.requireBound(head.Type) {
			return
		}
		var frame TypingFrame
		if err := json.Unmarshal(frameBytes, &frame); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid typing frame")
			return
		}
		c.hub.RelayTyping(c, frame)

	default:
		c.logger.Warn().Str("frame_type", head.Type).Msg("Client sent unsupported frame type")
	}
}

// handleAuth promotes the connection from Unauthenticated to Bound. The user
// binding is fixed for the life of the connection: a second auth frame is a
// protocol error and is ignored, never re-bound.
func (c *Client) handleAuth(ctx context.Context, frameBytes []byte) {
	if c.userID != "" {
		c.logger.Warn().
			Str("user_id", c.userID).
			Msg("Auth frame on an already bound connection, ignoring")
		return
	}

	var frame AuthFrame
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid auth frame")
		return
	}
	if frame.UserID == "" {
		c.logger.Warn().Msg("Auth frame with empty userId, ignoring")
		return
	}

	c.userID = frame.UserID
	c.logger = c.logger.With().Str("user_id", c.userID).Logger()

	c.hub.Bind(ctx, c)
}

// requireBound drops frames that arrive before authentication.
func (c *Client) requireBound(frameType string) bool {
	if c.userID == "" {
		c.logger.Warn().
			Str("frame_type", frameType).
			Msg("Frame before auth, dropping")
		return false
	}
	return true
}

// teardown runs when the read loop exits, whatever the close cause:
// client-initiated close, network failure, or server-side eviction.
func (c *Client) teardown() {
	if c.userID != "" {
		c.hub.Unbind(context.Background(), c)
	}
	c.close()
}

// close releases the connection and stops the WritePump. Safe to call from
// any goroutine, any number of times.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error")
		}
	})
}

// enqueue queues an outbound frame without blocking. A closed or saturated
// connection drops the frame; broadcast iteration never stalls on one client.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping frame")
		return false
	}
}

// WritePump writes queued frames and heartbeat pings to the connection until
// the client is closed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case payload := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Error().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping")
				return
			}

		case <-c.done:
			return
		}
	}
}

// Kick closes the connection with a custom Close Frame explaining why. The
// read loop observes the closed transport and runs the ordinary teardown.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionReplaced).
		Str("reason", reason).
		Msg("Kicking connection.")

	closeMessage := websocket.FormatCloseMessage(WsCloseCodeSessionReplaced, reason)

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
		if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to send close frame")
		}
	}

	c.close()
}

// UserID reports the bound user id; empty while Unauthenticated.
func (c *Client) UserID() string {
	return c.userID
}
