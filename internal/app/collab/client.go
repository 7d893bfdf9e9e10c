/*
Package collab contains the core logic for real-time collaborative coding sessions.

This file defines the Client struct, representing an active WebSocket connection. It manages
the connection lifecycle, the message communication loops (ReadPump and WritePump), and
implements the Conn capability the coordinator broadcasts through.
*/
package collab

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"codesync/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	// Voice audio rides inside envelopes as encoded text, so the limit is generous.
	maxMessageSize = 1 << 20

	// size of the per-client outbound queue. A client whose queue fills up is
	// treated as failed by the broadcast sweep.
	sendQueueSize = 256
)

// Client represents one live WebSocket connection to the coordinator.
// Its lifecycle is Unattached (after transport accept) → Joined (after a
// successful join event) → Detached (transport close or explicit leave).
type Client struct {
	// manager is the session coordinator this connection talks to.
	manager *Manager

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// roomID scopes the connection to one room, supplied at connect time.
	roomID string

	// user is the identity established by join. Only the ReadPump goroutine
	// touches user and joined, so no lock is needed.
	user   User
	joined bool

	// send is the buffered outbound queue drained by WritePump.
	send chan []byte

	// done signals WritePump and Send that the connection is closing.
	done      chan struct{}
	closeOnce sync.Once

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance in the Unattached state.
func NewClient(manager *Manager, wsConn *websocket.Conn, roomID string) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "Client").
		Str("room_id", roomID).
		Str("remote_addr", wsConn.RemoteAddr().String()).
		Logger()

	return &Client{
		manager: manager,
		conn:    wsConn,
		roomID:  roomID,
		send:    make(chan []byte, sendQueueSize),
		done:    make(chan struct{}),
		logger:  clientLogger,
	}
}

// Send queues an encoded envelope for delivery. It never blocks: a full queue
// or a closing connection yields an error, which the broadcast sweep treats as
// an implicit disconnect.
func (c *Client) Send(message []byte) error {
	select {
	case <-c.done:
		return fmt.Errorf("connection is closing")
	default:
	}

	select {
	case c.send <- message:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping message.")
		return fmt.Errorf("client send queue full")
	}
}

// Close terminates the connection. Safe to call multiple times.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return c.conn.Close()
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), envelope dispatch, and performs cleanup upon
// connection closure. It must run in the goroutine that owns the connection.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.processInbound(messageBytes)
	}
}

// cleanupOnDisconnect detaches the client from its room and closes the
// transport. Leave is idempotent, so this converges with a failed-broadcast
// prune racing on the same connection.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.detach()

	if err := c.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// detach removes the client's user from its room (if joined) and announces the
// departure to the remaining participants. The notification is broadcast only
// after the membership mutation has committed.
func (c *Client) detach() {
	roomID, user, ok := c.manager.Leave(c)
	c.joined = false

	if !ok {
		return
	}

	env, err := NewEnvelope(EventUserLeft, roomID, UserEventPayload{User: user})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build user_left envelope.")
		return
	}

	c.manager.Broadcast(roomID, env, c)
}

// WritePump handles writing queued messages to the WebSocket connection and
// maintains the ping heartbeat.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error().Err(err).Msg("Error writing message")
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
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing close message")
			}
			return
		}
	}
}
