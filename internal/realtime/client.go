package realtime

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arkodeep/vibely/backend/pkg/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// clientIDCounter hands out unique ids for connected clients.
var clientIDCounter atomic.Uint64

// Client is the middleman between one websocket connection and the hub.
// The connection authenticated once at upgrade time; userID is the
// authenticated user for the lifetime of the connection.
type Client struct {
	id     uint64
	hub    *Hub
	conn   *websocket.Conn
	userID uint
	send   chan Frame

	// keys and closed are guarded by hub.mu.
	keys   map[string]struct{}
	closed bool
}

// NewClient creates a client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		id:     clientIDCounter.Add(1),
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan Frame, 256),
		keys:   make(map[string]struct{}),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 { return c.id }

// UserID returns the authenticated user behind the connection.
func (c *Client) UserID() uint { return c.userID }

// Start registers the client with the hub and begins its pumps.
func (c *Client) Start() {
	c.hub.Register <- c
	go c.writePump()
	go c.readPump()

	select {
	case c.send <- Frame{Type: FrameWelcome}:
	default:
	}
}

// readPump pumps subscription commands from the websocket to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			break
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd Command) {
	switch cmd.Command {
	case CommandSubscribe:
		key, err := cmd.Identifier.RouteKey(c.userID)
		if err != nil {
			logging.Warn().Err(err).Uint("user_id", c.userID).Msg("subscription rejected")
			c.reply(Frame{Type: FrameRejectSubscription, Identifier: &cmd.Identifier})
			return
		}
		c.hub.Subscribe(c, key)
		c.reply(Frame{Type: FrameConfirmSubscription, Identifier: &cmd.Identifier})

	case CommandUnsubscribe:
		key, err := cmd.Identifier.RouteKey(c.userID)
		if err != nil {
			return
		}
		c.hub.Unsubscribe(c, key)

	case CommandPing:
		c.reply(Frame{Type: FramePong})
	}
}

func (c *Client) reply(frame Frame) {
	select {
	case c.send <- frame:
	default:
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				logging.Error().Err(err).Msg("failed to write websocket frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
