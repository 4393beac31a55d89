package collab

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"versecraft/internal/domain/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds a single inbound frame. Edits carry full chapter
	// content so this is generous.
	maxMessageSize = 1 << 20
)

// Client is one websocket connection to the collaboration hub.
type Client struct {
	ID       string
	hub      *Hub
	conn     *websocket.Conn
	identity models.Identity
	send     chan []byte
	done     chan struct{}
	closed   int32
	logger   *slog.Logger
}

// NewClient wraps an upgraded connection. ServeClient must be called to start
// the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, identity models.Identity, logger *slog.Logger) *Client {
	return &Client{
		ID:       uuid.NewString(),
		hub:      hub,
		conn:     conn,
		identity: identity,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Serve runs the write pump in a goroutine and the read pump on the calling
// goroutine; it returns when the connection is gone and the client has been
// swept from every room.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

// enqueue offers a message to the client's outbound queue. It reports false
// when the client is closed or its queue is full.
func (c *Client) enqueue(message []byte) bool {
	if atomic.LoadInt32(&c.closed) == 1 {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// close marks the client dead so no further messages are queued. The send
// channel is never closed: hub broadcasts on other goroutines may still be
// offering messages, and a send on a closed channel panics. The done channel
// carries the shutdown signal to the write pump instead.
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		close(c.done)
	}
}

func (c *Client) readPump() {
	defer c.hub.Disconnect(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "conn_id", c.ID, "error", err)
			}
			return
		}
		env, err := DecodeEnvelope(data)
		if err != nil {
			c.logger.Warn("ignoring malformed event", "conn_id", c.ID, "error", err)
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env *Envelope) {
	if env.ChapterID == "" {
		c.logger.Warn("ignoring event without chapter", "conn_id", c.ID, "type", env.Type)
		return
	}
	switch env.Type {
	case EventJoin:
		// The roster trusts a client-supplied display name over the token
		// identity, matching the original socket contract.
		user := User{Username: c.identity.Name, ProfileImage: c.identity.AvatarURL}
		if env.User != nil && env.User.Username != "" {
			user = *env.User
		}
		c.hub.Join(c, env.ChapterID, user)
	case EventLeave:
		username := env.Username
		if username == "" {
			username = c.identity.Name
		}
		c.hub.Leave(c, env.ChapterID, username)
	case EventEdit:
		c.hub.Edit(c, env.ChapterID, env.Content)
	default:
		c.logger.Warn("ignoring unknown event", "conn_id", c.ID, "type", env.Type)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
