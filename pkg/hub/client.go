package hub

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the largest frame a subscriber may send
	maxMessageSize = 64 * 1024
)

// Client represents a single websocket connection
type Client struct {
	ID     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	topics map[string]bool
}

// NewClient creates a new client and registers it with the hub.
// When topics is non-empty only messages with one of those topics
// (or no topic) are delivered.
func NewClient(hub *Hub, conn *websocket.Conn, topics ...string) *Client {
	client := &Client{
		ID:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan Message, 256),
	}
	if len(topics) > 0 {
		client.topics = make(map[string]bool, len(topics))
		for _, t := range topics {
			client.topics[t] = true
		}
	}
	select {
	case hub.register <- client:
	case <-hub.done:
		close(client.send)
	}
	return client
}

func (c *Client) wants(topic string) bool {
	return topic == "" || c.topics == nil || c.topics[topic]
}

// Run starts the client's read and write pumps.
// This should be called in the websocket handler
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// Close unregisters the client and closes its connection.
func (c *Client) Close() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
	c.conn.Close()
}

// readPump keeps the connection alive and detects disconnection.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump is the only goroutine that writes to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message.Data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
