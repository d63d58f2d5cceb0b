// Package replay streams recorded perception sessions into a running engine
// over its perception websocket.
package replay

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-behavior/pkg/protocol"
)

// ErrClosed is returned when the connection drops mid-replay.
var ErrClosed = errors.New("replay: connection closed")

// Stats summarizes one replay run.
type Stats struct {
	Session  string        `json:"session"`
	Sent     int           `json:"sent"`
	Skipped  int           `json:"skipped"`
	Rejected int           `json:"rejected"`
	Duration time.Duration `json:"duration"`
}

// Client is a connection to an engine's perception stream.
type Client struct {
	// Speed scales the original pacing taken from message timestamps.
	// Zero sends as fast as possible.
	Speed float64

	session string
	conn    *websocket.Conn
	logger  *slog.Logger
	replies chan *protocol.Message

	writeMu sync.Mutex
	closeMu sync.Once
}

// Dial connects to url, e.g. ws://localhost:8090/ws/perception.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session := uuid.NewString()

	header := http.Header{}
	header.Set("X-Session-ID", session)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("replay: dial %s: %w", url, err)
	}

	c := &Client{
		session: session,
		conn:    conn,
		logger:  logger.With("component", "replay", "session", session),
		replies: make(chan *protocol.Message, 64),
	}
	go c.readLoop()
	c.logger.Info("connected", "url", url)
	return c, nil
}

// Session returns the ID tagged on this connection.
func (c *Client) Session() string { return c.session }

// Close closes the connection.
func (c *Client) Close() error {
	var err error
	c.closeMu.Do(func() {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.replies)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}
		c.replies <- msg
	}
}

func (c *Client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Replay sends every inbound message in r, one JSON object per line. Blank
// lines and lines starting with '#' are skipped, as are lines that do not
// parse or carry an outbound type. Replay returns once the server has
// acknowledged everything sent.
func (c *Client) Replay(ctx context.Context, r io.Reader) (Stats, error) {
	stats := Stats{Session: c.session}
	start := time.Now()
	defer func() { stats.Duration = time.Since(start) }()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lastTS int64
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		msg, err := protocol.ParseMessage(raw)
		if err != nil || !protocol.IsInbound(msg.Type) {
			stats.Skipped++
			c.logger.Warn("skipping line", "line", line, "error", err)
			continue
		}

		if err := c.pace(ctx, &lastTS, msg.Timestamp); err != nil {
			return stats, err
		}
		if err := c.write(raw); err != nil {
			return stats, fmt.Errorf("%w: %v", ErrClosed, err)
		}
		stats.Sent++
		stats.Rejected += c.countRejects()
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("replay: read line %d: %w", line+1, err)
	}

	rejected, err := c.flush(ctx)
	stats.Rejected += rejected
	c.logger.Info("replay finished", "sent", stats.Sent, "skipped", stats.Skipped, "rejected", stats.Rejected)
	return stats, err
}

// pace sleeps for the recorded gap between consecutive timestamps.
func (c *Client) pace(ctx context.Context, last *int64, ts int64) error {
	if ts == 0 {
		return ctx.Err()
	}
	prev := *last
	*last = ts
	if c.Speed <= 0 || prev == 0 || ts <= prev {
		return ctx.Err()
	}

	wait := time.Duration(float64(time.Duration(ts-prev)*time.Millisecond) / c.Speed)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) countRejects() int {
	n := 0
	for {
		select {
		case msg, ok := <-c.replies:
			if !ok {
				return n
			}
			if msg.Type == protocol.TypeError {
				n++
			}
		default:
			return n
		}
	}
}

// flush pings the server and waits for the pong. The server answers frames in
// order, so every earlier reply has arrived by then.
func (c *Client) flush(ctx context.Context) (int, error) {
	ping, err := protocol.NewPingMessage(c.session)
	if err != nil {
		return 0, err
	}
	data, err := ping.Bytes()
	if err != nil {
		return 0, err
	}
	if err := c.write(data); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrClosed, err)
	}

	rejected := 0
	for {
		select {
		case <-ctx.Done():
			return rejected, ctx.Err()
		case msg, ok := <-c.replies:
			if !ok {
				return rejected, ErrClosed
			}
			switch msg.Type {
			case protocol.TypeError:
				rejected++
			case protocol.TypePong:
				if pong, err := msg.GetPongData(); err == nil && pong.ID == c.session {
					return rejected, nil
				}
			}
		}
	}
}
