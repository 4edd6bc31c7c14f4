// Package client connects to the websocket lobby as a player.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/wire"
)

// Config holds client configuration.
type Config struct {
	URL            string
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for each packet; 0 waits forever.
	ReadTimeout time.Duration
}

// DefaultConfig returns sensible defaults for a local server.
func DefaultConfig() Config {
	return Config{
		URL:            "ws://localhost:8080/snake",
		ConnectTimeout: 10 * time.Second,
	}
}

// Stats counts traffic on one connection.
type Stats struct {
	Frames  int64
	Resets  int64
	Sent    int64
	Skipped int64
}

// Packet is one decoded server packet: a frame, or a reset when the session
// ended.
type Packet struct {
	Reset bool
	Cells []wire.Cell
}

// ErrClosed is returned by Next once the server closed the connection
// normally.
var ErrClosed = errors.New("client: connection closed")

type Client struct {
	cfg  Config
	conn *websocket.Conn
	wmu  sync.Mutex

	frames, resets, sent, skipped atomic.Int64
}

// Dial joins the lobby at cfg.URL.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: cfg.ConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &Client{cfg: cfg, conn: conn}, nil
}

// Steer sends a direction packet. ok=false asks the server to forget the
// requested direction.
func (c *Client) Steer(d game.Direction, ok bool) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteMessage(websocket.BinaryMessage, wire.EncodeDirection(d, ok)); err != nil {
		return fmt.Errorf("send direction: %w", err)
	}
	c.sent.Add(1)
	return nil
}

// Next blocks for the next frame or reset. Packets it cannot decode are
// skipped. Next must not be called concurrently with itself.
func (c *Client) Next() (Packet, error) {
	for {
		if c.cfg.ReadTimeout > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		}
		mt, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return Packet{}, ErrClosed
			}
			return Packet{}, fmt.Errorf("read error: %w", err)
		}
		if mt != websocket.BinaryMessage {
			c.skipped.Add(1)
			continue
		}

		id, err := wire.PacketID(msg)
		if err != nil {
			c.skipped.Add(1)
			continue
		}
		switch id {
		case wire.ResetPacket:
			c.resets.Add(1)
			return Packet{Reset: true}, nil
		case wire.FramePacket:
			cells, err := wire.DecodeFrame(msg)
			if err != nil {
				c.skipped.Add(1)
				continue
			}
			c.frames.Add(1)
			return Packet{Cells: cells}, nil
		default:
			c.skipped.Add(1)
		}
	}
}

func (c *Client) Stats() Stats {
	return Stats{
		Frames:  c.frames.Load(),
		Resets:  c.resets.Load(),
		Sent:    c.sent.Load(),
		Skipped: c.skipped.Load(),
	}
}

// Close leaves the lobby.
func (c *Client) Close() error {
	c.wmu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.wmu.Unlock()
	return c.conn.Close()
}

// Bounds infers the world size from a frame's border cells.
func Bounds(cells []wire.Cell) (width, height int) {
	for _, c := range cells {
		if c.Kind != wire.KindBorder {
			continue
		}
		width = max(width, int(c.X)+1)
		height = max(height, int(c.Y)+1)
	}
	return width, height
}
