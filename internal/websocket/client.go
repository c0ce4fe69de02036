package websocket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 10 * time.Second

// Client is one websocket connection attached to a page view.
type Client struct {
	// ViewID is the page view the connection belongs to.
	ViewID string

	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	bridge *Bridge
	once   sync.Once
}

// Send queues a message for the client, dropping it if the buffer is full.
func (c *Client) Send(payload []byte) {
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		slog.Warn("Client send channel full, dropping message", "viewID", c.ViewID)
	}
}

// Done is closed once the client has disconnected.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) markDone() {
	c.once.Do(func() { close(c.done) })
}

// readPump watches the connection for close. The page never sends anything
// the server acts on, so inbound messages are discarded.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.bridge.unregister <- c:
		case <-c.bridge.ctx.Done():
		}
		c.conn.Close(websocket.StatusNormalClosure, "client disconnected")
	}()

	for {
		_, _, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			switch {
			case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
				slog.Debug("WebSocket closed by client", "viewID", c.ViewID)
			case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			default:
				slog.Warn("WebSocket read error", "viewID", c.ViewID, "error", err)
			}
			return
		}
	}
}

// writePump pumps queued messages to the connection.
func (c *Client) writePump(ctx context.Context) {
	defer c.conn.Close(websocket.StatusNormalClosure, "server-side cleanup")

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Warn("WebSocket write error", "viewID", c.ViewID, "error", err)
				return
			}
		}
	}
}
