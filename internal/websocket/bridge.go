package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
)

const sendBuffer = 16

// DirectMessage is a message for every connection of a single view.
type DirectMessage struct {
	ViewID  string
	Payload []byte
}

// Bridge manages the websocket connections of all page views and routes
// outbound fragments and commands to them.
type Bridge struct {
	// clients maps view ids to their live connections. A view normally has
	// one, briefly two while the page reconnects.
	clients map[string][]*Client
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	direct     chan *DirectMessage
	broadcast  chan []byte

	acceptOptions *websocket.AcceptOptions

	ctx    context.Context
	cancel context.CancelFunc
}

// NewBridge initializes a Bridge. originPatterns restricts cross-origin
// upgrades; an empty list only allows same-origin pages.
func NewBridge(originPatterns ...string) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		clients:       make(map[string][]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		direct:        make(chan *DirectMessage, 64),
		broadcast:     make(chan []byte, 8),
		acceptOptions: &websocket.AcceptOptions{OriginPatterns: originPatterns},
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Run routes messages until ctx is cancelled, then disconnects every client.
func (b *Bridge) Run(ctx context.Context) {
	slog.Info("WebSocket bridge started")
	defer b.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client.ViewID] = append(b.clients[client.ViewID], client)
			b.mu.Unlock()
			slog.Debug("WebSocket client registered", "viewID", client.ViewID)

		case client := <-b.unregister:
			b.remove(client)

		case msg := <-b.direct:
			b.mu.RLock()
			for _, client := range b.clients[msg.ViewID] {
				client.Send(msg.Payload)
			}
			b.mu.RUnlock()

		case payload := <-b.broadcast:
			b.mu.RLock()
			for _, clients := range b.clients {
				for _, client := range clients {
					client.Send(payload)
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *Bridge) remove(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	clients := b.clients[client.ViewID]
	for i, c := range clients {
		if c == client {
			b.clients[client.ViewID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(b.clients[client.ViewID]) == 0 {
		delete(b.clients, client.ViewID)
	}
	client.markDone()
	slog.Debug("WebSocket client unregistered", "viewID", client.ViewID)
}

func (b *Bridge) shutdown() {
	b.cancel()
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, clients := range b.clients {
		for _, c := range clients {
			c.markDone()
		}
		delete(b.clients, id)
	}
	slog.Info("WebSocket bridge stopped")
}

// Accept upgrades the request and attaches the connection to viewID. The
// returned client's Done channel closes when the connection goes away.
func (b *Bridge) Accept(c echo.Context, viewID string) (*Client, error) {
	conn, err := websocket.Accept(c.Response(), c.Request(), b.acceptOptions)
	if err != nil {
		return nil, fmt.Errorf("upgrade websocket: %w", err)
	}

	client := &Client{
		ViewID: viewID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		bridge: b,
	}

	select {
	case b.register <- client:
	case <-b.ctx.Done():
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return nil, b.ctx.Err()
	}

	go client.writePump(b.ctx)
	go client.readPump(b.ctx)
	return client, nil
}

// SendDirect sends a payload to every connection of a view.
func (b *Bridge) SendDirect(viewID string, payload []byte) {
	select {
	case b.direct <- &DirectMessage{ViewID: viewID, Payload: payload}:
	case <-b.ctx.Done():
	}
}

// Broadcast sends a payload to every connection.
func (b *Bridge) Broadcast(payload []byte) {
	select {
	case b.broadcast <- payload:
	case <-b.ctx.Done():
	}
}

// ClientCount returns the number of live connections of a view.
func (b *Bridge) ClientCount(viewID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[viewID])
}
