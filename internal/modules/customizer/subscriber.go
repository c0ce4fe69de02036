package customizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katariyakhushi/umbrella-customiser/internal/pubsub"
	"github.com/katariyakhushi/umbrella-customiser/internal/rendering"
	"github.com/katariyakhushi/umbrella-customiser/internal/view"
	"github.com/katariyakhushi/umbrella-customiser/internal/views"
)

// Sender delivers a payload to every connection of a view.
type Sender interface {
	SendDirect(viewID string, payload []byte)
}

// Subscriber listens for view updates on the bus, renders the customizer
// fragment and pushes it to the view's websocket connections.
type Subscriber struct {
	subscriber pubsub.Subscriber
	views      *views.Registry
	renderer   rendering.Renderer
	sender     Sender
}

// NewSubscriber creates a new subscriber service for the customizer module.
func NewSubscriber(sub pubsub.Subscriber, registry *views.Registry, renderer rendering.Renderer, sender Sender) *Subscriber {
	return &Subscriber{
		subscriber: sub,
		views:      registry,
		renderer:   renderer,
		sender:     sender,
	}
}

// Start subscribes to view updates. Delivery stops when ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	slog.Info("Starting customizer subscriber")
	return pubsub.Subscribe(ctx, s.subscriber, ViewUpdated, s.handleViewUpdated)
}

func (s *Subscriber) handleViewUpdated(ctx context.Context, payload ViewUpdatedPayload) error {
	v, ok := s.views.Lookup(payload.ViewID)
	if !ok {
		slog.Debug("Dropping update for evicted view", "viewID", payload.ViewID)
		return nil
	}

	// The current state is at least as new as the one announced.
	state := v.Customizer.State()
	html, err := s.renderer.RenderComponent(ctx, view.Fragment(v.ID, state, v.Theme()))
	if err != nil {
		return fmt.Errorf("render customizer fragment: %w", err)
	}

	s.sender.SendDirect(v.ID, html)
	return nil
}
