package customizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/katariyakhushi/umbrella-customiser/internal/config"
	core "github.com/katariyakhushi/umbrella-customiser/internal/customizer"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
	"github.com/katariyakhushi/umbrella-customiser/internal/middleware"
	"github.com/katariyakhushi/umbrella-customiser/internal/module"
	"github.com/katariyakhushi/umbrella-customiser/internal/pubsub"
	"github.com/katariyakhushi/umbrella-customiser/internal/rendering"
	"github.com/katariyakhushi/umbrella-customiser/internal/storage"
	"github.com/katariyakhushi/umbrella-customiser/internal/views"
	"github.com/katariyakhushi/umbrella-customiser/internal/websocket"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"
)

// maxUploadBody keeps multipart uploads within the memory the form parser
// buffers, so no upload is spilled to a temp file.
const maxUploadBody = "32M"

// Module implements the module.Module interface for the umbrella customizer.
type Module struct {
	module.BaseModule

	cfg        config.Provider
	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber
	renderer   rendering.Renderer
	bridge     *websocket.Bridge
	spool      *storage.Spool
	decoder    domain.LogoDecoder

	views *views.Registry
}

// New creates the customizer module. Its services are resolved in Register.
func New() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "customizer"
}

// Register resolves the core services and provides the view registry.
func (m *Module) Register(i do.Injector) error {
	var err error
	if m.cfg, err = do.Invoke[config.Provider](i); err != nil {
		return fmt.Errorf("customizer: %w", err)
	}
	if m.publisher, err = do.Invoke[pubsub.Publisher](i); err != nil {
		return fmt.Errorf("customizer: %w", err)
	}
	if m.subscriber, err = do.Invoke[pubsub.Subscriber](i); err != nil {
		return fmt.Errorf("customizer: %w", err)
	}
	if m.renderer, err = do.Invoke[rendering.Renderer](i); err != nil {
		return fmt.Errorf("customizer: %w", err)
	}
	if m.bridge, err = do.Invoke[*websocket.Bridge](i); err != nil {
		return fmt.Errorf("customizer: %w", err)
	}
	if m.spool, err = do.Invoke[*storage.Spool](i); err != nil {
		return fmt.Errorf("customizer: %w", err)
	}
	if m.decoder, err = do.Invoke[domain.LogoDecoder](i); err != nil {
		return fmt.Errorf("customizer: %w", err)
	}

	m.views = views.NewRegistry(m.cfg.GetViewIdleTTL(), m.customizerOptions)
	do.ProvideValue(i, m.views)
	return nil
}

// customizerOptions wires a new view's customizer to the bus.
func (m *Module) customizerOptions(viewID string) core.Options {
	logger := slog.Default().With("viewID", viewID)
	return core.Options{
		Decoder: m.decoder,
		Logger:  logger,
		Listener: func(s core.State) {
			payload := ViewUpdatedPayload{ViewID: viewID, Version: s.Version}
			if err := pubsub.Publish(context.Background(), m.publisher, ViewUpdated, payload); err != nil {
				logger.Error("Failed to publish view update", "error", err)
			}
		},
	}
}

// Boot starts the subscriber and the idle-view janitor and sets up routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	subscriber := NewSubscriber(m.subscriber, m.views, m.renderer, m.bridge)
	if err := subscriber.Start(ctx); err != nil {
		return fmt.Errorf("start customizer subscriber: %w", err)
	}
	go m.views.Run(ctx, sweepInterval(m.cfg.GetViewIdleTTL()))

	slog.Info("Booting customizer module: Setting up routes...")
	handler := NewHandler(m.views, m.spool, m.renderer, m.bridge)
	uploadLimiter := middleware.RateLimiter(m.cfg.GetUploadRateLimit())

	g.GET("/", handler.PageGet)
	g.POST("/views/:id/color", handler.ColorPost)
	g.POST("/views/:id/logo", handler.LogoPost, uploadLimiter, echomw.BodyLimit(maxUploadBody))
	g.DELETE("/views/:id/logo", handler.LogoDelete)
	g.POST("/views/:id/picker", handler.PickerPost)
	g.GET("/views/:id/ws", handler.WebSocket)
	return nil
}

// Shutdown closes every live view.
func (m *Module) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down customizer module...")
	if m.views != nil {
		m.views.Close()
	}
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, time.Second), time.Minute)
}
