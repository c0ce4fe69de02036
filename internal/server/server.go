package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/katariyakhushi/umbrella-customiser/internal/assets"
	"github.com/katariyakhushi/umbrella-customiser/internal/config"
	"github.com/katariyakhushi/umbrella-customiser/internal/decode"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
	"github.com/katariyakhushi/umbrella-customiser/internal/handlers"
	appmiddleware "github.com/katariyakhushi/umbrella-customiser/internal/middleware"
	"github.com/katariyakhushi/umbrella-customiser/internal/module"
	"github.com/katariyakhushi/umbrella-customiser/internal/pubsub"
	"github.com/katariyakhushi/umbrella-customiser/internal/rendering"
	"github.com/katariyakhushi/umbrella-customiser/internal/storage"
	"github.com/katariyakhushi/umbrella-customiser/internal/websocket"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
)

const serviceName = "umbrella-customiser"

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	Cfg config.Provider

	injector *do.RootScope
	bus      *pubsub.WatermillBridge
	bridge   *websocket.Bridge
	modules  []module.Module

	shutdownTracing func(context.Context) error

	cancel context.CancelFunc
}

// New assembles the core services, registers them with the injector and lets
// every module register its own.
func New(cfg config.Provider, modules []module.Module) (*Server, error) {
	tracer, shutdownTracing, err := pubsub.SetupTracing(context.Background(), pubsub.TracingConfig{
		Enabled:     cfg.GetTracingEnabled(),
		ServiceName: serviceName,
		ZipkinURL:   cfg.GetZipkinURL(),
	})
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	bus := pubsub.NewWatermillBridgeWithTracer(false, tracer)
	bridge := websocket.NewBridge()
	renderer := rendering.NewUniversalRenderer()
	// Uploads only live in memory while their read is running.
	spool := storage.NewSpool(storage.NewAferoStore(afero.NewMemMapFs()))

	injector := do.New()
	do.ProvideValue[config.Provider](injector, cfg)
	do.ProvideValue[pubsub.Publisher](injector, bus)
	do.ProvideValue[pubsub.Subscriber](injector, bus)
	do.ProvideValue[rendering.Renderer](injector, renderer)
	do.ProvideValue(injector, bridge)
	do.ProvideValue(injector, spool)
	do.ProvideValue[domain.LogoDecoder](injector, decode.NewDataURIDecoder(cfg.GetVerifyImages()))

	validator, err := handlers.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = validator
	setupErrorHandling(e)

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Logger)
	e.Use(middleware.Recover())

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	static, err := assets.FS(cfg.GetAssetsDir())
	if err != nil {
		return nil, err
	}
	e.StaticFS("/static", static)

	s := &Server{
		E:        e,
		Cfg:      cfg,
		injector: injector,
		bus:      bus,
		bridge:   bridge,
		modules:  modules,

		shutdownTracing: shutdownTracing,
	}
	s.RegisterRoutes()

	for _, m := range modules {
		if err := m.Register(injector); err != nil {
			return nil, fmt.Errorf("register module %s: %w", m.Name(), err)
		}
		slog.Debug("Module registered", "module", m.Name())
	}
	return s, nil
}

// Boot starts background services and boots every module. Everything it
// starts stops when ctx is cancelled or Shutdown is called.
func (s *Server) Boot(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	go s.bridge.Run(ctx)

	if dir := s.Cfg.GetAssetsDir(); dir != "" {
		watcher := assets.NewWatcher(dir, func() {
			slog.Info("Static assets changed, reloading pages")
			s.bridge.Broadcast(websocket.NewCommand(websocket.CmdReload))
		})
		if err := watcher.Start(ctx); err != nil {
			slog.Warn("Live reload disabled", "error", err)
		}
	}

	// Every page view is bound to the browser that opened it.
	group := s.E.Group("", appmiddleware.ClientID)
	for _, m := range s.modules {
		if err := m.Boot(ctx, group, s.injector); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
	}
	return nil
}
