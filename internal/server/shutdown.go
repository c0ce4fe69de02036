package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start boots the server and serves on the configured address until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Boot(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.Cfg.GetServerAddr())
		if err := s.E.Start(s.Cfg.GetServerAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, disconnects websockets, closes every
// view and stops the bus.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server...")
	err := s.E.Shutdown(ctx)

	if s.cancel != nil {
		s.cancel()
	}
	for _, m := range s.modules {
		if merr := m.Shutdown(ctx); merr != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", merr)
		}
	}
	if berr := s.bus.Close(); berr != nil {
		slog.Error("Failed to close message bus", "error", berr)
	}
	if terr := s.shutdownTracing(ctx); terr != nil {
		slog.Error("Failed to flush traces", "error", terr)
	}
	return err
}
