package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sunbun/assistant/internal/httpapi"
)

// RunServe starts the HTTP API and blocks until the context is cancelled or
// the listener fails.
func RunServe(ctx context.Context, app *App) error {
	server := httpapi.NewServer(app.Runner, app.Engine,
		httpapi.WithLogger(app.Logger),
		httpapi.WithMetrics(app.Metrics),
	)

	srv := &http.Server{
		Addr:    app.Config.Server.Addr,
		Handler: server.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.Logger.Info("Shutdown signal received, draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete, closing", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		app.Logger.Info("HTTP server stopped gracefully")
		return nil
	}
}
