package utils

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ShutdownTimeout bounds how long in-flight requests may take to drain.
const ShutdownTimeout = 10 * time.Second

// Serve listens on addr until the listener fails or the process receives
// SIGINT or SIGTERM, after which in-flight requests are drained.
func Serve(app *fiber.App, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Failed to start server", "error", err)
		}
		return err
	case sig := <-quit:
		slog.Info("Shutting down server", "signal", sig.String())
	}

	if err := app.ShutdownWithTimeout(ShutdownTimeout); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		return err
	}
	slog.Info("Server stopped")
	return nil
}
