// File: /commands/serve.go
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"concesionaria-api/database"
	"concesionaria-api/routes"
	"concesionaria-api/services"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.ClearDBOnStartup {
		a.logger.Warn("CLEAR_DB_ON_STARTUP is set, dropping all tables")
		if err := database.Reset(a.db); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}
	if err := database.Migrate(a.db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := os.MkdirAll(a.cfg.ImagesDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create images directory: %w", err)
	}

	if a.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.NewRouter(a.cfg, routes.Services{
		Cars:   a.carService(),
		Mailer: services.NewEmailService(a.cfg, a.logger),
	}, a.logger)

	server := &http.Server{
		Addr:              a.cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server",
			zap.String("title", a.cfg.Title),
			zap.String("version", a.cfg.Version),
			zap.String("address", server.Addr),
			zap.String("db_driver", a.cfg.DBDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
