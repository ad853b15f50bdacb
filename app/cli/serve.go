package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/storefront/inventory-api/app/categories"
	"github.com/storefront/inventory-api/app/database"
	"github.com/storefront/inventory-api/app/inventory"
	"github.com/storefront/inventory-api/app/observability"
	"github.com/storefront/inventory-api/app/products"
	"github.com/storefront/inventory-api/app/server"
	"github.com/storefront/inventory-api/config"
	"github.com/storefront/inventory-api/models"
)

func serveCmd(envFile *string) *cobra.Command {
	var migrate bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger, migrate)
		},
	}

	c.Flags().BoolVar(&migrate, "migrate", false, "run migrations before serving (postgres only)")
	return c
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) error {
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Tracing shutdown failed", zap.Error(err))
		}
	}()

	store, closer, err := openStorage(ctx, cfg, logger, migrate)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := inventory.NewService(store, logger)
	handler := server.NewRouter(
		categories.NewCategoryHandler(svc, logger),
		products.NewProductHandler(svc, logger),
		logger,
	)

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStorage picks the repository backend named by STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (inventory.Storage, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; data is lost on exit")
		return models.NewMemoryStore(), nopCloser{}, nil
	case config.StorageDriverPostgres:
		db, sqlDB, err := database.Open(ctx, cfg.Postgres, cfg.Logger.LogSQL, logger)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := models.Migrate(db); err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		logger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
		return models.NewStore(db), sqlDB, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
