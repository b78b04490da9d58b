package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/stationcms/import-service/internal/config"
	"github.com/stationcms/import-service/internal/core"
	_ "github.com/stationcms/import-service/internal/core/kinds" // Register all record kinds
	"github.com/stationcms/import-service/internal/logging"
	"github.com/stationcms/import-service/internal/store"
	"github.com/stationcms/import-service/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_driver", cfg.Store.Driver,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"auth_required", cfg.Security.RequireAPIKey,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.ConnectTimeout)
	st, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("failed to open document store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer st.Close(context.Background())

	slog.Info("connected to document store", "driver", cfg.Store.Driver)

	service := core.NewService(st)

	slog.Info("record kinds registered", "count", core.KindCount())

	server := web.NewServer(service, st, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// openStore builds the configured document store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(cfg.Store.URL)
		if err != nil {
			return nil, err
		}
		poolConfig.MaxConns = int32(cfg.Store.MaxConns)
		poolConfig.MinConns = int32(cfg.Store.MinConns)

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store.NewPostgres(ctx, pool)

	default:
		return store.NewMongo(ctx, cfg.Store.URL, cfg.Store.Database)
	}
}
