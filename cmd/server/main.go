package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joytest-admin/joytest-data-sub000/internal/api"
	"github.com/joytest-admin/joytest-data-sub000/internal/config"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/store/xpgx"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "joytest-stats",
		Short: "Test-result statistics API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the statistics API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err = logger.Init(cfg.LogLevel, cfg.IsDev()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	pool, err := xpgx.Connect(ctx, xpgx.Config{
		URL:        cfg.DatabaseURL,
		MaxConns:   cfg.DBMaxConns,
		MinConns:   cfg.DBMinConns,
		Retries:    cfg.DBConnectRetries,
		LogQueries: cfg.DBLogQueries,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info(ctx, "connected to database")

	svc, err := api.NewAPIService(cfg, store.NewStore(pool), pool)
	if err != nil {
		return fmt.Errorf("create api service: %w", err)
	}

	go svc.Serve(cfg.Addr())
	logger.Infof(ctx, "listening on %s", cfg.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = svc.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info(ctx, "server stopped")
	return nil
}
