package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrewsinnovations/apialize-sub000/internal/catalog"
	"github.com/andrewsinnovations/apialize-sub000/internal/config"
	"github.com/andrewsinnovations/apialize-sub000/internal/handlers"
	"github.com/andrewsinnovations/apialize-sub000/internal/server"
	"github.com/andrewsinnovations/apialize-sub000/internal/services"
	"github.com/andrewsinnovations/apialize-sub000/internal/store"
)

// NewRunCommand creates the run command with all flags bound directly
// into cfg, so parsing mutates the configuration in place.
func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the listing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfg)
		},
	}

	cmd.Flags().IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "Port for the HTTP server")
	cmd.Flags().StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode (dev or prod)")
	cmd.Flags().StringVar(&cfg.Database.Path, "db-path", cfg.Database.Path, "Path of the DuckDB database file (\":memory:\" for in-memory)")
	cmd.Flags().IntVar(&cfg.Listing.DefaultPageSize, "listing-default-page-size", cfg.Listing.DefaultPageSize, "Page size used when a request does not ask for one")
	cmd.Flags().IntVar(&cfg.Listing.MaxPageSize, "listing-max-page-size", cfg.Listing.MaxPageSize, "Upper bound on the requested page size")

	return cmd
}

func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port: %d", cfg.Server.HTTPPort)
	}

	if cfg.Server.ServerMode != server.DevServer && cfg.Server.ServerMode != server.ProductionServer {
		return fmt.Errorf("invalid server mode: %s", cfg.Server.ServerMode)
	}

	if cfg.Database.Path == "" {
		return fmt.Errorf("db-path cannot be empty")
	}

	if cfg.Listing.DefaultPageSize < 1 {
		return fmt.Errorf("invalid listing-default-page-size: %d", cfg.Listing.DefaultPageSize)
	}

	if cfg.Listing.MaxPageSize < cfg.Listing.DefaultPageSize {
		return fmt.Errorf("listing-max-page-size must be >= listing-default-page-size")
	}

	return cfg.Validate()
}

func setupLogger(cfg *config.Configuration) error {
	logger, err := zap.NewDevelopment()
	if cfg.Server.ServerMode == server.ProductionServer {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func runServer(cfg *config.Configuration) error {
	if err := validateConfiguration(cfg); err != nil {
		return err
	}

	if err := setupLogger(cfg); err != nil {
		return err
	}
	defer func() { _ = zap.S().Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	st := store.NewStore(db, cat)
	defer st.Close()

	listSrv := services.NewListService(cat, st, cfg.Listing)

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		handlers.New(listSrv).RegisterRoutes(router)
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	color.Cyan("listing API server starting on port %d (%s mode)", cfg.Server.HTTPPort, cfg.Server.ServerMode)
	zap.S().Named("cmd").Infow("starting server",
		"port", cfg.Server.HTTPPort,
		"mode", cfg.Server.ServerMode,
		"db", cfg.Database.Path,
		"entities", cat.Names(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zap.S().Named("cmd").Infow("shutting down", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	srv.Stop(shutdownCtx)

	return nil
}
