package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/compsherpa/compsherpa/internal/db"
	"github.com/compsherpa/compsherpa/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	var (
		port    int
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Start an HTTP server that generates reports and captures profiles and sign-ups.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			if pg, ok := store.(*db.DB); ok && migrate {
				if err := pg.Migrate(ctx); err != nil {
					_ = store.Close()
					return err
				}
			}
			if store == nil {
				logger.Warn("running without persistence; save endpoints will return 503")
			}

			cache, err := openCache(cfg.Cache)
			if err != nil {
				return fmt.Errorf("failed to create cache: %w", err)
			}

			client, err := newProviderClient(ctx, cfg.Provider)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()
			if cfg.Provider.APIKey == "" {
				logger.Warn("no provider API key configured; reports will use the fallback estimate")
			}
			logger.Info("report provider configured", zap.String("provider", client.Name()))

			srv, err := server.New(server.Config{
				Port:            cfg.Server.Port,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				SaveTimeout:     cfg.Report.SaveTimeout,
				AllowedOrigin:   cfg.Server.AllowedOrigin,
				Generator:       newGenerator(client, cfg, store, cache, logger),
				Store:           store,
				Cache:           cache,
				RateLimiter:     newRateLimiter(cfg.RateLimit),
				Logger:          logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides config)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the Postgres schema before serving")
	return cmd
}
