package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/lockin/internal/analytics"
	"github.com/Veraticus/lockin/internal/auth"
	"github.com/Veraticus/lockin/internal/config"
	"github.com/Veraticus/lockin/internal/server"
	"github.com/Veraticus/lockin/internal/storage"
)

const cachePurgeInterval = time.Hour

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the LockIn HTTP API",
		Long: `Serve the API used by the dashboard and the agent: preference sync,
content classification, analytics and account endpoints.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :3000)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	cfg, err := config.LoadServerConfig(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:         cfg.Addr,
		CookieName:   cfg.CookieName,
		CookieSecure: cfg.CookieSecure,
	}, server.Dependencies{
		Preferences: store,
		Classifier:  newOrchestrator(store, logger),
		Analytics:   analytics.NewService(store, logger),
		Accounts:    auth.NewAccounts(store, tokens, logger),
		Tokens:      tokens,
		Logger:      logger,
	})

	go purgeExpired(ctx, store, logger)

	return srv.Run(ctx)
}

// purgeExpired drops stale cache rows at startup and then hourly.
func purgeExpired(ctx context.Context, store *storage.SQLiteStorage, logger *slog.Logger) {
	ticker := time.NewTicker(cachePurgeInterval)
	defer ticker.Stop()

	for {
		if n, err := store.PurgeExpiredClassifications(ctx); err != nil {
			if ctx.Err() == nil {
				logger.Warn("Failed to purge expired classifications", "error", err)
			}
		} else if n > 0 {
			logger.Info("Purged expired classifications", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
