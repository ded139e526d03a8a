package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/lockin/internal/classify"
	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/config"
	"github.com/Veraticus/lockin/internal/llm"
	"github.com/Veraticus/lockin/internal/storage"
)

// initStorage opens the configured database and migrates it.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// newOrchestrator builds the classification chain: the remote model when a
// key is configured, then the keyword rules.
func newOrchestrator(store *storage.SQLiteStorage, logger *slog.Logger) *classify.Orchestrator {
	v := viper.GetViper()
	cache := classify.NewCache(store, v.GetDuration("classify.cache_ttl"))

	var strategies []classify.Strategy
	if remote := newRemoteClassifier(config.LoadLLMConfig(v), logger); remote != nil {
		strategies = append(strategies, remote)
	}
	return classify.NewOrchestrator(cache, store, logger, strategies...)
}

func newRemoteClassifier(cfg config.LLMConfig, logger *slog.Logger) *llm.Classifier {
	remote, err := llm.NewClassifier(llm.Config{
		Provider:    cfg.Provider,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		RateLimit:   cfg.RateLimit,
		Temperature: cfg.Temperature,
	}, logger)
	switch {
	case errors.Is(err, common.ErrMissingConfig):
		logger.Info("No LLM API key configured, using rule-based classification only")
		return nil
	case err != nil:
		logger.Warn("LLM classifier unavailable, using rule-based classification only", "error", err)
		return nil
	}
	logger.Info("LLM classification enabled", "provider", cfg.Provider)
	return remote
}
