package agent

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSyncInterval matches the extension's half-minute alarm.
const DefaultSyncInterval = 30 * time.Second

// PreferenceFetcher pulls preferences from the server.
type PreferenceFetcher interface {
	FetchPreferences(ctx context.Context, syncToken string) (*Snapshot, error)
}

// Syncer periodically replaces local preferences with the server's copy.
type Syncer struct {
	client   PreferenceFetcher
	state    *State
	logger   *slog.Logger
	now      func() time.Time
	interval time.Duration
}

// NewSyncer creates a syncer. A non-positive interval selects DefaultSyncInterval.
func NewSyncer(client PreferenceFetcher, state *State, interval time.Duration, logger *slog.Logger) *Syncer {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		client:   client,
		state:    state,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncOnce pulls and applies one snapshot. Without a sync token it does
// nothing and reports false.
func (s *Syncer) SyncOnce(ctx context.Context) (bool, error) {
	token := s.state.SyncToken()
	if token == "" {
		return false, nil
	}

	snapshot, err := s.client.FetchPreferences(ctx, token)
	if err != nil {
		return false, err
	}

	if err := s.state.ApplySync(ctx, snapshot.FocusPreferences, s.now()); err != nil {
		return false, err
	}
	s.logger.Debug("Preferences synced",
		"focus_mode", snapshot.FocusModeEnabled,
		"whitelist", len(snapshot.Whitelist),
		"blacklist", len(snapshot.Blacklist))
	return true, nil
}

// Run syncs immediately and then on every tick until ctx is cancelled.
// Failures are logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.SyncOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("Sync failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
