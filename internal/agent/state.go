// Package agent is the local LockIn daemon: it owns the synced preference
// state, answers typed messages from page scripts, blocks navigation and
// watches video playback.
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/lockin/internal/model"
)

// Storage keys.
const (
	keyPreferences  = "preferences"
	keyBlockedToday = "blockedToday"
	keySyncToken    = "syncToken"
	keySessionToken = "sessionToken"
	keyLastSyncAt   = "lastSyncAt"
)

// InstallPreferences are the preferences seeded on first run.
func InstallPreferences() model.FocusPreferences {
	return model.FocusPreferences{
		FocusModeEnabled:         true,
		Whitelist:                model.DomainList{"stackoverflow.com", "github.com", "coursera.org"},
		Blacklist:                model.DomainList{"instagram.com", "tiktok.com", "reddit.com", "netflix.com"},
		YouTubeBlockedCategories: []model.Category{},
	}
}

// State is the single owner of the agent's mutable data. Every mutation is
// written through to the KeyValue store before the in-memory copy changes,
// so readers never observe a value that was not persisted.
type State struct {
	kv           KeyValue
	lastSyncAt   time.Time
	syncToken    string
	sessionToken string
	prefs        model.FocusPreferences
	blockedToday int
	mu           sync.RWMutex
}

// NewState loads state from kv.
func NewState(ctx context.Context, kv KeyValue) (*State, error) {
	s := &State{kv: kv}

	loaders := []struct {
		dst any
		key string
	}{
		{key: keyPreferences, dst: &s.prefs},
		{key: keyBlockedToday, dst: &s.blockedToday},
		{key: keySyncToken, dst: &s.syncToken},
		{key: keySessionToken, dst: &s.sessionToken},
		{key: keyLastSyncAt, dst: &s.lastSyncAt},
	}
	for _, l := range loaders {
		if _, err := kv.Get(ctx, l.key, l.dst); err != nil {
			return nil, fmt.Errorf("failed to load agent state: %w", err)
		}
	}
	s.prefs.Normalize()
	return s, nil
}

// Install seeds default preferences and a zero blocked counter when no
// preferences have been stored yet. It reports whether anything was written.
func (s *State) Install(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing model.FocusPreferences
	found, err := s.kv.Get(ctx, keyPreferences, &existing)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	defaults := InstallPreferences()
	if err := s.kv.Set(ctx, keyPreferences, defaults); err != nil {
		return false, err
	}
	if err := s.kv.Set(ctx, keyBlockedToday, 0); err != nil {
		return false, err
	}
	s.prefs = defaults
	s.blockedToday = 0
	return true, nil
}

// Preferences returns a copy of the current preferences.
func (s *State) Preferences(_ context.Context) (model.FocusPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Clone(), nil
}

// ReplacePreferences overwrites the preferences wholesale.
func (s *State) ReplacePreferences(ctx context.Context, prefs model.FocusPreferences) error {
	prefs.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, keyPreferences, prefs); err != nil {
		return err
	}
	s.prefs = prefs.Clone()
	return nil
}

// UpdatePreferences applies fn to a copy of the preferences and stores the result.
func (s *State) UpdatePreferences(ctx context.Context, fn func(*model.FocusPreferences)) (model.FocusPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs.Clone()
	fn(&next)
	next.Normalize()

	if err := s.kv.Set(ctx, keyPreferences, next); err != nil {
		return s.prefs.Clone(), err
	}
	s.prefs = next
	return next.Clone(), nil
}

// IncrementBlocked bumps the blocked-today counter.
func (s *State) IncrementBlocked(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.blockedToday + 1
	if err := s.kv.Set(ctx, keyBlockedToday, next); err != nil {
		return s.blockedToday, err
	}
	s.blockedToday = next
	return next, nil
}

// ResetBlockedToday zeroes the blocked counter.
func (s *State) ResetBlockedToday(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, keyBlockedToday, 0); err != nil {
		return err
	}
	s.blockedToday = 0
	return nil
}

// BlockedToday returns the blocked counter.
func (s *State) BlockedToday() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockedToday
}

// SyncToken returns the linked sync token, or "".
func (s *State) SyncToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncToken
}

// SetSyncToken links the agent to an account.
func (s *State) SetSyncToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, keySyncToken, token); err != nil {
		return err
	}
	s.syncToken = token
	return nil
}

// SessionToken returns the stored dashboard session token, or "".
func (s *State) SessionToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionToken
}

// SetSessionToken stores a dashboard session token used for activity logging.
func (s *State) SetSessionToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, keySessionToken, token); err != nil {
		return err
	}
	s.sessionToken = token
	return nil
}

// LastSyncAt returns when preferences were last pulled.
func (s *State) LastSyncAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncAt
}

// ApplySync replaces the preferences with a pulled snapshot and records the sync time.
func (s *State) ApplySync(ctx context.Context, prefs model.FocusPreferences, at time.Time) error {
	prefs.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, keyPreferences, prefs); err != nil {
		return err
	}
	s.prefs = prefs.Clone()

	if err := s.kv.Set(ctx, keyLastSyncAt, at); err != nil {
		return err
	}
	s.lastSyncAt = at
	return nil
}
