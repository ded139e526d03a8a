package blocking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/lockin/internal/model"
)

// BlockedPageURL is where blocked navigations are sent.
const BlockedPageURL = "lockin://blocked"

// DefaultEnforceInterval is how often an active enforcer re-asserts the paused state.
const DefaultEnforceInterval = 100 * time.Millisecond

// Navigation is a browser navigation event.
type Navigation struct {
	URL     string `json:"url"`
	TabID   int    `json:"tabId"`
	FrameID int    `json:"frameId"`
}

// TopLevel reports whether the navigation targets a tab's main frame.
func (n Navigation) TopLevel() bool {
	return n.FrameID == 0
}

// Decision is the outcome of a navigation check.
type Decision struct {
	URL         string `json:"url"`
	Domain      string `json:"domain,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	Blocked     bool   `json:"blocked"`
}

// PreferenceSource supplies the current preferences.
type PreferenceSource interface {
	Preferences(ctx context.Context) (model.FocusPreferences, error)
}

// Navigator redirects a tab.
type Navigator interface {
	Redirect(ctx context.Context, tabID int, target string) error
}

// Counter tracks the number of navigations blocked today.
type Counter interface {
	IncrementBlocked(ctx context.Context) (int, error)
}

// Engine applies blocking decisions to navigation and video events.
type Engine struct {
	prefs           PreferenceSource
	navigator       Navigator
	counter         Counter
	logger          *slog.Logger
	enforceInterval time.Duration
}

// NewEngine creates an engine. counter may be nil.
func NewEngine(prefs PreferenceSource, navigator Navigator, counter Counter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		prefs:           prefs,
		navigator:       navigator,
		counter:         counter,
		logger:          logger,
		enforceInterval: DefaultEnforceInterval,
	}
}

// SetEnforceInterval overrides the enforcer polling interval.
func (e *Engine) SetEnforceInterval(d time.Duration) {
	if d > 0 {
		e.enforceInterval = d
	}
}

// HandleNavigation evaluates a navigation against the current preferences,
// read fresh for every event. A blocked navigation is redirected and counted.
// Failures to read preferences allow the navigation.
func (e *Engine) HandleNavigation(ctx context.Context, nav Navigation) (Decision, error) {
	decision := Decision{URL: nav.URL}
	if !nav.TopLevel() {
		return decision, nil
	}

	prefs, err := e.prefs.Preferences(ctx)
	if err != nil {
		e.logger.Warn("Preferences unavailable, allowing navigation", "url", nav.URL, "error", err)
		return decision, nil
	}

	decision.Domain, _ = ExtractDomain(nav.URL)
	if !ShouldBlock(nav.URL, prefs) {
		return decision, nil
	}

	if err := e.navigator.Redirect(ctx, nav.TabID, BlockedPageURL); err != nil {
		return decision, fmt.Errorf("failed to redirect tab %d: %w", nav.TabID, err)
	}
	decision.Blocked = true
	decision.RedirectURL = BlockedPageURL

	if e.counter != nil {
		if count, err := e.counter.IncrementBlocked(ctx); err != nil {
			e.logger.Warn("Failed to increment blocked counter", "error", err)
		} else {
			e.logger.Debug("Navigation blocked", "domain", decision.Domain, "blocked_today", count)
		}
	}

	return decision, nil
}

// HandleVideo blocks playback when result's category is in the user's blocked
// set. A classification error or missing result never blocks. The returned
// enforcer is nil when nothing was blocked; callers must Stop it when the
// video changes or the page goes away.
func (e *Engine) HandleVideo(ctx context.Context, player Player, result *model.ClassificationResult, classifyErr error) *Enforcer {
	if classifyErr != nil || result == nil {
		if classifyErr != nil {
			e.logger.Debug("Classification failed, not blocking video", "error", classifyErr)
		}
		return nil
	}

	prefs, err := e.prefs.Preferences(ctx)
	if err != nil {
		e.logger.Warn("Preferences unavailable, not blocking video", "error", err)
		return nil
	}
	if !ShouldBlockVideo(*result, prefs) {
		return nil
	}

	e.logger.Info("Blocking video", "category", result.Category)
	enforcer := NewEnforcer(player, result.Category, e.enforceInterval, e.logger)
	enforcer.Start(ctx)
	return enforcer
}
