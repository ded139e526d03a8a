package blocking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/lockin/internal/model"
)

// Player is the media element being enforced.
type Player interface {
	Pause() error
	Mute() error
	SetVolume(volume float64) error
	// DetachSource removes the media source so playback cannot silently resume.
	DetachSource() error
	Playing() bool
	Muted() bool
	// OnPlay registers fn to run whenever something starts playback and
	// returns a function that unregisters it.
	OnPlay(fn func()) (unregister func())
	ShowOverlay(message string) error
	RemoveOverlay() error
}

// OverlayMessage is the text shown over a blocked video.
func OverlayMessage(category model.Category) string {
	return fmt.Sprintf("This video has been blocked. Category: %s. Stay focused on your goals!", category)
}

// Enforcer keeps a player paused and muted behind an overlay until stopped.
type Enforcer struct {
	player      Player
	logger      *slog.Logger
	stop        chan struct{}
	done        chan struct{}
	unregister  func()
	category    model.Category
	interval    time.Duration
	mu          sync.Mutex
	stopOnce    sync.Once
	releaseOnce sync.Once
	started     bool
}

// NewEnforcer creates an enforcer for player. It does nothing until Start.
func NewEnforcer(player Player, category model.Category, interval time.Duration, logger *slog.Logger) *Enforcer {
	if interval <= 0 {
		interval = DefaultEnforceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enforcer{
		player:   player,
		category: category,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Category returns the category that triggered enforcement.
func (e *Enforcer) Category() model.Category {
	return e.category
}

// Start silences the player, shows the overlay, installs the resume guard
// and begins periodic re-assertion. Cancelling ctx releases everything.
func (e *Enforcer) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true

	err := errors.Join(
		e.player.Pause(),
		e.player.Mute(),
		e.player.SetVolume(0),
		e.player.DetachSource(),
	)
	if overlayErr := e.player.ShowOverlay(OverlayMessage(e.category)); overlayErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to show overlay: %w", overlayErr))
	}
	e.unregister = e.player.OnPlay(e.reassert)
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("Partial video enforcement", "category", e.category, "error", err)
	}

	go e.loop(ctx)
}

func (e *Enforcer) loop(ctx context.Context) {
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.releaseOnce.Do(e.release)
			return
		case <-e.stop:
			return
		case <-ticker.C:
			e.reassert()
		}
	}
}

// reassert pauses and mutes the player again if anything undid it.
func (e *Enforcer) reassert() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.player.Playing() {
		if err := e.player.Pause(); err != nil {
			e.logger.Debug("Failed to re-pause player", "error", err)
		}
	}
	if !e.player.Muted() {
		if err := errors.Join(e.player.Mute(), e.player.SetVolume(0)); err != nil {
			e.logger.Debug("Failed to re-mute player", "error", err)
		}
	}
}

// Stop ends enforcement, removes the resume guard and the overlay.
// It is safe to call more than once.
func (e *Enforcer) Stop() {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()

	e.stopOnce.Do(func() { close(e.stop) })
	if started {
		<-e.done
	}
	e.releaseOnce.Do(e.release)
}

// Done is closed once the re-assertion loop has exited.
func (e *Enforcer) Done() <-chan struct{} {
	return e.done
}

func (e *Enforcer) release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.unregister != nil {
		e.unregister()
		e.unregister = nil
	}
	if err := e.player.RemoveOverlay(); err != nil {
		e.logger.Debug("Failed to remove overlay", "error", err)
	}
}
