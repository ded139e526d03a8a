package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/lockin/internal/blocking"
	"github.com/Veraticus/lockin/internal/model"
	"github.com/Veraticus/lockin/internal/youtube"
)

// VideoWatcher follows one player's page and blocks videos whose category
// the user has blocked. Classification happens once per video id.
type VideoWatcher struct {
	bus      *Bus
	engine   *blocking.Engine
	source   youtube.MetadataSource
	player   blocking.Player
	logger   *slog.Logger
	enforcer *blocking.Enforcer
	current  string
	mu       sync.Mutex
}

// NewVideoWatcher creates a watcher for player.
func NewVideoWatcher(bus *Bus, engine *blocking.Engine, source youtube.MetadataSource, player blocking.Player, logger *slog.Logger) *VideoWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoWatcher{
		bus:    bus,
		engine: engine,
		source: source,
		player: player,
		logger: logger,
	}
}

// Observe reacts to the page moving to pageURL. When the video id is
// unchanged nothing happens; otherwise any active enforcement stops and the
// new video is classified and, if blocked, enforced. It returns the category
// being enforced, or "" when playback is allowed.
func (w *VideoWatcher) Observe(ctx context.Context, pageURL string) (model.Category, error) {
	id := youtube.VideoID(pageURL)

	w.mu.Lock()
	defer w.mu.Unlock()

	if id == w.current {
		if w.enforcer != nil {
			return w.enforcer.Category(), nil
		}
		return "", nil
	}

	w.stopLocked()
	w.current = id
	if id == "" {
		return "", nil
	}

	meta, err := w.source.Fetch(ctx, id)
	if err != nil {
		w.logger.Warn("Video metadata unavailable, allowing playback", "video_id", id, "error", err)
		return "", nil
	}

	result, classifyErr := w.classify(ctx, meta.ContentItem(pageURL))

	// Enforcement outlives the observation request; it ends on the next video or Close.
	w.enforcer = w.engine.HandleVideo(context.WithoutCancel(ctx), w.player, result, classifyErr)
	if w.enforcer == nil {
		return "", nil
	}
	return w.enforcer.Category(), nil
}

func (w *VideoWatcher) classify(ctx context.Context, item model.ContentItem) (*model.ClassificationResult, error) {
	resp, err := w.bus.Dispatch(ctx, ClassifyContent{Data: item})
	if err != nil {
		return nil, err
	}
	classified, ok := resp.(ClassifyResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response %T", resp)
	}
	if classified.Error != "" || classified.ClassifyOutcome == nil {
		return nil, errors.New(classified.Error)
	}
	return &classified.ClassificationResult, nil
}

// Current returns the video id being watched.
func (w *VideoWatcher) Current() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Close stops any active enforcement.
func (w *VideoWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

func (w *VideoWatcher) stopLocked() {
	if w.enforcer != nil {
		w.enforcer.Stop()
		w.enforcer = nil
	}
}
