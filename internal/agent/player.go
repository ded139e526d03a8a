package agent

import (
	"log/slog"
	"sync"
)

// LogPlayer is a headless player used when no page is attached. It tracks
// playback state in memory and logs every control action.
type LogPlayer struct {
	logger   *slog.Logger
	onPlay   map[int]func()
	overlay  string
	volume   float64
	nextID   int
	mu       sync.Mutex
	playing  bool
	muted    bool
	detached bool
}

// NewLogPlayer returns a player that starts out playing.
func NewLogPlayer(logger *slog.Logger) *LogPlayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPlayer{logger: logger, playing: true, volume: 1, onPlay: make(map[int]func())}
}

func (p *LogPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.logger.Debug("Player paused")
	}
	p.playing = false
	return nil
}

func (p *LogPlayer) Mute() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = true
	return nil
}

func (p *LogPlayer) SetVolume(volume float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	return nil
}

func (p *LogPlayer) DetachSource() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detached = true
	p.logger.Info("Player source detached")
	return nil
}

func (p *LogPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *LogPlayer) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *LogPlayer) OnPlay(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.onPlay[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.onPlay, id)
	}
}

func (p *LogPlayer) ShowOverlay(message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlay = message
	p.logger.Info("Overlay shown", "message", message)
	return nil
}

func (p *LogPlayer) RemoveOverlay() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlay = ""
	return nil
}

// Overlay returns the message currently covering the player, or "".
func (p *LogPlayer) Overlay() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overlay
}

// Resume simulates the user pressing play. Registered play handlers run
// after the state change.
func (p *LogPlayer) Resume() {
	p.mu.Lock()
	p.playing = true
	p.muted = false
	handlers := make([]func(), 0, len(p.onPlay))
	for _, fn := range p.onPlay {
		handlers = append(handlers, fn)
	}
	p.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
