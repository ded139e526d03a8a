package blocking

import (
	"sync"
)

type fakePlayer struct {
	onPlay       map[int]func()
	overlay      string
	volume       float64
	pauses       int
	nextID       int
	mu           sync.Mutex
	playing      bool
	muted        bool
	detached     bool
	overlayShown bool
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{playing: true, volume: 1, onPlay: make(map[int]func())}
}

func (p *fakePlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.pauses++
	return nil
}

func (p *fakePlayer) Mute() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = true
	return nil
}

func (p *fakePlayer) SetVolume(v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
	return nil
}

func (p *fakePlayer) DetachSource() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detached = true
	return nil
}

func (p *fakePlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *fakePlayer) OnPlay(fn func()) func() {
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

func (p *fakePlayer) ShowOverlay(message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlay = message
	p.overlayShown = true
	return nil
}

func (p *fakePlayer) RemoveOverlay() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlayShown = false
	return nil
}

// play simulates something outside the enforcer resuming playback.
func (p *fakePlayer) play(fireEvent bool) {
	p.mu.Lock()
	p.playing = true
	p.muted = false
	var handlers []func()
	if fireEvent {
		for _, fn := range p.onPlay {
			handlers = append(handlers, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

type playerState struct {
	overlay      string
	volume       float64
	pauses       int
	guards       int
	playing      bool
	muted        bool
	detached     bool
	overlayShown bool
}

func (p *fakePlayer) snapshot() playerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return playerState{
		overlay:      p.overlay,
		volume:       p.volume,
		pauses:       p.pauses,
		guards:       len(p.onPlay),
		playing:      p.playing,
		muted:        p.muted,
		detached:     p.detached,
		overlayShown: p.overlayShown,
	}
}
