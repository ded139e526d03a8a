package blocking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/model"
)

func TestEnforcer_Start(t *testing.T) {
	player := newFakePlayer()
	enforcer := NewEnforcer(player, model.CategoryGaming, 10*time.Millisecond, nil)
	enforcer.Start(context.Background())
	defer enforcer.Stop()

	state := player.snapshot()
	assert.False(t, state.playing)
	assert.True(t, state.muted)
	assert.Zero(t, state.volume)
	assert.True(t, state.detached)
	assert.True(t, state.overlayShown)
	assert.Contains(t, state.overlay, "gaming")
	assert.Equal(t, 1, state.guards, "resume guard installed")
}

func TestEnforcer_ResumeGuard(t *testing.T) {
	player := newFakePlayer()
	enforcer := NewEnforcer(player, model.CategoryComedy, time.Hour, nil)
	enforcer.Start(context.Background())
	defer enforcer.Stop()

	player.play(true)

	state := player.snapshot()
	assert.False(t, state.playing)
	assert.True(t, state.muted)
}

func TestEnforcer_PeriodicReassertion(t *testing.T) {
	player := newFakePlayer()
	enforcer := NewEnforcer(player, model.CategoryMusic, 5*time.Millisecond, nil)
	enforcer.Start(context.Background())
	defer enforcer.Stop()

	// Resume without firing a play event; only the ticker can catch this.
	player.play(false)

	assert.Eventually(t, func() bool {
		state := player.snapshot()
		return !state.playing && state.muted
	}, time.Second, 5*time.Millisecond)
}

func TestEnforcer_Stop(t *testing.T) {
	player := newFakePlayer()
	enforcer := NewEnforcer(player, model.CategoryVlog, 5*time.Millisecond, nil)
	enforcer.Start(context.Background())

	enforcer.Stop()
	enforcer.Stop()

	select {
	case <-enforcer.Done():
	default:
		t.Fatal("loop still running after Stop")
	}

	state := player.snapshot()
	assert.False(t, state.overlayShown)
	assert.Equal(t, 0, state.guards, "resume guard removed")

	pauses := state.pauses
	player.play(true)
	time.Sleep(20 * time.Millisecond)
	assert.True(t, player.Playing())
	assert.Equal(t, pauses, player.snapshot().pauses)
}

func TestEnforcer_StopWithoutStart(t *testing.T) {
	enforcer := NewEnforcer(newFakePlayer(), model.CategoryVlog, 0, nil)
	require.NotPanics(t, enforcer.Stop)
}

func TestEnforcer_ContextCancelReleases(t *testing.T) {
	player := newFakePlayer()
	ctx, cancel := context.WithCancel(context.Background())
	enforcer := NewEnforcer(player, model.CategorySports, 5*time.Millisecond, nil)
	enforcer.Start(ctx)

	cancel()

	select {
	case <-enforcer.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit on cancel")
	}
	assert.False(t, player.snapshot().overlayShown)
	enforcer.Stop()
}
