package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("nil limiter always allows", func(t *testing.T) {
		var rl *rateLimiter
		assert.True(t, rl.tryAcquire())
		assert.Nil(t, newRateLimiter(0))
	})

	t.Run("bucket drains and refills", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rl := newRateLimiter(60)
		rl.now = func() time.Time { return now }
		rl.lastRefill = now

		for i := 0; i < 60; i++ {
			assert.True(t, rl.tryAcquire(), "request %d", i)
		}
		assert.False(t, rl.tryAcquire())

		now = now.Add(2 * time.Second)
		assert.True(t, rl.tryAcquire())
		assert.True(t, rl.tryAcquire())
		assert.False(t, rl.tryAcquire())
	})
}
