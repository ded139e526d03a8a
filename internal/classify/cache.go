package classify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// DefaultTTL is how long a fresh classification stays usable.
const DefaultTTL = 7 * 24 * time.Hour

// CacheStore is the keyed store behind the classification cache.
type CacheStore interface {
	GetCachedClassification(ctx context.Context, url string) (*model.CacheEntry, error)
	UpsertCachedClassification(ctx context.Context, entry model.CacheEntry) error
}

// Cache maps content URLs to classifications with a fixed time to live.
// Expired entries are treated as absent and overwritten on the next store.
type Cache struct {
	store CacheStore
	now   func() time.Time
	ttl   time.Duration
}

// NewCache creates a cache over store. A non-positive ttl selects DefaultTTL.
func NewCache(store CacheStore, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// SetClock overrides the cache clock.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// Lookup returns the cached result for url when one exists and has not expired.
func (c *Cache) Lookup(ctx context.Context, url string) (model.ClassificationResult, bool, error) {
	entry, err := c.store.GetCachedClassification(ctx, url)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return model.ClassificationResult{}, false, nil
		}
		return model.ClassificationResult{}, false, fmt.Errorf("failed to read classification cache: %w", err)
	}
	if !entry.Usable(c.now()) {
		return model.ClassificationResult{}, false, nil
	}
	return entry.Result, true, nil
}

// Store upserts result for item.URL with expiry now + ttl.
func (c *Cache) Store(ctx context.Context, item model.ContentItem, result model.ClassificationResult) error {
	now := c.now()
	err := c.store.UpsertCachedClassification(ctx, model.CacheEntry{
		URL:         item.URL,
		VideoID:     item.VideoID,
		Title:       item.Title,
		ChannelName: item.ChannelName,
		Result:      result,
		ExpiresAt:   now.Add(c.ttl),
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, common.ErrPersistence) {
			return fmt.Errorf("failed to write classification cache: %w", err)
		}
		return common.Persistence("write classification cache", err)
	}
	return nil
}
