package storage

import (
	"context"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// GetCachedClassification returns the cache row for url regardless of expiry.
// Callers decide whether the entry is still usable.
func (s *SQLiteStorage) GetCachedClassification(ctx context.Context, url string) (*model.CacheEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(url, "url"); err != nil {
		return nil, err
	}

	var (
		entry    model.CacheEntry
		category string
		method   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT url, video_id, title, channel_name, is_educational, category,
			confidence, reasoning, classified_by, expires_at, updated_at
		FROM content_classifications WHERE url = ?`, url).
		Scan(&entry.URL, &entry.VideoID, &entry.Title, &entry.ChannelName,
			&entry.Result.IsEducational, &category, &entry.Result.Confidence,
			&entry.Result.Reasoning, &method, &entry.ExpiresAt, &entry.UpdatedAt)
	if err != nil {
		return nil, notFoundOr("get cached classification", err)
	}

	entry.Result.Category = model.Category(category)
	entry.Result.Method = model.Method(method)
	return &entry, nil
}

// UpsertCachedClassification creates or replaces the cache row for entry.URL.
func (s *SQLiteStorage) UpsertCachedClassification(ctx context.Context, entry model.CacheEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCacheEntry(entry); err != nil {
		return err
	}

	now := s.now()
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO content_classifications (
			url, video_id, title, channel_name, is_educational, category,
			confidence, reasoning, classified_by, expires_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			video_id = excluded.video_id,
			title = excluded.title,
			channel_name = excluded.channel_name,
			is_educational = excluded.is_educational,
			category = excluded.category,
			confidence = excluded.confidence,
			reasoning = excluded.reasoning,
			classified_by = excluded.classified_by,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		entry.URL, entry.VideoID, entry.Title, entry.ChannelName,
		entry.Result.IsEducational, string(entry.Result.Category), entry.Result.Confidence,
		entry.Result.Reasoning, string(entry.Result.Method),
		utc(entry.ExpiresAt), utc(now), utc(entry.UpdatedAt))
	if err != nil {
		return common.Persistence("upsert cached classification", err)
	}
	return nil
}

// PurgeExpiredClassifications deletes cache rows that expired before now.
func (s *SQLiteStorage) PurgeExpiredClassifications(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM content_classifications WHERE expires_at <= ?`, utc(s.now()))
	if err != nil {
		return 0, common.Persistence("purge classifications", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, common.Persistence("purge classifications", err)
	}
	return n, nil
}
