package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

const preferenceColumns = `user_id, focus_mode_enabled, whitelist, blacklist,
	youtube_blocked_categories, schedule_start, schedule_end, sync_token,
	last_sync_at, updated_at`

// GetPreferencesByUserID returns the preferences owned by userID.
func (s *SQLiteStorage) GetPreferencesByUserID(ctx context.Context, userID string) (*model.PreferenceRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return s.getPreferences(ctx, s.db, "user_id", userID)
}

// GetPreferencesBySyncToken resolves a sync token to its preferences.
func (s *SQLiteStorage) GetPreferencesBySyncToken(ctx context.Context, token string) (*model.PreferenceRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(token, "token"); err != nil {
		return nil, err
	}
	return s.getPreferences(ctx, s.db, "sync_token", token)
}

// UpsertPreferences replaces the preference set for userID, creating the
// row (and a sync token) when none exists. lastSyncAt is set to now.
func (s *SQLiteStorage) UpsertPreferences(ctx context.Context, userID string, prefs model.FocusPreferences) (*model.PreferenceRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var record *model.PreferenceRecord
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.getPreferences(ctx, tx, "user_id", userID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if existing == nil {
			record, err = s.insertPreferencesTx(ctx, tx, userID, prefs, s.now())
			return err
		}

		prefs.Normalize()
		lists, err := encodeLists(prefs)
		if err != nil {
			return err
		}
		now := s.now()
		_, err = tx.ExecContext(ctx, `
			UPDATE preferences
			SET focus_mode_enabled = ?, whitelist = ?, blacklist = ?,
				youtube_blocked_categories = ?, schedule_start = ?, schedule_end = ?,
				last_sync_at = ?, updated_at = ?
			WHERE user_id = ?`,
			prefs.FocusModeEnabled, lists[0], lists[1], lists[2],
			prefs.ScheduleStart, prefs.ScheduleEnd, utc(now), utc(now), userID)
		if err != nil {
			return common.Persistence("update preferences", err)
		}

		record = &model.PreferenceRecord{
			UserID:           userID,
			SyncToken:        existing.SyncToken,
			LastSyncAt:       now,
			UpdatedAt:        now,
			FocusPreferences: prefs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RotateSyncToken issues a new sync token for userID, invalidating the old one.
func (s *SQLiteStorage) RotateSyncToken(ctx context.Context, userID string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(userID, "userID"); err != nil {
		return "", err
	}

	token := uuid.NewString()
	result, err := s.db.ExecContext(ctx, `
		UPDATE preferences SET sync_token = ?, updated_at = ? WHERE user_id = ?`,
		token, utc(s.now()), userID)
	if err != nil {
		return "", common.Persistence("rotate sync token", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return "", common.Persistence("rotate sync token", err)
	}
	if rows == 0 {
		return "", fmt.Errorf("preferences for %s: %w", userID, common.ErrNotFound)
	}
	return token, nil
}

func (s *SQLiteStorage) insertPreferencesTx(ctx context.Context, tx *sql.Tx, userID string, prefs model.FocusPreferences, now time.Time) (*model.PreferenceRecord, error) {
	prefs.Normalize()
	lists, err := encodeLists(prefs)
	if err != nil {
		return nil, err
	}

	record := &model.PreferenceRecord{
		UserID:           userID,
		SyncToken:        uuid.NewString(),
		LastSyncAt:       now,
		UpdatedAt:        now,
		FocusPreferences: prefs,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO preferences (`+preferenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, prefs.FocusModeEnabled, lists[0], lists[1], lists[2],
		prefs.ScheduleStart, prefs.ScheduleEnd, record.SyncToken, utc(now), utc(now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("preferences for %s: %w", userID, common.ErrDuplicateEntry)
		}
		return nil, common.Persistence("insert preferences", err)
	}
	return record, nil
}

func (s *SQLiteStorage) getPreferences(ctx context.Context, q queryable, column, value string) (*model.PreferenceRecord, error) {
	var (
		record                             model.PreferenceRecord
		whitelist, blacklist, categoryJSON string
		scheduleStart, scheduleEnd         sql.NullString
	)

	// column is one of two fixed identifiers.
	err := q.QueryRowContext(ctx, `SELECT `+preferenceColumns+` FROM preferences WHERE `+column+` = ?`, value).
		Scan(&record.UserID, &record.FocusModeEnabled, &whitelist, &blacklist, &categoryJSON,
			&scheduleStart, &scheduleEnd, &record.SyncToken, &record.LastSyncAt, &record.UpdatedAt)
	if err != nil {
		return nil, notFoundOr("get preferences", err)
	}

	if err := json.Unmarshal([]byte(whitelist), &record.Whitelist); err != nil {
		return nil, common.Persistence("decode whitelist", err)
	}
	if err := json.Unmarshal([]byte(blacklist), &record.Blacklist); err != nil {
		return nil, common.Persistence("decode blacklist", err)
	}
	if err := json.Unmarshal([]byte(categoryJSON), &record.YouTubeBlockedCategories); err != nil {
		return nil, common.Persistence("decode blocked categories", err)
	}
	if scheduleStart.Valid {
		record.ScheduleStart = &scheduleStart.String
	}
	if scheduleEnd.Valid {
		record.ScheduleEnd = &scheduleEnd.String
	}
	record.Normalize()

	return &record, nil
}

// encodeLists returns whitelist, blacklist and blocked categories as JSON arrays.
func encodeLists(prefs model.FocusPreferences) ([3]string, error) {
	var out [3]string
	for i, v := range []any{prefs.Whitelist, prefs.Blacklist, prefs.YouTubeBlockedCategories} {
		data, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("failed to encode preference list: %w", err)
		}
		out[i] = string(data)
	}
	return out, nil
}
