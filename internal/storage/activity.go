package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// AppendActivityLog stores one activity row. Missing ids and timestamps are filled in.
func (s *SQLiteStorage) AppendActivityLog(ctx context.Context, entry *model.ActivityLog) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateActivity(entry); err != nil {
		return err
	}
	return s.appendActivityTx(ctx, s.db, entry)
}

// RecordActivity appends entry and, for blocked events, advances the user's
// streak for the entry's calendar day. Both writes share one transaction.
func (s *SQLiteStorage) RecordActivity(ctx context.Context, entry *model.ActivityLog) (*model.Streak, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateActivity(entry); err != nil {
		return nil, err
	}

	var streak *model.Streak
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.appendActivityTx(ctx, tx, entry); err != nil {
			return err
		}
		if !entry.WasBlocked {
			return nil
		}

		current, err := s.getStreak(ctx, tx, entry.UserID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			// Accounts created outside CreateUser start here.
			current = &model.Streak{UserID: entry.UserID, CurrentStreak: 1, LongestStreak: 1,
				LastActiveDate: model.StartOfDay(entry.Timestamp)}
			streak = current
			return s.saveStreakTx(ctx, tx, current)
		case err != nil:
			return err
		}

		streak = current
		if !current.Record(entry.Timestamp) {
			return nil
		}
		return s.saveStreakTx(ctx, tx, current)
	})
	if err != nil {
		return nil, err
	}
	return streak, nil
}

// ListActivityLogs returns the user's rows at or after since, newest first.
func (s *SQLiteStorage) ListActivityLogs(ctx context.Context, userID string, since time.Time) ([]model.ActivityLog, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, domain, blocked_url, was_blocked, category, timestamp
		FROM activity_logs
		WHERE user_id = ? AND timestamp >= ?
		ORDER BY timestamp DESC, rowid DESC`,
		userID, utc(since))
	if err != nil {
		return nil, common.Persistence("query activity logs", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []model.ActivityLog
	for rows.Next() {
		var entry model.ActivityLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Domain, &entry.BlockedURL,
			&entry.WasBlocked, &entry.Category, &entry.Timestamp); err != nil {
			return nil, common.Persistence("scan activity log", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Persistence("iterate activity logs", err)
	}
	return logs, nil
}

func (s *SQLiteStorage) appendActivityTx(ctx context.Context, q queryable, entry *model.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO activity_logs (id, user_id, domain, blocked_url, was_blocked, category, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Domain, entry.BlockedURL, entry.WasBlocked,
		entry.Category, utc(entry.Timestamp))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("activity %s: %w", entry.ID, common.ErrDuplicateEntry)
		}
		return common.Persistence("insert activity log", err)
	}
	return nil
}
