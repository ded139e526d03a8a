package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// dateLayout stores streak days as calendar dates, independent of time zone.
const dateLayout = "2006-01-02"

// GetStreak returns the streak for userID.
func (s *SQLiteStorage) GetStreak(ctx context.Context, userID string) (*model.Streak, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return s.getStreak(ctx, s.db, userID)
}

// SaveStreak creates or replaces a streak row.
func (s *SQLiteStorage) SaveStreak(ctx context.Context, streak *model.Streak) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if streak == nil {
		return fmt.Errorf("%w: streak", ErrNilParameter)
	}
	if err := validateString(streak.UserID, "userID"); err != nil {
		return err
	}
	return s.saveStreakTx(ctx, s.db, streak)
}

func (s *SQLiteStorage) getStreak(ctx context.Context, q queryable, userID string) (*model.Streak, error) {
	var (
		streak model.Streak
		day    string
	)
	err := q.QueryRowContext(ctx, `
		SELECT user_id, current_streak, longest_streak, last_active_date
		FROM streaks WHERE user_id = ?`, userID).
		Scan(&streak.UserID, &streak.CurrentStreak, &streak.LongestStreak, &day)
	if err != nil {
		return nil, notFoundOr("get streak", err)
	}

	parsed, err := time.ParseInLocation(dateLayout, day, time.Local)
	if err != nil {
		return nil, common.Persistence("parse streak date", err)
	}
	streak.LastActiveDate = parsed
	return &streak, nil
}

func (s *SQLiteStorage) saveStreakTx(ctx context.Context, q queryable, streak *model.Streak) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_active_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_active_date = excluded.last_active_date`,
		streak.UserID, streak.CurrentStreak, streak.LongestStreak,
		streak.LastActiveDate.Format(dateLayout))
	if err != nil {
		return common.Persistence("save streak", err)
	}
	return nil
}
