package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// CreateUser inserts a user together with their preferences, a fresh sync
// token and a zeroed streak. All rows are written in one transaction.
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *model.User, prefs model.FocusPreferences) (*model.PreferenceRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}

	now := s.now()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	var record *model.PreferenceRecord
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, name, password_hash, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			user.ID, user.Email, user.Name, user.PasswordHash, utc(user.CreatedAt))
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("user %s: %w", user.Email, common.ErrDuplicateEntry)
			}
			return common.Persistence("insert user", err)
		}

		record, err = s.insertPreferencesTx(ctx, tx, user.ID, prefs, now)
		if err != nil {
			return err
		}

		return s.saveStreakTx(ctx, tx, &model.Streak{
			UserID:         user.ID,
			LastActiveDate: model.StartOfDay(now),
		})
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetUserByEmail looks up a user by email, case-insensitively.
func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}
	return s.getUser(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByID looks up a user by id.
func (s *SQLiteStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getUser(ctx, "id", id)
}

func (s *SQLiteStorage) getUser(ctx context.Context, column, value string) (*model.User, error) {
	var user model.User
	// column is one of two fixed identifiers.
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE `+column+` = ?`, value).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, notFoundOr("get user", err)
	}
	return &user, nil
}
