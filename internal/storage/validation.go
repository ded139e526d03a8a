package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidCacheEntry = errors.New("invalid cache entry")
	ErrInvalidActivity   = errors.New("invalid activity log")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %w: %s", common.ErrInvalidInput, ErrEmptyString, paramName)
	}
	return nil
}

// validateUser validates a user before insert.
func validateUser(user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if err := validateString(user.Email, "email"); err != nil {
		return err
	}
	return validateString(user.PasswordHash, "passwordHash")
}

// validateCacheEntry validates a classification cache row.
func validateCacheEntry(entry model.CacheEntry) error {
	if strings.TrimSpace(entry.URL) == "" {
		return fmt.Errorf("%w: %w: missing url", common.ErrInvalidInput, ErrInvalidCacheEntry)
	}
	if !entry.Result.Category.Valid() {
		return fmt.Errorf("%w: %w: category %q", common.ErrInvalidInput, ErrInvalidCacheEntry, entry.Result.Category)
	}
	if entry.ExpiresAt.IsZero() {
		return fmt.Errorf("%w: %w: missing expiry", common.ErrInvalidInput, ErrInvalidCacheEntry)
	}
	return nil
}

// validateActivity validates an activity log row.
func validateActivity(entry *model.ActivityLog) error {
	if entry == nil {
		return fmt.Errorf("%w: activity", ErrNilParameter)
	}
	if strings.TrimSpace(entry.UserID) == "" {
		return fmt.Errorf("%w: %w: missing user", common.ErrInvalidInput, ErrInvalidActivity)
	}
	if strings.TrimSpace(entry.Domain) == "" {
		return fmt.Errorf("%w: %w: missing domain", common.ErrInvalidInput, ErrInvalidActivity)
	}
	return nil
}
