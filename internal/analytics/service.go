// Package analytics records blocking activity and summarises it per user.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// Store persists activity rows and streaks.
type Store interface {
	RecordActivity(ctx context.Context, entry *model.ActivityLog) (*model.Streak, error)
	ListActivityLogs(ctx context.Context, userID string, since time.Time) ([]model.ActivityLog, error)
	GetStreak(ctx context.Context, userID string) (*model.Streak, error)
}

// ActivityInput is the body of an activity append.
type ActivityInput struct {
	Domain     string `json:"domain"`
	BlockedURL string `json:"blockedUrl"`
	Category   string `json:"category"`
	WasBlocked bool   `json:"wasBlocked"`
}

// Service implements activity logging and the analytics read model.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates an analytics service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// SetClock overrides the service clock.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// LogActivity appends one immutable row for userID. Blocked events also
// advance the streak.
func (s *Service) LogActivity(ctx context.Context, userID string, in ActivityInput) (*model.ActivityLog, error) {
	domain := strings.TrimSpace(in.Domain)
	if domain == "" {
		return nil, fmt.Errorf("%w: domain is required", common.ErrInvalidInput)
	}

	entry := &model.ActivityLog{
		UserID:     userID,
		Domain:     domain,
		BlockedURL: in.BlockedURL,
		Category:   in.Category,
		WasBlocked: in.WasBlocked,
		Timestamp:  s.now(),
	}

	streak, err := s.store.RecordActivity(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}
	if streak != nil {
		s.logger.Debug("Activity logged",
			"user_id", userID,
			"domain", domain,
			"current_streak", streak.CurrentStreak)
	}
	return entry, nil
}

// Summary aggregates the user's activity over period.
func (s *Service) Summary(ctx context.Context, userID string, period model.Period) (*model.AnalyticsSummary, error) {
	since := period.Start(s.now())

	logs, err := s.store.ListActivityLogs(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	streak, err := s.store.GetStreak(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}

	recent := logs
	if len(recent) > model.MaxRecentLogs {
		recent = recent[:model.MaxRecentLogs]
	}
	if recent == nil {
		recent = []model.ActivityLog{}
	}

	return &model.AnalyticsSummary{
		Period: period,
		Stats:  Aggregate(logs),
		Streak: streak,
		Logs:   recent,
	}, nil
}

// Aggregate counts logs by outcome, domain and category. Rows without a
// category are counted under model.UnknownCategory.
func Aggregate(logs []model.ActivityLog) model.ActivityStats {
	blocked := lo.CountBy(logs, func(l model.ActivityLog) bool { return l.WasBlocked })

	return model.ActivityStats{
		TotalBlocked: blocked,
		TotalAllowed: len(logs) - blocked,
		ByDomain: lo.CountValuesBy(logs, func(l model.ActivityLog) string {
			return l.Domain
		}),
		ByCategory: lo.CountValuesBy(logs, func(l model.ActivityLog) string {
			if l.Category == "" {
				return model.UnknownCategory
			}
			return l.Category
		}),
	}
}
