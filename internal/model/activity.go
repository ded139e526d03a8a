package model

import (
	"time"
)

// MaxRecentLogs is the number of log rows returned with an analytics summary.
const MaxRecentLogs = 50

// UnknownCategory labels activity rows logged without a category.
const UnknownCategory = "unknown"

// ActivityLog is one immutable navigation or video event.
type ActivityLog struct {
	Timestamp  time.Time `json:"timestamp"`
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Domain     string    `json:"domain"`
	BlockedURL string    `json:"blockedUrl"`
	Category   string    `json:"category,omitempty"`
	WasBlocked bool      `json:"wasBlocked"`
}

// Streak counts consecutive calendar days with at least one blocking event.
type Streak struct {
	LastActiveDate time.Time `json:"lastActiveDate"`
	UserID         string    `json:"userId"`
	CurrentStreak  int       `json:"currentStreak"`
	LongestStreak  int       `json:"longestStreak"`
}

// Record applies a blocking event on day to the streak and reports whether it changed.
// A gap of exactly one calendar day extends the streak, a longer gap restarts it at 1,
// and a same-day event leaves it as is.
func (s *Streak) Record(day time.Time) bool {
	gap := DaysBetween(s.LastActiveDate, day)

	switch {
	case gap == 1:
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestStreak {
			s.LongestStreak = s.CurrentStreak
		}
	case gap > 1:
		s.CurrentStreak = 1
	default:
		return false
	}

	s.LastActiveDate = StartOfDay(day)
	return true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b, using each
// value's own calendar date.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// Period selects the analytics window.
type Period string

// Analytics periods.
const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week"
)

// ParsePeriod maps unknown or empty input to PeriodWeek.
func ParsePeriod(s string) Period {
	if Period(s) == PeriodDay {
		return PeriodDay
	}
	return PeriodWeek
}

// Start returns the inclusive lower bound of the window ending at now.
func (p Period) Start(now time.Time) time.Time {
	if p == PeriodDay {
		return StartOfDay(now)
	}
	return now.AddDate(0, 0, -7)
}

// ActivityStats aggregates activity rows.
type ActivityStats struct {
	ByDomain     map[string]int `json:"byDomain"`
	ByCategory   map[string]int `json:"byCategory"`
	TotalBlocked int            `json:"totalBlocked"`
	TotalAllowed int            `json:"totalAllowed"`
}

// AnalyticsSummary is the analytics read model.
type AnalyticsSummary struct {
	Streak *Streak       `json:"streak"`
	Logs   []ActivityLog `json:"logs"`
	Stats  ActivityStats `json:"stats"`
	Period Period        `json:"period"`
}
