package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/model"
)

func TestRecordActivity_Streak(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	user, _ := createTestUser(t, store, "streak@example.com")

	day := func(offset int) time.Time {
		return time.Now().AddDate(0, 0, offset)
	}

	tests := []struct {
		at          time.Time
		name        string
		wasBlocked  bool
		wantCurrent int
		wantLongest int
	}{
		{name: "allowed event leaves streak", at: day(0), wasBlocked: false, wantCurrent: 0, wantLongest: 0},
		{name: "same day block is no-op", at: day(0), wasBlocked: true, wantCurrent: 0, wantLongest: 0},
		{name: "next day extends", at: day(1), wasBlocked: true, wantCurrent: 1, wantLongest: 1},
		{name: "following day extends", at: day(2), wasBlocked: true, wantCurrent: 2, wantLongest: 2},
		{name: "gap resets", at: day(5), wasBlocked: true, wantCurrent: 1, wantLongest: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.RecordActivity(ctx, &model.ActivityLog{
				UserID:     user.ID,
				Domain:     "reddit.com",
				BlockedURL: "https://reddit.com/r/golang",
				WasBlocked: tt.wasBlocked,
				Timestamp:  tt.at,
			})
			require.NoError(t, err)

			streak, err := store.GetStreak(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, streak.CurrentStreak)
			assert.Equal(t, tt.wantLongest, streak.LongestStreak)
		})
	}
}

func TestListActivityLogs(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	user, _ := createTestUser(t, store, "logs@example.com")
	other, _ := createTestUser(t, store, "other@example.com")

	base := time.Now().Add(-48 * time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.AppendActivityLog(ctx, &model.ActivityLog{
			UserID:     user.ID,
			Domain:     "example.com",
			WasBlocked: i%2 == 0,
			Timestamp:  base.Add(time.Duration(i) * 12 * time.Hour),
		}))
	}
	require.NoError(t, store.AppendActivityLog(ctx, &model.ActivityLog{
		UserID: other.ID, Domain: "example.com", Timestamp: base,
	}))

	logs, err := store.ListActivityLogs(ctx, user.ID, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].Timestamp.After(logs[1].Timestamp), "newest first")
	assert.NotEmpty(t, logs[0].ID)

	all, err := store.ListActivityLogs(ctx, user.ID, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAppendActivityLog_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.AppendActivityLog(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.AppendActivityLog(ctx, &model.ActivityLog{Domain: "a.com"}), ErrInvalidActivity)
	assert.ErrorIs(t, store.AppendActivityLog(ctx, &model.ActivityLog{UserID: "u"}), ErrInvalidActivity)
}
