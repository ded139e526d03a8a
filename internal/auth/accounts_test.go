package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/testutil"
)

func newTestAccounts(t *testing.T) (*Accounts, *TokenManager, *testutil.TestDB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return NewAccounts(db.Storage, tokens, nil), tokens, db
}

func TestAccounts_RegisterAndLogin(t *testing.T) {
	accounts, tokens, db := newTestAccounts(t)
	ctx := context.Background()

	session, err := accounts.Register(ctx, "new@example.com", "hunter22", "New Student")
	require.NoError(t, err)
	assert.NotEmpty(t, session.SyncToken)
	assert.NotEqual(t, "hunter22", session.User.PasswordHash)

	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)

	record := db.MustPreferences(session.User.ID)
	assert.True(t, record.FocusModeEnabled)
	assert.Contains(t, record.Blacklist, "reddit.com")

	login, err := accounts.Login(ctx, "new@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
}

func TestAccounts_RegisterErrors(t *testing.T) {
	accounts, _, _ := newTestAccounts(t)
	ctx := context.Background()

	_, err := accounts.Register(ctx, "", "pw", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = accounts.Register(ctx, "dup@example.com", "pw", "")
	require.NoError(t, err)
	_, err = accounts.Register(ctx, "dup@example.com", "pw", "")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestAccounts_LoginErrors(t *testing.T) {
	accounts, _, _ := newTestAccounts(t)
	ctx := context.Background()

	_, err := accounts.Register(ctx, "user@example.com", "right", "")
	require.NoError(t, err)

	_, err = accounts.Login(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = accounts.Login(ctx, "nobody@example.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	_, err = accounts.Login(ctx, "user@example.com", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword("correct horse", hash))
	assert.False(t, CheckPassword("battery staple", hash))
}
