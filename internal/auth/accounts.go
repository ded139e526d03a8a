package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", common.ErrUnauthenticated)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User, prefs model.FocusPreferences) (*model.PreferenceRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Session is an authenticated account with its signed token.
type Session struct {
	User      *model.User
	SyncToken string
	Token     string
}

// Accounts registers and logs in dashboard users.
type Accounts struct {
	store  UserStore
	tokens *TokenManager
	logger *slog.Logger
}

// NewAccounts creates an account service.
func NewAccounts(store UserStore, tokens *TokenManager, logger *slog.Logger) *Accounts {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accounts{store: store, tokens: tokens, logger: logger}
}

// Register creates an account seeded with default preferences and a zero
// streak, and returns a signed session.
func (a *Accounts) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Email: email, Name: strings.TrimSpace(name), PasswordHash: hash}
	record, err := a.store.CreateUser(ctx, user, model.DefaultPreferences())
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, _, err := a.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Registered user", "user_id", user.ID)
	return &Session{User: user, Token: token, SyncToken: record.SyncToken}, nil
}

// Login verifies credentials and returns a signed session.
func (a *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidInput)
	}

	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, _, err := a.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}
