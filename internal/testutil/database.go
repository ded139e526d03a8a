// Package testutil provides test helpers for LockIn: in-memory databases and
// seeded user fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/lockin/internal/model"
	"github.com/Veraticus/lockin/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new migrated in-memory database.
// It automatically handles cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	user := db.CreateUser("student@example.com")
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Users          []UserFixture
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := &TestDB{Storage: store, t: t}

	for _, fixture := range opts.Users {
		db.CreateUserFromFixture(fixture)
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return db
}

// CreateUser registers a user with default preferences.
func (db *TestDB) CreateUser(email string) *model.User {
	db.t.Helper()
	user, _ := db.CreateUserFromFixture(UserFixture{Email: email})
	return user
}

// CreateUserFromFixture registers fixture and returns the user and their preference record.
func (db *TestDB) CreateUserFromFixture(fixture UserFixture) (*model.User, *model.PreferenceRecord) {
	db.t.Helper()

	user, prefs := fixture.build()
	record, err := db.Storage.CreateUser(context.Background(), user, prefs)
	if err != nil {
		db.t.Fatalf("failed to seed user %q: %v", fixture.Email, err)
	}
	return user, record
}

// MustPreferences returns the stored preferences for userID or fails the test.
func (db *TestDB) MustPreferences(userID string) *model.PreferenceRecord {
	db.t.Helper()
	record, err := db.Storage.GetPreferencesByUserID(context.Background(), userID)
	if err != nil {
		db.t.Fatalf("failed to load preferences for %s: %v", userID, err)
	}
	return record
}
