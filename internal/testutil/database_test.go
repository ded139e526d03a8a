package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/model"
	"github.com/Veraticus/lockin/internal/storage"
)

func TestSetupTestDBWithOptions(t *testing.T) {
	prefs := ScenarioPreferences()
	setupRan := false

	db := SetupTestDBWithOptions(t, TestDBOptions{
		Users: []UserFixture{
			{Email: "a@example.com"},
			{Email: "b@example.com", Preferences: &prefs},
		},
		CustomSetup: func(_ context.Context, _ *storage.SQLiteStorage) error {
			setupRan = true
			return nil
		},
	})
	assert.True(t, setupRan)

	user, err := db.Storage.GetUserByEmail(context.Background(), "b@example.com")
	require.NoError(t, err)

	record := db.MustPreferences(user.ID)
	assert.Equal(t, model.DomainList{"reddit.com"}, record.Blacklist)
	assert.Equal(t, []model.Category{model.CategoryGaming}, record.YouTubeBlockedCategories)
}

func TestCreateUser_Defaults(t *testing.T) {
	db := SetupTestDB(t)
	user := db.CreateUser("c@example.com")

	assert.Equal(t, "Test Student", user.Name)
	record := db.MustPreferences(user.ID)
	assert.Equal(t, model.DefaultPreferences().Blacklist, record.Blacklist)
}
