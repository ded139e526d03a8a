package testutil

import (
	"github.com/Veraticus/lockin/internal/model"
)

// UserFixture describes a user to seed. Zero fields take sensible defaults.
type UserFixture struct {
	Preferences  *model.FocusPreferences
	Email        string
	Name         string
	PasswordHash string
}

func (f UserFixture) build() (*model.User, model.FocusPreferences) {
	user := &model.User{
		Email:        f.Email,
		Name:         f.Name,
		PasswordHash: f.PasswordHash,
	}
	if user.Email == "" {
		user.Email = "student@example.com"
	}
	if user.Name == "" {
		user.Name = "Test Student"
	}
	if user.PasswordHash == "" {
		user.PasswordHash = "not-a-real-hash"
	}

	prefs := model.DefaultPreferences()
	if f.Preferences != nil {
		prefs = f.Preferences.Clone()
	}
	return user, prefs
}

// ScenarioPreferences is the small preference set used across blocking tests:
// github.com allowed, reddit.com blocked, gaming videos blocked.
func ScenarioPreferences() model.FocusPreferences {
	return model.FocusPreferences{
		FocusModeEnabled:         true,
		Whitelist:                model.DomainList{"github.com"},
		Blacklist:                model.DomainList{"reddit.com"},
		YouTubeBlockedCategories: []model.Category{model.CategoryGaming},
	}
}
