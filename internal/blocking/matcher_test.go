package blocking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

func scenarioPrefs() model.FocusPreferences {
	return model.FocusPreferences{
		FocusModeEnabled: true,
		Whitelist:        model.DomainList{"github.com"},
		Blacklist:        model.DomainList{"reddit.com"},
	}
}

func TestShouldBlock(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		prefs func() model.FocusPreferences
		want  bool
	}{
		{name: "blacklisted with www", url: "https://www.reddit.com/r/x", prefs: scenarioPrefs, want: true},
		{name: "whitelisted", url: "https://github.com/foo", prefs: scenarioPrefs, want: false},
		{name: "unlisted", url: "https://example.com", prefs: scenarioPrefs, want: false},
		{name: "subdomain of blacklisted root", url: "https://old.reddit.com/", prefs: scenarioPrefs, want: true},
		{
			name: "blacklisted subdomain matches root",
			url:  "https://google.com/",
			prefs: func() model.FocusPreferences {
				p := scenarioPrefs()
				p.Blacklist = model.DomainList{"mail.google.com"}
				return p
			},
			want: true,
		},
		{
			name: "focus mode off",
			url:  "https://www.reddit.com/r/x",
			prefs: func() model.FocusPreferences {
				p := scenarioPrefs()
				p.FocusModeEnabled = false
				return p
			},
			want: false,
		},
		{
			name: "whitelist wins over blacklist",
			url:  "https://reddit.com/r/golang",
			prefs: func() model.FocusPreferences {
				p := scenarioPrefs()
				p.Whitelist = append(p.Whitelist, "reddit.com")
				return p
			},
			want: false,
		},
		{name: "malformed url", url: "http://[::1", prefs: scenarioPrefs, want: false},
		{name: "no scheme", url: "reddit.com", prefs: scenarioPrefs, want: false},
		{name: "empty", url: "", prefs: scenarioPrefs, want: false},
		{
			name: "empty entry ignored",
			url:  "https://example.com",
			prefs: func() model.FocusPreferences {
				p := scenarioPrefs()
				p.Blacklist = model.DomainList{""}
				return p
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldBlock(tt.url, tt.prefs()))
		})
	}
}

func TestShouldBlock_FocusOffNeverBlocks(t *testing.T) {
	prefs := model.FocusPreferences{
		Blacklist: model.DomainList{"a.com", "b.org", "reddit.com"},
	}
	for _, url := range []string{"https://a.com", "https://www.b.org/x", "https://reddit.com"} {
		assert.False(t, ShouldBlock(url, prefs), url)
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := ExtractDomain("https://WWW.Reddit.com:443/r/x?y=1")
	require.NoError(t, err)
	assert.Equal(t, "reddit.com", domain)

	domain, err = ExtractDomain("https://mail.google.com")
	require.NoError(t, err)
	assert.Equal(t, "mail.google.com", domain)

	_, err = ExtractDomain("not a url")
	assert.ErrorIs(t, err, common.ErrMalformedInput)
}

func TestShouldBlockVideo(t *testing.T) {
	prefs := model.FocusPreferences{YouTubeBlockedCategories: []model.Category{model.CategoryGaming}}

	assert.True(t, ShouldBlockVideo(model.ClassificationResult{Category: model.CategoryGaming}, prefs))
	assert.False(t, ShouldBlockVideo(model.ClassificationResult{Category: model.CategoryTutorial}, prefs))

	// Video blocking does not depend on focus mode.
	prefs.FocusModeEnabled = false
	assert.True(t, ShouldBlockVideo(model.ClassificationResult{Category: model.CategoryGaming}, prefs))
}
