package model

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// DomainList is an ordered sequence of user-entered domains. Duplicates are tolerated.
type DomainList []string

// FocusPreferences is the full preference set consulted on every blocking decision.
type FocusPreferences struct {
	ScheduleStart            *string    `json:"scheduleStart"`
	ScheduleEnd              *string    `json:"scheduleEnd"`
	Whitelist                DomainList `json:"whitelist"`
	Blacklist                DomainList `json:"blacklist"`
	YouTubeBlockedCategories []Category `json:"youtubeBlockedCategories"`
	FocusModeEnabled         bool       `json:"focusModeEnabled"`
}

// PreferenceRecord is the persisted form of a user's preferences.
type PreferenceRecord struct {
	LastSyncAt time.Time `json:"lastSyncAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	UserID     string    `json:"userId"`
	SyncToken  string    `json:"syncToken"`
	FocusPreferences
}

// DefaultPreferences returns the preferences seeded for a new account.
func DefaultPreferences() FocusPreferences {
	return FocusPreferences{
		FocusModeEnabled: true,
		Whitelist: DomainList{
			"stackoverflow.com",
			"github.com",
			"coursera.org",
			"khanacademy.org",
			"edx.org",
			"youtube.com/c/CrashCourse",
		},
		Blacklist: DomainList{
			"instagram.com",
			"tiktok.com",
			"reddit.com",
			"netflix.com",
			"twitter.com",
			"facebook.com",
		},
		YouTubeBlockedCategories: []Category{},
	}
}

// Normalize replaces nil lists with empty ones so the record always serializes as arrays.
func (p *FocusPreferences) Normalize() {
	if p.Whitelist == nil {
		p.Whitelist = DomainList{}
	}
	if p.Blacklist == nil {
		p.Blacklist = DomainList{}
	}
	if p.YouTubeBlockedCategories == nil {
		p.YouTubeBlockedCategories = []Category{}
	}
}

// Clone returns a deep copy.
func (p FocusPreferences) Clone() FocusPreferences {
	out := p
	out.Whitelist = append(DomainList{}, p.Whitelist...)
	out.Blacklist = append(DomainList{}, p.Blacklist...)
	out.YouTubeBlockedCategories = append([]Category{}, p.YouTubeBlockedCategories...)
	if p.ScheduleStart != nil {
		s := *p.ScheduleStart
		out.ScheduleStart = &s
	}
	if p.ScheduleEnd != nil {
		e := *p.ScheduleEnd
		out.ScheduleEnd = &e
	}
	return out
}

// AddWhitelist appends domain to the whitelist. Empty input is ignored.
func (p *FocusPreferences) AddWhitelist(domain string) {
	if d := strings.TrimSpace(domain); d != "" {
		p.Whitelist = append(p.Whitelist, d)
	}
}

// RemoveWhitelist drops every occurrence of domain from the whitelist.
func (p *FocusPreferences) RemoveWhitelist(domain string) {
	p.Whitelist = lo.Without(p.Whitelist, strings.TrimSpace(domain))
}

// AddBlacklist appends domain to the blacklist. Empty input is ignored.
func (p *FocusPreferences) AddBlacklist(domain string) {
	if d := strings.TrimSpace(domain); d != "" {
		p.Blacklist = append(p.Blacklist, d)
	}
}

// RemoveBlacklist drops every occurrence of domain from the blacklist.
func (p *FocusPreferences) RemoveBlacklist(domain string) {
	p.Blacklist = lo.Without(p.Blacklist, strings.TrimSpace(domain))
}

// BlocksCategory reports whether videos of category c are blocked.
func (p FocusPreferences) BlocksCategory(c Category) bool {
	return lo.Contains(p.YouTubeBlockedCategories, c)
}

// ToggleCategory flips whether c is blocked.
func (p *FocusPreferences) ToggleCategory(c Category) {
	if p.BlocksCategory(c) {
		p.YouTubeBlockedCategories = lo.Without(p.YouTubeBlockedCategories, c)
		return
	}
	p.YouTubeBlockedCategories = append(p.YouTubeBlockedCategories, c)
}
