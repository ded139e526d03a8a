package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/model"
)

func TestRenderClassification(t *testing.T) {
	out := RenderClassification(model.ContentItem{Title: "Learn Go"}, model.ClassifyOutcome{
		ClassificationResult: model.ClassificationResult{
			Category:      model.CategoryTutorial,
			Confidence:    0.8,
			Reasoning:     "Rule-based: tutorial",
			Method:        model.MethodRules,
			IsEducational: true,
		},
		Cached: true,
	})

	assert.Contains(t, out, "Learn Go")
	assert.Contains(t, out, "tutorial")
	assert.Contains(t, out, "educational")
	assert.Contains(t, out, "80%")
	assert.Contains(t, out, "cached")
}

func TestRenderDecision(t *testing.T) {
	assert.Contains(t, RenderDecision("https://reddit.com", true), "Blocked")
	assert.Contains(t, RenderDecision("https://github.com", false), "Allowed")
}

func TestRenderStatus(t *testing.T) {
	prefs := model.DefaultPreferences()
	prefs.YouTubeBlockedCategories = []model.Category{model.CategoryGaming}

	out := RenderStatus(AgentStatus{
		APIURL:       "http://localhost:3000",
		Preferences:  prefs,
		BlockedToday: 7,
		Linked:       true,
	})

	assert.Contains(t, out, "linked to http://localhost:3000")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "gaming")
	assert.Contains(t, out, "reddit.com")
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(model.AnalyticsSummary{
		Period: model.PeriodWeek,
		Streak: &model.Streak{CurrentStreak: 3, LongestStreak: 5},
		Stats: model.ActivityStats{
			TotalBlocked: 4,
			ByDomain:     map[string]int{"reddit.com": 3, "tiktok.com": 1},
			ByCategory:   map[string]int{"unknown": 4},
		},
	})

	assert.Contains(t, out, "3 days (best 5)")
	assert.Contains(t, out, "reddit.com (3), tiktok.com (1)")
	assert.Contains(t, out, "week")
}

func TestTopCounts(t *testing.T) {
	got := topCounts(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}, 3)
	assert.Equal(t, "c (5), a (2), b (2)", got)
	assert.Empty(t, topCounts(nil, 3))
}

func TestNewProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 2, "Classifying")
	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))
	assert.Contains(t, buf.String(), "Classifying")
}
