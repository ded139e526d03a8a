package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/lockin/internal/model"
)

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
}

func onOff(enabled bool) string {
	if enabled {
		return SuccessStyle.Render("on")
	}
	return SubtleStyle.Render("off")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return SubtleStyle.Render("(none)")
	}
	return strings.Join(items, ", ")
}

// RenderClassification formats a classification verdict.
func RenderClassification(item model.ContentItem, result model.ClassifyOutcome) string {
	kind := WarningStyle.Render("entertainment")
	if result.IsEducational {
		kind = SuccessStyle.Render("educational")
	}

	source := string(result.Method)
	if result.Method == model.MethodAI {
		source = RobotIcon + " " + source
	}
	if result.Cached {
		source += SubtleStyle.Render(" (cached)")
	}

	lines := []string{
		field("Category", BoldStyle.Render(string(result.Category))),
		field("Kind", kind),
		field("Confidence", fmt.Sprintf("%.0f%%", result.Confidence*100)),
		field("Method", source),
	}
	if result.Reasoning != "" {
		lines = append(lines, field("Reasoning", result.Reasoning))
	}

	title := item.Title
	if title == "" {
		title = item.URL
	}
	return RenderBox(title, strings.Join(lines, "\n"))
}

// RenderDecision formats a navigation check.
func RenderDecision(url string, blocked bool) string {
	if blocked {
		return FormatError("Blocked: " + url)
	}
	return FormatSuccess("Allowed: " + url)
}

// RenderPreferences formats focus preferences.
func RenderPreferences(prefs model.FocusPreferences) string {
	categories := make([]string, 0, len(prefs.YouTubeBlockedCategories))
	for _, c := range prefs.YouTubeBlockedCategories {
		categories = append(categories, string(c))
	}

	lines := []string{
		field("Focus mode", onOff(prefs.FocusModeEnabled)),
		field("Whitelist", listOrNone(prefs.Whitelist)),
		field("Blacklist", listOrNone(prefs.Blacklist)),
		field("Blocked videos", listOrNone(categories)),
	}
	if prefs.ScheduleStart != nil && prefs.ScheduleEnd != nil {
		lines = append(lines, field("Schedule", *prefs.ScheduleStart+" - "+*prefs.ScheduleEnd))
	}
	return RenderBox("Focus Preferences", strings.Join(lines, "\n"))
}

// AgentStatus is what `lockin agent status` reports.
type AgentStatus struct {
	LastSyncAt   time.Time
	APIURL       string
	Preferences  model.FocusPreferences
	BlockedToday int
	Linked       bool
}

// RenderStatus formats the local agent state.
func RenderStatus(status AgentStatus) string {
	linked := SubtleStyle.Render("not linked")
	if status.Linked {
		linked = SuccessStyle.Render("linked to " + status.APIURL)
	}

	lastSync := SubtleStyle.Render("never")
	if !status.LastSyncAt.IsZero() {
		lastSync = status.LastSyncAt.Local().Format(time.DateTime)
	}

	lines := []string{
		field("Account", linked),
		field("Last sync", lastSync),
		field("Blocked today", fmt.Sprintf("%d", status.BlockedToday)),
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderBox("LockIn Agent", strings.Join(lines, "\n")),
		RenderPreferences(status.Preferences),
	)
}

// RenderSummary formats an analytics summary.
func RenderSummary(summary model.AnalyticsSummary) string {
	lines := []string{
		field("Blocked", fmt.Sprintf("%d", summary.Stats.TotalBlocked)),
		field("Allowed", fmt.Sprintf("%d", summary.Stats.TotalAllowed)),
	}
	if summary.Streak != nil {
		lines = append(lines, field("Streak", fmt.Sprintf("%s %d days (best %d)",
			FireIcon, summary.Streak.CurrentStreak, summary.Streak.LongestStreak)))
	}
	if top := topCounts(summary.Stats.ByDomain, 5); top != "" {
		lines = append(lines, field("Top domains", top))
	}
	if top := topCounts(summary.Stats.ByCategory, 5); top != "" {
		lines = append(lines, field("Top categories", top))
	}
	return RenderBox(ChartIcon+" Activity ("+string(summary.Period)+")", strings.Join(lines, "\n"))
}

// topCounts lists the n largest counts, ties broken by key.
func topCounts(counts map[string]int, n int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s (%d)", k, counts[k])
	}
	return strings.Join(parts, ", ")
}
