// Package rules implements the keyword-scoring classifier used when no
// remote model is available.
package rules

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/lockin/internal/model"
)

const (
	baseConfidence    = 0.5
	confidencePerHit  = 0.1
	maxRuleConfidence = 0.9
)

// keywordSet pairs a category with the substrings that vote for it.
type keywordSet struct {
	category model.Category
	keywords []string
}

// keywordTable is scanned in order. When two categories tie on score the one
// listed first wins, so this order is the tie-break rule.
var keywordTable = []keywordSet{
	{model.CategoryGaming, []string{
		"gameplay", "gaming", "game", "playthrough", "walkthrough", "lets play",
		"fortnite", "minecraft", "roblox", "valorant", "league of legends", "lol",
		"cod", "warzone", "apex", "overwatch", "stream", "twitch",
	}},
	{model.CategoryVlog, []string{
		"vlog", "daily vlog", "my day", "day in the life", "daily life",
		"morning routine", "night routine", "what i eat", "grwm",
	}},
	{model.CategoryComedy, []string{
		"funny", "comedy", "laugh", "hilarious", "joke", "prank",
		"meme", "sketch", "stand up", "humor",
	}},
	{model.CategoryMusic, []string{
		"music video", "official video", "lyrics", "song", "album",
		"mv", "audio", "live performance", "concert", "cover",
	}},
	{model.CategorySports, []string{
		"highlights", "game highlights", "match", "sports", "football",
		"basketball", "soccer", "nba", "nfl", "goal", "touchdown",
	}},
	{model.CategoryReaction, []string{
		"reaction", "reacts to", "react", "first time", "watching",
		"responds to", "reviews",
	}},
	{model.CategoryTutorial, []string{
		"tutorial", "how to", "guide", "learn", "course", "lesson",
		"step by step", "beginner", "for beginners", "explained",
	}},
	{model.CategoryDocumentary, []string{
		"documentary", "history", "explained", "the story of",
		"what happened", "investigation",
	}},
	{model.CategoryTech, []string{
		"tech", "technology", "review", "unboxing", "specs", "iphone",
		"android", "laptop", "pc", "coding", "programming",
	}},
	{model.CategoryCooking, []string{
		"recipe", "cooking", "baking", "how to cook", "chef",
		"food", "kitchen", "ingredients",
	}},
	{model.CategoryFitness, []string{
		"workout", "exercise", "fitness", "gym", "training",
		"bodybuilding", "yoga", "cardio",
	}},
	{model.CategoryNews, []string{
		"news", "breaking news", "latest", "today", "update",
		"announcement", "report",
	}},
}

// Score is the keyword match count for one category.
type Score struct {
	Category model.Category
	Hits     int
}

// Scores returns the match count of every category in table order.
func Scores(title, description, channelName string) []Score {
	text := strings.ToLower(title + " " + description + " " + channelName)

	scores := make([]Score, 0, len(keywordTable))
	for _, set := range keywordTable {
		hits := 0
		for _, kw := range set.keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		scores = append(scores, Score{Category: set.category, Hits: hits})
	}
	return scores
}

// Classify scores the text fields against the keyword table. It is pure and
// deterministic.
func Classify(title, description, channelName string) model.ClassificationResult {
	best := Score{Category: model.CategoryEntertainment}
	for _, s := range Scores(title, description, channelName) {
		if s.Hits > best.Hits {
			best = s
		}
	}

	reasoning := "No specific keywords matched, defaulting to entertainment"
	if best.Hits > 0 {
		reasoning = fmt.Sprintf("Matched %d keyword(s) for %s category", best.Hits, best.Category)
	}

	return model.ClassificationResult{
		Category:      best.Category,
		IsEducational: best.Category.IsEducational(),
		Confidence:    Confidence(best.Hits),
		Reasoning:     reasoning,
		Method:        model.MethodRules,
	}
}

// Confidence maps a match count to a confidence that never exceeds 0.9.
func Confidence(hits int) float64 {
	c := baseConfidence + confidencePerHit*float64(hits)
	// Round away float noise so equal hit counts compare equal.
	c = math.Round(c*100) / 100
	return math.Min(maxRuleConfidence, c)
}

// Strategy adapts Classify to the classifier strategy interface.
type Strategy struct{}

// Name identifies the strategy's method.
func (Strategy) Name() model.Method {
	return model.MethodRules
}

// Classify never returns an error.
func (Strategy) Classify(_ context.Context, item model.ContentItem) (model.ClassificationResult, error) {
	return Classify(item.Title, item.Description, item.ChannelName), nil
}
