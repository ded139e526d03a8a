package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/lockin/internal/model"
)

var categoryHints = map[model.Category]string{
	model.CategoryGaming:        "Video games, gameplay, gaming news",
	model.CategoryTutorial:      "How-to guides, educational content",
	model.CategoryVlog:          "Personal vlogs, daily life videos",
	model.CategoryComedy:        "Funny videos, sketches, stand-up",
	model.CategoryMusic:         "Music videos, concerts, songs",
	model.CategorySports:        "Sports highlights, matches, analysis",
	model.CategoryNews:          "News, current events",
	model.CategoryDocumentary:   "Educational documentaries",
	model.CategoryCooking:       "Cooking shows, recipes",
	model.CategoryFitness:       "Workout videos, fitness tips",
	model.CategoryTech:          "Technology reviews, tech news",
	model.CategoryReaction:      "Reaction videos",
	model.CategoryEntertainment: "General entertainment",
	model.CategoryEducational:   "General educational content",
}

// BuildPrompt renders the classification prompt for item.
func BuildPrompt(item model.ContentItem) string {
	channel := item.ChannelName
	if channel == "" {
		channel = "Unknown"
	}
	description := item.Description
	if description == "" {
		description = "None"
	}

	var b strings.Builder
	b.WriteString("Analyze this content and determine if it's educational or entertainment, and classify its category.\n\n")
	fmt.Fprintf(&b, "Title: %s\nChannel: %s\nDescription: %s\nURL: %s\n\n", item.Title, channel, description, item.URL)

	b.WriteString(`Educational content includes:
- Tutorials, how-to guides, lectures
- Science, technology, educational documentaries
- Academic courses, skill development
- Professional development, career advice

Entertainment content includes:
- Gaming (non-tutorial), vlogs, comedy
- Entertainment shows, reaction videos
- Social media content, memes
- Sports highlights, celebrity news

Categories to classify into (pick the most specific):
`)
	for _, c := range model.AllCategories() {
		fmt.Fprintf(&b, "- %q - %s\n", c, categoryHints[c])
	}

	b.WriteString(`
Respond with ONLY a JSON object:
{
  "isEducational": true/false,
  "category": "one of the categories above",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation"
}`)

	return b.String()
}
