package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/lockin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name            string
		title           string
		description     string
		channel         string
		wantCategory    model.Category
		wantEducational bool
		minConfidence   float64
	}{
		{
			name:            "python tutorial",
			title:           "Full Python Tutorial for Beginners",
			channel:         "CS Dojo",
			wantCategory:    model.CategoryTutorial,
			wantEducational: true,
			minConfidence:   0.6,
		},
		{
			name:            "minecraft lets play",
			title:           "Minecraft Lets Play Episode 4",
			wantCategory:    model.CategoryGaming,
			wantEducational: false,
			minConfidence:   0.6,
		},
		{
			name:            "recipe in description",
			title:           "Sunday dinner",
			description:     "An easy recipe with five ingredients from my kitchen",
			wantCategory:    model.CategoryCooking,
			wantEducational: true,
			minConfidence:   0.8,
		},
		{
			name:            "no keywords",
			title:           "Zzzz",
			channel:         "Qwerty",
			wantCategory:    model.CategoryEntertainment,
			wantEducational: false,
			minConfidence:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.title, tt.description, tt.channel)

			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantEducational, got.IsEducational)
			assert.GreaterOrEqual(t, got.Confidence, tt.minConfidence)
			assert.LessOrEqual(t, got.Confidence, 0.9)
			assert.Equal(t, model.MethodRules, got.Method)
		})
	}
}

func TestClassify_NoMatchDefaults(t *testing.T) {
	got := Classify("", "", "")

	assert.Equal(t, model.CategoryEntertainment, got.Category)
	assert.False(t, got.IsEducational)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	assert.Equal(t, "No specific keywords matched, defaulting to entertainment", got.Reasoning)
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify("Funny prank compilation", "hilarious memes", "LaughTrack")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Classify("Funny prank compilation", "hilarious memes", "LaughTrack"))
	}
	assert.Equal(t, model.CategoryComedy, first.Category)
	assert.Equal(t, "Matched 5 keyword(s) for comedy category", first.Reasoning)
}

func TestClassify_TieGoesToTableOrder(t *testing.T) {
	// "explained" scores one hit for both tutorial and documentary.
	got := Classify("Explained", "", "")
	assert.Equal(t, model.CategoryTutorial, got.Category)

	// "gaming" and "vlog" each score once; gaming is listed first.
	got = Classify("gaming vlog", "", "")
	assert.Equal(t, model.CategoryGaming, got.Category)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Classify("WORKOUT", "", ""), Classify("workout", "", ""))
}

func TestConfidence(t *testing.T) {
	prev := 0.0
	for hits := 0; hits <= 15; hits++ {
		c := Confidence(hits)
		assert.GreaterOrEqual(t, c, prev, "confidence must not decrease at %d hits", hits)
		assert.LessOrEqual(t, c, 0.9)
		prev = c
	}
	assert.InDelta(t, 0.6, Confidence(1), 1e-9)
	assert.InDelta(t, 0.9, Confidence(4), 1e-9)
	assert.InDelta(t, 0.9, Confidence(12), 1e-9)
}

func TestScores_TableOrder(t *testing.T) {
	scores := Scores("", "", "")
	require.Len(t, scores, 12)
	assert.Equal(t, model.CategoryGaming, scores[0].Category)
	assert.Equal(t, model.CategoryNews, scores[len(scores)-1].Category)
	for _, s := range scores {
		assert.Zero(t, s.Hits)
	}
}

func TestStrategy(t *testing.T) {
	var s Strategy
	item := model.ContentItem{Title: "Leg day workout at the gym", Description: strings.Repeat("x", 10)}

	got, err := s.Classify(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryFitness, got.Category)
	assert.Equal(t, model.MethodRules, s.Name())
}
