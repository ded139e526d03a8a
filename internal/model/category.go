// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// Category is one label from the fixed content taxonomy.
type Category string

// Content categories.
const (
	CategoryGaming        Category = "gaming"
	CategoryTutorial      Category = "tutorial"
	CategoryVlog          Category = "vlog"
	CategoryComedy        Category = "comedy"
	CategoryMusic         Category = "music"
	CategorySports        Category = "sports"
	CategoryNews          Category = "news"
	CategoryDocumentary   Category = "documentary"
	CategoryCooking       Category = "cooking"
	CategoryFitness       Category = "fitness"
	CategoryTech          Category = "tech"
	CategoryReaction      Category = "reaction"
	CategoryEntertainment Category = "entertainment"
	CategoryEducational   Category = "educational"
)

var allCategories = []Category{
	CategoryGaming,
	CategoryTutorial,
	CategoryVlog,
	CategoryComedy,
	CategoryMusic,
	CategorySports,
	CategoryNews,
	CategoryDocumentary,
	CategoryCooking,
	CategoryFitness,
	CategoryTech,
	CategoryReaction,
	CategoryEntertainment,
	CategoryEducational,
}

// educationalCategories is the static educational half of the partition.
// Everything else counts as entertainment.
var educationalCategories = map[Category]bool{
	CategoryTutorial:    true,
	CategoryDocumentary: true,
	CategoryTech:        true,
	CategoryCooking:     true,
	CategoryFitness:     true,
	CategoryNews:        true,
	CategoryEducational: true,
}

// AllCategories returns every category in canonical order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ParseCategory resolves a label case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c belongs to the taxonomy.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsEducational reports whether c falls on the educational side of the partition.
func (c Category) IsEducational() bool {
	return educationalCategories[c]
}

func (c Category) String() string {
	return string(c)
}
