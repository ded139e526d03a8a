package model

import "time"

// Method records which classifier produced a result.
type Method string

// Classification methods.
const (
	MethodAI    Method = "ai"
	MethodRules Method = "rules"
)

// ClassificationResult is the verdict for a piece of content.
type ClassificationResult struct {
	Category      Category `json:"category"`
	Reasoning     string   `json:"reasoning"`
	Method        Method   `json:"method"`
	Confidence    float64  `json:"confidence"`
	IsEducational bool     `json:"isEducational"`
}

// ClassifyOutcome is a result plus whether it came from the cache.
type ClassifyOutcome struct {
	ClassificationResult
	Cached bool `json:"cached"`
}

// CacheEntry is a persisted classification keyed by content URL.
type CacheEntry struct {
	ExpiresAt   time.Time
	UpdatedAt   time.Time
	URL         string
	VideoID     string
	Title       string
	ChannelName string
	Result      ClassificationResult
}

// Usable reports whether the entry has not yet expired at now.
func (e CacheEntry) Usable(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
