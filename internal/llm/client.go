package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Classify(ctx context.Context, prompt string) (ClassificationResponse, error)
}

// ClassificationResponse is the model's raw verdict before validation.
type ClassificationResponse struct {
	Category      string  `json:"category"`
	Reasoning     string  `json:"reasoning"`
	Confidence    float64 `json:"confidence"`
	IsEducational bool    `json:"isEducational"`
}

// Config holds configuration for the remote classifier.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

const systemPrompt = "You are a content classifier that determines if content is educational or entertainment-focused. " +
	"You MUST respond with ONLY a valid JSON object. Do not include any explanatory text or markdown formatting."
