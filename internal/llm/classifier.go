package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// Classifier is the remote-model classification strategy.
type Classifier struct {
	client      Client
	logger      *slog.Logger
	rateLimiter *rateLimiter
	timeout     time.Duration
}

// NewClassifier creates a remote classifier from configuration.
// It returns common.ErrMissingConfig when no credential is configured.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewClassifierWithClient(client, cfg, logger), nil
}

// NewClassifierWithClient wraps an existing client.
func NewClassifierWithClient(client Client, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Classifier{
		client:      client,
		logger:      logger,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		timeout:     timeout,
	}
}

// Name identifies the strategy's method.
func (c *Classifier) Name() model.Method {
	return model.MethodAI
}

// Classify asks the model for a verdict. Every failure, including a rate-limit
// refusal or an off-taxonomy category, is wrapped in common.ErrClassificationUnavailable.
func (c *Classifier) Classify(ctx context.Context, item model.ContentItem) (model.ClassificationResult, error) {
	if !c.rateLimiter.tryAcquire() {
		return model.ClassificationResult{}, fmt.Errorf("%w: rate limit exhausted", common.ErrClassificationUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Classify(ctx, BuildPrompt(item))
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, err)
	}

	category, err := model.ParseCategory(resp.Category)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, err)
	}

	c.logger.Debug("content classified by model",
		"url", item.URL,
		"category", category,
		"confidence", resp.Confidence)

	return model.ClassificationResult{
		Category:      category,
		IsEducational: category.IsEducational(),
		Confidence:    clamp01(resp.Confidence),
		Reasoning:     resp.Reasoning,
		Method:        model.MethodAI,
	}, nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
