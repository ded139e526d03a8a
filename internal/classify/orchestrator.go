// Package classify turns content items into classification results, trying
// the remote model first, falling back to keyword rules, and caching by URL.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
	"github.com/Veraticus/lockin/internal/rules"
)

// Authentication failures for the token-authenticated path.
var (
	ErrSyncTokenRequired = fmt.Errorf("sync token required: %w", common.ErrUnauthenticated)
	ErrInvalidSyncToken  = fmt.Errorf("invalid sync token: %w", common.ErrUnauthenticated)
)

// Strategy is one way of classifying content.
type Strategy interface {
	Classify(ctx context.Context, item model.ContentItem) (model.ClassificationResult, error)
	Name() model.Method
}

// TokenValidator resolves sync tokens.
type TokenValidator interface {
	GetPreferencesBySyncToken(ctx context.Context, token string) (*model.PreferenceRecord, error)
}

// Orchestrator runs strategies in priority order behind the cache.
type Orchestrator struct {
	cache      *Cache
	tokens     TokenValidator
	logger     *slog.Logger
	strategies []Strategy
}

// NewOrchestrator creates an orchestrator. Strategies are tried in the order
// given; the rule-based strategy is appended when the list does not already
// end with it, so classification always produces a result.
func NewOrchestrator(cache *Cache, tokens TokenValidator, logger *slog.Logger, strategies ...Strategy) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	chain := make([]Strategy, 0, len(strategies)+1)
	for _, s := range strategies {
		if s != nil {
			chain = append(chain, s)
		}
	}
	if len(chain) == 0 || chain[len(chain)-1].Name() != model.MethodRules {
		chain = append(chain, rules.Strategy{})
	}

	return &Orchestrator{
		cache:      cache,
		tokens:     tokens,
		logger:     logger,
		strategies: chain,
	}
}

// ClassifyContent validates syncToken and classifies item.
func (o *Orchestrator) ClassifyContent(ctx context.Context, item model.ContentItem, syncToken string) (*model.ClassifyOutcome, error) {
	if strings.TrimSpace(syncToken) == "" {
		return nil, ErrSyncTokenRequired
	}
	if _, err := o.tokens.GetPreferencesBySyncToken(ctx, syncToken); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidSyncToken
		}
		return nil, fmt.Errorf("failed to validate sync token: %w", err)
	}
	return o.ClassifyForUser(ctx, item)
}

// ClassifyForUser classifies item for a caller that is already authenticated.
func (o *Orchestrator) ClassifyForUser(ctx context.Context, item model.ContentItem) (*model.ClassifyOutcome, error) {
	if strings.TrimSpace(item.URL) == "" {
		return nil, fmt.Errorf("%w: url is required", common.ErrInvalidInput)
	}
	item = item.Truncated()

	if cached, ok, err := o.cache.Lookup(ctx, item.URL); err != nil {
		return nil, err
	} else if ok {
		o.logger.Debug("Classification cache hit", "url", item.URL, "category", cached.Category)
		return &model.ClassifyOutcome{ClassificationResult: cached, Cached: true}, nil
	}

	result := o.run(ctx, item)

	if err := o.cache.Store(ctx, item, result); err != nil {
		return nil, err
	}

	return &model.ClassifyOutcome{ClassificationResult: result}, nil
}

// run tries each strategy in turn. Any error or invalid result moves on to the next.
func (o *Orchestrator) run(ctx context.Context, item model.ContentItem) model.ClassificationResult {
	for _, strategy := range o.strategies {
		result, err := strategy.Classify(ctx, item)
		if err == nil {
			result, err = normalize(result, strategy.Name())
		}
		if err != nil {
			o.logger.Warn("Classification strategy failed, trying next",
				"method", strategy.Name(),
				"url", item.URL,
				"error", err)
			continue
		}
		return result
	}

	// Only reachable with a custom final strategy that fails.
	return rules.Classify(item.Title, item.Description, item.ChannelName)
}

// normalize enforces result invariants and stamps the producing method.
func normalize(result model.ClassificationResult, method model.Method) (model.ClassificationResult, error) {
	if !result.Category.Valid() {
		return result, fmt.Errorf("%w: category %q outside taxonomy", common.ErrMalformedInput, result.Category)
	}
	switch {
	case result.Confidence < 0:
		result.Confidence = 0
	case result.Confidence > 1:
		result.Confidence = 1
	}
	result.IsEducational = result.Category.IsEducational()
	result.Method = method
	return result, nil
}
