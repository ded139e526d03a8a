package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/lockin/internal/common"
)

// placeholderKey is the sample value shipped in example env files.
const placeholderKey = "your-openai-api-key-here"

// NewClient creates a raw LLM client based on the provided configuration.
// A missing or placeholder API key yields common.ErrMissingConfig.
func NewClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" || cfg.APIKey == placeholderKey {
		return nil, fmt.Errorf("%w: no API key for provider %q", common.ErrMissingConfig, cfg.Provider)
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
