// Package llm provides the remote language-model classifier for content.
// It supports OpenAI and Anthropic, asks for a strict JSON verdict against the
// fixed category taxonomy, and reports every failure as an error so callers
// can fall back to the rule-based classifier.
package llm
