package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/lockin/internal/common"
)

// Defaults.
const (
	DefaultServerAddr      = ":3000"
	DefaultAPIURL          = "http://localhost:3000"
	DefaultBridgeAddr      = "127.0.0.1:7878"
	DefaultCookieName      = "auth-token"
	DefaultLLMProvider     = "openai"
	DefaultSessionTTL      = 7 * 24 * time.Hour
	DefaultCacheTTL        = 7 * 24 * time.Hour
	DefaultSyncInterval    = 30 * time.Second
	DefaultEnforceInterval = 100 * time.Millisecond
	DefaultLLMTimeout      = 30 * time.Second
	DefaultLLMTemperature  = 0.3
	DefaultLLMRateLimit    = 60
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(DataDir(), "lockin.db"))
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.session_ttl", DefaultSessionTTL)
	v.SetDefault("server.cookie_name", DefaultCookieName)
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.temperature", DefaultLLMTemperature)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("llm.rate_limit", DefaultLLMRateLimit)
	v.SetDefault("classify.cache_ttl", DefaultCacheTTL)
	v.SetDefault("agent.api_url", DefaultAPIURL)
	v.SetDefault("agent.state_path", filepath.Join(DataDir(), "agent.json"))
	v.SetDefault("agent.bridge_addr", DefaultBridgeAddr)
	v.SetDefault("agent.sync_interval", DefaultSyncInterval)
	v.SetDefault("agent.enforce_interval", DefaultEnforceInterval)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// ServerConfig configures `lockin serve`.
type ServerConfig struct {
	Addr         string
	DatabasePath string
	JWTSecret    string
	CookieName   string
	SessionTTL   time.Duration
	CacheTTL     time.Duration
	CookieSecure bool
}

// LoadServerConfig reads server settings. A JWT secret is required.
func LoadServerConfig(v *viper.Viper) (*ServerConfig, error) {
	cfg := &ServerConfig{
		Addr:         v.GetString("server.addr"),
		DatabasePath: DatabasePath(v),
		JWTSecret:    v.GetString("server.jwt_secret"),
		CookieName:   v.GetString("server.cookie_name"),
		CookieSecure: v.GetBool("server.cookie_secure"),
		SessionTTL:   v.GetDuration("server.session_ttl"),
		CacheTTL:     v.GetDuration("classify.cache_ttl"),
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: server.jwt_secret is not set", common.ErrMissingConfig)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return cfg, nil
}

// DatabasePath returns the expanded SQLite path.
func DatabasePath(v *viper.Viper) string {
	return ExpandPath(v.GetString("database.path"))
}

// LLMConfig configures the remote classifier.
type LLMConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
}

// placeholderKey is the sample value shipped in example env files.
const placeholderKey = "your-openai-api-key-here"

// LoadLLMConfig reads model settings. The API key falls back to the
// provider's conventional environment variable; a placeholder counts as unset.
func LoadLLMConfig(v *viper.Viper) LLMConfig {
	cfg := LLMConfig{
		Provider:    v.GetString("llm.provider"),
		Model:       v.GetString("llm.model"),
		BaseURL:     v.GetString("llm.base_url"),
		Temperature: v.GetFloat64("llm.temperature"),
		Timeout:     v.GetDuration("llm.timeout"),
		RateLimit:   v.GetInt("llm.rate_limit"),
	}

	switch cfg.Provider {
	case "anthropic":
		cfg.APIKey = v.GetString("llm.anthropic_api_key")
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	default:
		cfg.APIKey = v.GetString("llm.openai_api_key")
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.APIKey == placeholderKey {
		cfg.APIKey = ""
	}
	return cfg
}

// Enabled reports whether a usable API key is configured.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// AgentConfig configures `lockin agent`.
type AgentConfig struct {
	APIURL          string
	StatePath       string
	BridgeAddr      string
	YouTubeKey      string
	SyncInterval    time.Duration
	EnforceInterval time.Duration
}

// LoadAgentConfig reads agent settings.
func LoadAgentConfig(v *viper.Viper) AgentConfig {
	cfg := AgentConfig{
		APIURL:          v.GetString("agent.api_url"),
		StatePath:       ExpandPath(v.GetString("agent.state_path")),
		BridgeAddr:      v.GetString("agent.bridge_addr"),
		YouTubeKey:      v.GetString("youtube.api_key"),
		SyncInterval:    v.GetDuration("agent.sync_interval"),
		EnforceInterval: v.GetDuration("agent.enforce_interval"),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	if cfg.EnforceInterval <= 0 {
		cfg.EnforceInterval = DefaultEnforceInterval
	}
	return cfg
}

// LoggingConfig configures the default logger.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// LoadLoggingConfig reads logging settings.
func LoadLoggingConfig(v *viper.Viper) LoggingConfig {
	return LoggingConfig{
		Level:  v.GetString("logging.level"),
		Format: v.GetString("logging.format"),
		File:   ExpandPath(v.GetString("logging.file")),
	}
}
