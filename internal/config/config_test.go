package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/common"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LOCKIN_TEST_DIR", "/srv/lockin")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/data/lockin.db", want: filepath.Join(home, "data/lockin.db")},
		{in: "$LOCKIN_TEST_DIR/agent.json", want: "/srv/lockin/agent.json"},
		{in: "/abs/path", want: "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	v := newViper()
	_, err := LoadServerConfig(v)
	require.ErrorIs(t, err, common.ErrMissingConfig)

	v.Set("server.jwt_secret", "s3cret")
	cfg, err := LoadServerConfig(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerAddr, cfg.Addr)
	assert.Equal(t, DefaultCookieName, cfg.CookieName)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	assert.Equal(t, 168*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoadServerConfig_SecretFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadServerConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoadLLMConfig(t *testing.T) {
	tests := []struct {
		name        string
		configured  string
		env         string
		wantKey     string
		wantEnabled bool
	}{
		{name: "configured key", configured: "sk-config", wantKey: "sk-config", wantEnabled: true},
		{name: "environment fallback", env: "sk-env", wantKey: "sk-env", wantEnabled: true},
		{name: "placeholder is unset", configured: "your-openai-api-key-here"},
		{name: "nothing set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tt.env)
			v := newViper()
			if tt.configured != "" {
				v.Set("llm.openai_api_key", tt.configured)
			}

			cfg := LoadLLMConfig(v)
			assert.Equal(t, tt.wantKey, cfg.APIKey)
			assert.Equal(t, tt.wantEnabled, cfg.Enabled())
			assert.Equal(t, DefaultLLMProvider, cfg.Provider)
			assert.InDelta(t, DefaultLLMTemperature, cfg.Temperature, 1e-9)
		})
	}
}

func TestLoadAgentConfig(t *testing.T) {
	v := newViper()
	v.Set("agent.sync_interval", "0s")
	v.Set("agent.state_path", "$HOME/lockin/agent.json")

	cfg := LoadAgentConfig(v)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultSyncInterval, cfg.SyncInterval)
	assert.Equal(t, DefaultEnforceInterval, cfg.EnforceInterval)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), "lockin", "agent.json"), cfg.StatePath)
}
