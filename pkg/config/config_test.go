package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("AI_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("APPEND_LINKS", "true")

	conf := NewConfig()

	assert.Equal(t, ProviderAnthropic, conf.Provider)
	assert.Equal(t, "sk-ant", conf.APIKey())
	assert.Equal(t, conf.AnthropicModel, conf.Model())
	assert.Equal(t, 90*time.Minute, conf.CacheTTL)
	assert.Equal(t, 3, conf.RedisDB)
	assert.True(t, conf.AppendLinks)
	assert.NotContains(t, conf.Defaults, "CACHE_TTL")
	require.NoError(t, conf.Validate())
}

func TestNewConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "forever")
	t.Setenv("PORT", "http")

	conf := NewConfig()

	assert.Equal(t, 24*time.Hour, conf.CacheTTL)
	assert.Equal(t, 8080, conf.Port)
	assert.Contains(t, conf.Defaults, "CACHE_TTL")
	assert.Contains(t, conf.Defaults, "PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		patch func(c *Config)
		valid bool
	}{
		{"defaults", func(_ *Config) {}, true},
		{"unknown provider", func(c *Config) { c.Provider = "ollama" }, false},
		{"unknown store", func(c *Config) { c.Store = "sqlite" }, false},
		{"utc", func(c *Config) { c.Timezone = "UTC" }, true},
		{"invalid timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Provider: ProviderOpenAi, Store: StoreMemory, Timezone: "Local"}
			tt.patch(c)

			err := c.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
