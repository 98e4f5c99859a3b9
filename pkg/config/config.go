package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenAi    = "openai"
	ProviderAnthropic = "anthropic"

	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Debug bool

	Provider string // openai or anthropic

	OpenAiAPIKey  string
	OpenAiBaseURL string
	OpenAiModel   string

	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string

	PromptVariant string
	PromptsFile   string // optional yaml file with extra prompt templates

	Timezone        string // location used for dates without an offset
	CalendarBaseURL string
	AppendLinks     bool // copy links found in the text into event details

	Store     string
	RedisAddr string
	RedisDB   int
	DBString  string
	CacheTTL  time.Duration

	DiscordWebhookURL string

	Port int

	// Defaults lists keys which were not set in the environment
	Defaults []string
}

func NewConfig() *Config {
	c := &Config{}

	c.Debug = c.getBoolEnvDefault("DEBUG", false)

	c.Provider = strings.ToLower(c.getStringEnvDefault("AI_PROVIDER", ProviderOpenAi))

	c.OpenAiAPIKey = c.getStringEnvDefault("OPENAI_API_KEY", "")
	c.OpenAiBaseURL = c.getStringEnvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	c.OpenAiModel = c.getStringEnvDefault("OPENAI_MODEL", "gpt-3.5-turbo")

	c.AnthropicAPIKey = c.getStringEnvDefault("ANTHROPIC_API_KEY", "")
	c.AnthropicBaseURL = c.getStringEnvDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1")
	c.AnthropicModel = c.getStringEnvDefault("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest")

	c.PromptVariant = c.getStringEnvDefault("PROMPT_VARIANT", "default")
	c.PromptsFile = c.getStringEnvDefault("PROMPTS_FILE", "")

	c.Timezone = c.getStringEnvDefault("TIMEZONE", "Local")
	c.CalendarBaseURL = c.getStringEnvDefault("CALENDAR_BASE_URL", "https://calendar.google.com/calendar/render?action=TEMPLATE")
	c.AppendLinks = c.getBoolEnvDefault("APPEND_LINKS", false)

	c.Store = strings.ToLower(c.getStringEnvDefault("STORE", StoreMemory))
	c.RedisAddr = c.getStringEnvDefault("REDIS_ADDR", "localhost:6379")
	c.RedisDB = c.getIntEnvDefault("REDIS_DB", 0)
	c.DBString = c.getStringEnvDefault("DB_STRING", "host=localhost port=5432 user=postgres password=admin dbname=calassist sslmode=disable")
	c.CacheTTL = c.getDurationEnvDefault("CACHE_TTL", 24*time.Hour)

	c.DiscordWebhookURL = c.getStringEnvDefault("DISCORD_WEBHOOK_URL", "")

	c.Port = c.getIntEnvDefault("PORT", 8080)

	return c
}

// APIKey returns the key configured for the selected provider
func (c *Config) APIKey() string {
	if c.Provider == ProviderAnthropic {
		return c.AnthropicAPIKey
	}

	return c.OpenAiAPIKey
}

// Model returns the model configured for the selected provider
func (c *Config) Model() string {
	if c.Provider == ProviderAnthropic {
		return c.AnthropicModel
	}

	return c.OpenAiModel
}

// Location resolves Timezone. "Local" and empty string mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}

	return loc, nil
}

// Validate checks values which cannot be checked by the parsing helpers
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAi, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown AI_PROVIDER: %s", c.Provider)
	}

	switch c.Store {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("unknown STORE: %s", c.Store)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

func (c *Config) getBoolEnvDefault(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}

	c.Defaults = append(c.Defaults, key)
	return defaultValue
}

func (c *Config) getStringEnvDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	c.Defaults = append(c.Defaults, key)
	return defaultValue
}

func (c *Config) getIntEnvDefault(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	c.Defaults = append(c.Defaults, key)
	return defaultValue
}

func (c *Config) getDurationEnvDefault(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}

	c.Defaults = append(c.Defaults, key)
	return defaultValue
}
