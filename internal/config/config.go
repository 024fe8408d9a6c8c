// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults, merged in priority order.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Market    MarketConfig    `mapstructure:"market"`
	Prompt    PromptConfig    `mapstructure:"prompt"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type CORSConfig struct {
	// AllowedOrigins may contain "*" to accept any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig limits inbound requests per client IP. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type MarketConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Assets     []string      `mapstructure:"assets"`
	VsCurrency string        `mapstructure:"vs_currency"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type PromptConfig struct {
	// TemplatePath overrides the built-in prompt template when set.
	TemplatePath string `mapstructure:"template_path"`
}

type LLMConfig struct {
	// Slots binds each response field to a provider kind. Example:
	//   slots: {cohere: cohere, gemini: anthropic}
	Slots       SlotsConfig    `mapstructure:"slots"`
	Timeout     time.Duration  `mapstructure:"timeout"`
	Temperature float64        `mapstructure:"temperature"`
	MaxTokens   int            `mapstructure:"max_tokens"`
	Cohere      ProviderConfig `mapstructure:"cohere"`
	Gemini      ProviderConfig `mapstructure:"gemini"`
	OpenAI      ProviderConfig `mapstructure:"openai"`
	Anthropic   ProviderConfig `mapstructure:"anthropic"`
}

type SlotsConfig struct {
	Cohere string `mapstructure:"cohere"`
	Gemini string `mapstructure:"gemini"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type RecommendConfig struct {
	// Concurrent runs both model calls at once. When false they run one after another.
	Concurrent bool `mapstructure:"concurrent"`
}

type StorageConfig struct {
	// DatabasePath enables the model call audit log. Empty keeps the service stateless.
	DatabasePath string `mapstructure:"database_path"`
}

type AdminConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults, these apply when neither file nor env provides a value
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("rate_limit.requests_per_second", 0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("market.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("market.assets", []string{"bitcoin", "ethereum", "solana"})
	v.SetDefault("market.vs_currency", "usd")
	v.SetDefault("market.api_key", "")
	v.SetDefault("market.timeout", 10*time.Second)
	v.SetDefault("prompt.template_path", "")
	v.SetDefault("llm.slots.cohere", "cohere")
	v.SetDefault("llm.slots.gemini", "gemini")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 500)
	v.SetDefault("llm.cohere.api_key", "")
	v.SetDefault("llm.cohere.model", "command-r-plus")
	v.SetDefault("llm.cohere.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", "gpt-3.5-turbo-instruct")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("recommend.concurrent", true)
	v.SetDefault("storage.database_path", "")
	v.SetDefault("admin.api_keys", []string{})
	v.SetDefault("log.level", "info")

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found", defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// ADVISOR_ prefix + nested keys: ADVISOR_LLM_COHERE_API_KEY -> llm.cohere.api_key
	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:3000".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Provider returns the settings for a provider kind such as "cohere" or "openai".
func (l LLMConfig) Provider(kind string) (ProviderConfig, bool) {
	switch kind {
	case "cohere":
		return l.Cohere, true
	case "gemini":
		return l.Gemini, true
	case "openai":
		return l.OpenAI, true
	case "anthropic":
		return l.Anthropic, true
	default:
		return ProviderConfig{}, false
	}
}
