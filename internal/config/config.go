package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type Config struct {
	Database struct {
		Primary struct {
			DSN string `mapstructure:"dsn"`
		} `mapstructure:"primary"`
		Local struct {
			Path string `mapstructure:"path"` // SQLite file, used when no primary DSN is set
		} `mapstructure:"local"`
	} `mapstructure:"database"`

	AI struct {
		Provider       string `mapstructure:"provider"` // "gemini", "openai" or "none"
		Model          string `mapstructure:"model"`
		GeminiApiKey   string `mapstructure:"gemini_api_key"`
		OpenaiApiKey   string `mapstructure:"openai_api_key"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
		PromptTemplate string `mapstructure:"prompt_template"` // Path to a system instruction template
		Breaker        struct {
			MaxFailures uint32 `mapstructure:"max_failures"`
			OpenSeconds int    `mapstructure:"open_seconds"`
		} `mapstructure:"breaker"`
	} `mapstructure:"ai"`

	Server struct {
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
		BaseURL string `mapstructure:"base_url"` // Used when building share links
	} `mapstructure:"server"`

	Saved struct {
		Namespace string `mapstructure:"namespace"`
	} `mapstructure:"saved"`

	History struct {
		DefaultLimit int `mapstructure:"default_limit"`
	} `mapstructure:"history"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Enabled     bool           `mapstructure:"enabled"`
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.primary.dsn", "")
	v.SetDefault("database.local.path", "reelmatch.db")

	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini_api_key", "")
	v.SetDefault("ai.openai_api_key", "")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.prompt_template", "")
	v.SetDefault("ai.breaker.max_failures", 3)
	v.SetDefault("ai.breaker.open_seconds", 30)

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080/")

	v.SetDefault("saved.namespace", "b2w_saved_recommendations")
	v.SetDefault("history.default_limit", 20)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("worker.enabled", false)
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.queues", map[string]int{"recommendations": 1})

	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml from the working directory, then applies
// environment overrides (REELMATCH_* plus the bare provider key variables).
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper(), ".")
}

// Load reads configuration into v from the given search paths.
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	v.SetEnvPrefix("REELMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Provider keys are commonly exported without a prefix.
	if err := v.BindEnv("ai.gemini_api_key", "REELMATCH_AI_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("bind gemini key env: %w", err)
	}
	if err := v.BindEnv("ai.openai_api_key", "REELMATCH_AI_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind openai key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &config, nil
}

// UsePrimaryStore reports whether PostgreSQL is configured.
func (c *Config) UsePrimaryStore() bool {
	return c.Database.Primary.DSN != ""
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	switch c.AI.Provider {
	case ProviderGemini:
		return c.AI.GeminiApiKey
	case ProviderOpenAI:
		return c.AI.OpenaiApiKey
	default:
		return ""
	}
}

// PricingFor returns the per-token price for provider/model, if configured.
// Viper splits keys on '.', so model names such as "gemini-2.5-flash" are
// written as "gemini-2_5-flash" in the pricing table.
func (c *Config) PricingFor(provider, model string) (PricingInfo, bool) {
	models, ok := c.Pricing[provider]
	if !ok {
		return PricingInfo{}, false
	}
	if p, ok := models[model]; ok {
		return p, true
	}
	p, ok := models[strings.ReplaceAll(strings.ToLower(model), ".", "_")]
	return p, ok
}
