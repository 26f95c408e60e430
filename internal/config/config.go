package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/quizdeck/internal/llm"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string    `mapstructure:"env"`      // "production" switches to JSON logs
	DB       string    `mapstructure:"db"`       // database path, empty for the default
	LogFile  string    `mapstructure:"log_file"` // log destination while the TUI runs
	Autosave bool      `mapstructure:"autosave"` // persist finalized answers
	Mode     string    `mapstructure:"mode"`     // selection mode override, empty keeps the file's
	LLM      LLMConfig `mapstructure:"llm"`
}

// LLMConfig selects and configures the explanation drafting provider.
type LLMConfig struct {
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

// ProviderConfig holds one provider's credentials.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration from $XDG_CONFIG_HOME/quizdeck/config.yaml, if
// present, and QUIZDECK_* environment variables.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return load(dir)
}

func load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	defaults := llm.DefaultConfig()
	v.SetDefault("env", "local")
	v.SetDefault("db", "")
	v.SetDefault("log_file", "")
	v.SetDefault("mode", "")
	v.SetDefault("autosave", true)
	v.SetDefault("llm.provider", defaults.Provider)
	v.SetDefault("llm.timeout", defaults.Timeout)
	v.SetDefault("llm.anthropic.model", defaults.Anthropic.Model)
	v.SetDefault("llm.openai.model", defaults.OpenAI.Model)
	v.SetDefault("llm.gemini.model", defaults.Gemini.Model)
	v.SetDefault("llm.openrouter.model", defaults.OpenRouter.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.base_url", "")

	// QUIZDECK_LLM_ANTHROPIC_API_KEY and friends.
	v.SetEnvPrefix("quizdeck")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short aliases for the common keys.
	_ = v.BindEnv("llm.provider", "QUIZDECK_LLM_PROVIDER")
	_ = v.BindEnv("llm.anthropic.api_key", "QUIZDECK_LLM_ANTHROPIC_API_KEY", "QUIZDECK_ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.openai.api_key", "QUIZDECK_LLM_OPENAI_API_KEY", "QUIZDECK_OPENAI_API_KEY")
	_ = v.BindEnv("llm.gemini.api_key", "QUIZDECK_LLM_GEMINI_API_KEY", "QUIZDECK_GEMINI_API_KEY")
	_ = v.BindEnv("llm.openrouter.api_key", "QUIZDECK_LLM_OPENROUTER_API_KEY", "QUIZDECK_OPENROUTER_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Dir returns the quizdeck config directory.
func Dir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "quizdeck"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "quizdeck"), nil
}

// LLMProviderConfig converts the LLM section to the provider factory's
// configuration. Without an explicit key, standard provider env vars are
// probed.
func (c *Config) LLMProviderConfig() llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		out.Timeout = c.LLM.Timeout
	}
	out.Anthropic = llm.AnthropicConfig{APIKey: c.LLM.Anthropic.APIKey, Model: or(c.LLM.Anthropic.Model, out.Anthropic.Model)}
	out.OpenAI = llm.OpenAIConfig{APIKey: c.LLM.OpenAI.APIKey, Model: or(c.LLM.OpenAI.Model, out.OpenAI.Model), BaseURL: c.LLM.OpenAI.BaseURL}
	out.Gemini = llm.GeminiConfig{APIKey: c.LLM.Gemini.APIKey, Model: or(c.LLM.Gemini.Model, out.Gemini.Model)}
	out.OpenRouter = llm.OpenRouterConfig{
		APIKey:  c.LLM.OpenRouter.APIKey,
		Model:   or(c.LLM.OpenRouter.Model, out.OpenRouter.Model),
		BaseURL: c.LLM.OpenRouter.BaseURL,
	}

	if out.Validate() != nil && out.Provider != "mock" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			return discovered
		}
	}
	return out
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
