// Package config loads kotoba settings from an optional kotoba.yaml file,
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Extraction modes for the model reply.
const (
	ExtractionSpan     = "span"
	ExtractionBalanced = "balanced"
)

// ErrMissingAPIKey is returned when a command needs the LLM provider but no
// key is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// Config is the resolved application configuration.
type Config struct {
	APIKey      string        `mapstructure:"openai_api_key"`
	Port        int           `mapstructure:"port"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float32       `mapstructure:"temperature"`
	Extraction  string        `mapstructure:"extraction"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PoolSize    int           `mapstructure:"pool_size"`
	LogLevel    string        `mapstructure:"log_level"`
	// Server is the URL of a running kotoba server. When set, clients
	// translate through it instead of calling the provider directly.
	Server string `mapstructure:"server"`
}

// env lists the environment variables bound to each key.
var env = map[string][]string{
	"openai_api_key": {"OPENAI_API_KEY"},
	"port":           {"PORT", "KOTOBA_PORT"},
	"model":          {"KOTOBA_MODEL"},
	"base_url":       {"KOTOBA_BASE_URL", "OPENAI_BASE_URL"},
	"temperature":    {"KOTOBA_TEMPERATURE"},
	"extraction":     {"KOTOBA_EXTRACTION"},
	"timeout":        {"KOTOBA_TIMEOUT"},
	"pool_size":      {"KOTOBA_POOL_SIZE"},
	"log_level":      {"KOTOBA_LOG_LEVEL"},
	"server":         {"KOTOBA_SERVER"},
}

// Options controls where Load looks for settings.
type Options struct {
	// File is an explicit config file. When empty, kotoba.yaml is searched in
	// the working directory and $HOME/.config/kotoba and may be absent.
	File string
	// Flags overrides file and environment values for flags the user set.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("kotoba")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/kotoba")
	}

	for key, names := range env {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Extraction = strings.ToLower(strings.TrimSpace(cfg.Extraction))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// bindFlags binds every flag whose name matches a config key, with dashes
// mapped to underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, known := env[key]; !known || err != nil {
			return
		}
		err = v.BindPFlag(key, f)
	})
	if err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	return nil
}

// Validate checks value ranges. The API key is checked separately by the
// commands that need it.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	switch c.Extraction {
	case ExtractionSpan, ExtractionBalanced:
	default:
		return fmt.Errorf("extraction must be %q or %q, got %q", ExtractionSpan, ExtractionBalanced, c.Extraction)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool_size must be at least 1, got %d", c.PoolSize)
	}
	return nil
}

// RequireAPIKey reports ErrMissingAPIKey when no key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("openai_api_key", "")
	v.SetDefault("port", 3000)
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("temperature", 0)
	v.SetDefault("extraction", ExtractionSpan)
	v.SetDefault("timeout", "60s")
	v.SetDefault("pool_size", 8)
	v.SetDefault("log_level", "info")
	v.SetDefault("server", "")
}
