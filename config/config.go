package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/logging"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Browser    BrowserConfig    `mapstructure:"browser"`
	Split      SplitConfig      `mapstructure:"split"`
	Session    SessionConfig    `mapstructure:"session"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds page extraction configuration
type ExtractionConfig struct {
	RenderWait       time.Duration `mapstructure:"render_wait"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxAncestorDepth int           `mapstructure:"max_ancestor_depth"`
	MaxDocumentBytes int64         `mapstructure:"max_document_bytes"`
}

// BrowserConfig holds DevTools configuration. An empty DebuggerURL disables live extraction.
type BrowserConfig struct {
	DebuggerURL       string `mapstructure:"debugger_url"`
	TargetURLContains string `mapstructure:"target_url_contains"`
}

// SplitConfig holds allocation defaults
type SplitConfig struct {
	DefaultTaxRate float64 `mapstructure:"default_tax_rate"` // percent
	MaxPeople      int     `mapstructure:"max_people"`
}

// SessionConfig holds split session storage configuration
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var environments = map[string]bool{
	"development": true,
	"test":        true,
	"production":  true,
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/splitcart/")

	// SPLITCART_SERVER_PORT -> server.port
	v.SetEnvPrefix("SPLITCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Extraction defaults
	v.SetDefault("extraction.render_wait", "150ms")
	v.SetDefault("extraction.timeout", "5s")
	v.SetDefault("extraction.max_ancestor_depth", 8)
	v.SetDefault("extraction.max_document_bytes", 10<<20)

	// Browser defaults
	v.SetDefault("browser.debugger_url", "")
	v.SetDefault("browser.target_url_contains", "walmart.com")

	// Split defaults
	v.SetDefault("split.default_tax_rate", 0.0)
	v.SetDefault("split.max_people", 50)

	// Session defaults
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", logging.FormatJSON)
}

// validate validates the configuration
func validate(config *Config) error {
	if !environments[config.Server.Environment] {
		return fmt.Errorf("server environment must be development, test or production, got: %s", config.Server.Environment)
	}

	if config.Extraction.Timeout <= 0 {
		return fmt.Errorf("extraction timeout must be positive, got: %s", config.Extraction.Timeout)
	}

	if config.Extraction.MaxAncestorDepth <= 0 {
		return fmt.Errorf("extraction max ancestor depth must be positive, got: %d", config.Extraction.MaxAncestorDepth)
	}

	if config.Extraction.MaxDocumentBytes <= 0 {
		return fmt.Errorf("extraction max document bytes must be positive, got: %d", config.Extraction.MaxDocumentBytes)
	}

	if config.Split.DefaultTaxRate < 0 {
		return fmt.Errorf("default tax rate cannot be negative, got: %v", config.Split.DefaultTaxRate)
	}

	if config.Split.MaxPeople <= 0 {
		return fmt.Errorf("max people must be positive, got: %d", config.Split.MaxPeople)
	}

	if _, err := logging.ParseLevel(config.Logging.Level); err != nil {
		return err
	}

	if config.Logging.Format != logging.FormatJSON && config.Logging.Format != logging.FormatConsole {
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	return nil
}
