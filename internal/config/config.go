package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/change-calculator/internal/change"
	"github.com/eugenenazirov/change-calculator/internal/storage"
)

const (
	defaultPort             = "8080"
	defaultRateLimitRPS     = 25.0
	defaultRateLimitBurst   = 50
	defaultMaxDenominations = 16
	defaultSearchNodeBudget = 5_000_000
	defaultLogLevel         = "info"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	InitialTill          []change.Denomination
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
	MaxDenominations     int
	SearchNodeBudget     int64
	LogLevel             string
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string                `yaml:"port"`
	Till                 []change.Denomination `yaml:"till"`
	ShutdownGracePeriod  string                `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string                `yaml:"read_header_timeout"`
	WriteTimeout         string                `yaml:"write_timeout"`
	IdleTimeout          string                `yaml:"idle_timeout"`
	EnableRequestLogging *bool                 `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit         `yaml:"rate_limit"`
	MaxDenominations     int                   `yaml:"max_denominations"`
	SearchNodeBudget     *int64                `yaml:"search_node_budget"`
	LogLevel             string                `yaml:"log_level"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile       string
	Port             *string
	TillStr          *string
	RateLimitRPS     *float64
	RateLimitBurst   *int
	MaxDenominations *int
	SearchNodeBudget *int64
	LogLevel         *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	applyEnvConfig(&cfg)

	// Apply YAML file (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		InitialTill:          storage.DefaultTill(),
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		MaxDenominations:     defaultMaxDenominations,
		SearchNodeBudget:     defaultSearchNodeBudget,
		LogLevel:             defaultLogLevel,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Till) > 0 {
		cfg.InitialTill = yamlCfg.Till
	}

	durations := []struct {
		name  string
		raw   string
		field *time.Duration
	}{
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.field = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	if yamlCfg.MaxDenominations > 0 {
		cfg.MaxDenominations = yamlCfg.MaxDenominations
	}

	if yamlCfg.SearchNodeBudget != nil && *yamlCfg.SearchNodeBudget >= 0 {
		cfg.SearchNodeBudget = *yamlCfg.SearchNodeBudget
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rawTill := strings.TrimSpace(os.Getenv("TILL")); rawTill != "" {
		till, err := ParseTill(rawTill)
		if err == nil {
			cfg.InitialTill = till
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if maxDenoms := strings.TrimSpace(os.Getenv("MAX_DENOMINATIONS")); maxDenoms != "" {
		if value, err := strconv.Atoi(maxDenoms); err == nil && value > 0 {
			cfg.MaxDenominations = value
		}
	}

	if budget := strings.TrimSpace(os.Getenv("SEARCH_NODE_BUDGET")); budget != "" {
		if value, err := strconv.ParseInt(budget, 10, 64); err == nil && value >= 0 {
			cfg.SearchNodeBudget = value
		}
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.TillStr != nil && *overrides.TillStr != "" {
		till, err := ParseTill(*overrides.TillStr)
		if err != nil {
			return fmt.Errorf("parse till: %w", err)
		}
		cfg.InitialTill = till
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.MaxDenominations != nil && *overrides.MaxDenominations > 0 {
		cfg.MaxDenominations = *overrides.MaxDenominations
	}

	if overrides.SearchNodeBudget != nil && *overrides.SearchNodeBudget >= 0 {
		cfg.SearchNodeBudget = *overrides.SearchNodeBudget
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.MaxDenominations <= 0 {
		return fmt.Errorf("MAX_DENOMINATIONS must be > 0")
	}
	if cfg.SearchNodeBudget < 0 {
		return fmt.Errorf("SEARCH_NODE_BUDGET must be >= 0")
	}
	if _, err := change.Normalize(cfg.InitialTill); err != nil {
		return fmt.Errorf("initial till: %w", err)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// ParseTill parses a comma-separated list of "<value>x<quantity>" entries,
// for example "1x50,2x50,5x20". Signs are checked later by change.Normalize.
func ParseTill(raw string) ([]change.Denomination, error) {
	parts := strings.Split(raw, ",")
	till := make([]change.Denomination, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := ParseDenomination(part)
		if err != nil {
			return nil, err
		}
		till = append(till, d)
	}
	if len(till) == 0 {
		return nil, fmt.Errorf("no denominations provided")
	}
	return till, nil
}

// ParseDenomination parses a single "<value>x<quantity>" entry.
func ParseDenomination(raw string) (change.Denomination, error) {
	valueStr, quantityStr, ok := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), "x")
	if !ok {
		return change.Denomination{}, fmt.Errorf("invalid denomination %q, expected <value>x<quantity>", raw)
	}
	value, err := strconv.ParseInt(strings.TrimSpace(valueStr), 10, 64)
	if err != nil {
		return change.Denomination{}, fmt.Errorf("invalid value in %q", raw)
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(quantityStr), 10, 64)
	if err != nil {
		return change.Denomination{}, fmt.Errorf("invalid quantity in %q", raw)
	}
	return change.Denomination{Value: value, Quantity: quantity}, nil
}
