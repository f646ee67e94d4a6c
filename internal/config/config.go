// Package config provides configuration management for the forecaster.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Store      StoreConfig      `mapstructure:"store"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimulationConfig holds the fixed simulator defaults.
type SimulationConfig struct {
	DefaultIterations int     `mapstructure:"default_iterations"`
	DefaultConfidence float64 `mapstructure:"default_confidence"`
	DefaultVolatility float64 `mapstructure:"default_volatility"`
	BatchWorkers      int     `mapstructure:"batch_workers"`
}

// MarketDataConfig selects the market-data provider.
type MarketDataConfig struct {
	Source           string  `mapstructure:"source"` // "none", "static", "csv"
	CSVPath          string  `mapstructure:"csv_path"`
	StaticVolatility float64 `mapstructure:"static_volatility"`
	StaticPrice      float64 `mapstructure:"static_price"`
	RetryAttempts    int     `mapstructure:"retry_attempts"`
}

// StoreConfig holds forecast-journal configuration.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/yield-forecaster"
	}
	return filepath.Join(home, ".config", "yield-forecaster")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A missing config file is not
// an error: a template is written and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("simulation.default_iterations", 1000)
	v.SetDefault("simulation.default_confidence", 0.95)
	v.SetDefault("simulation.default_volatility", 0.13)
	v.SetDefault("simulation.batch_workers", 0) // 0 = NumCPU

	v.SetDefault("market_data.source", "none")
	v.SetDefault("market_data.static_volatility", 0.13)
	v.SetDefault("market_data.static_price", 100.0)
	v.SetDefault("market_data.retry_attempts", 3)

	v.SetDefault("store.enabled", true)
	v.SetDefault("store.path", filepath.Join(configDir, "forecasts.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "forecaster.log"))
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORECASTER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FORECASTER_MARKET_SOURCE"); v != "" {
		cfg.MarketData.Source = v
	}
	if v := os.Getenv("FORECASTER_CSV_PATH"); v != "" {
		cfg.MarketData.CSVPath = v
	}
	if v := os.Getenv("FORECASTER_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("FORECASTER_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.DefaultIterations = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Simulation.DefaultIterations <= 0 {
		return fmt.Errorf("simulation.default_iterations must be positive")
	}
	if c.Simulation.DefaultConfidence <= 0 || c.Simulation.DefaultConfidence >= 1 {
		return fmt.Errorf("simulation.default_confidence must be in (0, 1)")
	}
	if c.Simulation.DefaultVolatility < 0 {
		return fmt.Errorf("simulation.default_volatility must be non-negative")
	}
	switch c.MarketData.Source {
	case "", "none", "static", "csv":
	default:
		return fmt.Errorf("invalid market_data.source: %s (must be 'none', 'static' or 'csv')", c.MarketData.Source)
	}
	if c.MarketData.Source == "csv" && c.MarketData.CSVPath == "" {
		return fmt.Errorf("market_data.csv_path is required when source is 'csv'")
	}
	return nil
}
