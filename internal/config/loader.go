// Package config provides configuration management for the Gameline pipeline.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	bindEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields, tolerating a missing config file. It expands environment variable
// placeholders in the YAML file (${VAR_NAME})
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := viper.New()
	v.SetConfigType("yaml")
	bindEnv(v)
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("GAMELINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gameline")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("sources.sports", []string{"nfl", "nba"})

	v.SetDefault("gateway.relay_url", "https://localhost/api/relay")
	v.SetDefault("gateway.upstream_hosts", []string{
		"site.api.espn.com",
		"api.sportsdata.io",
	})
	v.SetDefault("gateway.timeout_seconds", 10)
	v.SetDefault("gateway.max_retries", 2)
	v.SetDefault("gateway.rate_limit", 5.0)
	v.SetDefault("gateway.circuit_breaker_max", 5)

	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.max_size", 64)
	v.SetDefault("cache.window_minutes", 60)

	v.SetDefault("prediction.confidence_scale", 0.45)
	v.SetDefault("prediction.confidence_max", 0.95)
	v.SetDefault("prediction.spread_scale", 14.0)
	v.SetDefault("prediction.baseline_totals", map[string]float64{
		"nfl": 45.5,
		"nba": 224.5,
	})

	v.SetDefault("ensemble.high_edge_min_confidence", 0.75)

	v.SetDefault("lines.sportsbooks", []string{"DraftKings", "FanDuel", "BetMGM", "Caesars"})
	v.SetDefault("lines.moneyline_ceiling", 1000)

	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.cron_expression", "*/5 * * * *")
	v.SetDefault("refresh.timeout_seconds", 30)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}

// DefaultEstimators returns the stock estimator parameterizations used when
// the config file does not override them. The names mirror the upstream
// product's "neural", "tree" and "blended" model labels; all three are fixed
// heuristics with different tuning constants.
func DefaultEstimators() []EstimatorConfig {
	return []EstimatorConfig{
		{Name: "neural", ConfidenceScale: 0.50, SpreadScale: 15.0, AccuracyPct: 94},
		{Name: "tree", ConfidenceScale: 0.40, SpreadScale: 13.0, AccuracyPct: 91},
		{Name: "blended", ConfidenceScale: 0.45, SpreadScale: 14.0, AccuracyPct: 89},
	}
}

// ApplyEstimatorDefaults fills in the estimator list when the configuration
// omits it; viper cannot default a slice of structs.
func ApplyEstimatorDefaults(cfg *Config) {
	if len(cfg.Ensemble.Estimators) == 0 {
		cfg.Ensemble.Estimators = DefaultEstimators()
	}
	if len(cfg.Sources.Endpoints) == 0 {
		cfg.Sources.Endpoints = []SourceConfig{
			{
				Name:    "espn",
				BaseURL: "https://site.api.espn.com/apis/site/v2/sports",
				Enabled: true,
			},
		}
	}
}
