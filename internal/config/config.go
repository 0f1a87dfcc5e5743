// Package config provides configuration management for the Gameline pipeline.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Sources    SourcesConfig    `mapstructure:"sources" validate:"required"`
	Gateway    GatewayConfig    `mapstructure:"gateway" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Ensemble   EnsembleConfig   `mapstructure:"ensemble" validate:"required"`
	Lines      LinesConfig      `mapstructure:"lines" validate:"required"`
	Refresh    RefreshConfig    `mapstructure:"refresh" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SourcesConfig represents the configured upstream data sources
type SourcesConfig struct {
	Sports    []string           `mapstructure:"sports" validate:"required,min=1,dive,sport"`
	Endpoints []SourceConfig     `mapstructure:"endpoints" validate:"required,min=1,dive"`
	Stream    StreamSourceConfig `mapstructure:"stream"`
}

// SourceConfig represents a single upstream endpoint configuration
type SourceConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
	Enabled bool   `mapstructure:"enabled"`
}

// StreamSourceConfig represents the optional live score WebSocket source
type StreamSourceConfig struct {
	URL        string `mapstructure:"url" validate:"omitempty,url"`
	Enabled    bool   `mapstructure:"enabled"`
	MaxRetries int    `mapstructure:"max_retries" validate:"omitempty,gte=0"`
}

// GatewayConfig represents the HTTPS-safe fetch gateway configuration
type GatewayConfig struct {
	RelayURL          string   `mapstructure:"relay_url" validate:"required,url"`
	UpstreamHosts     []string `mapstructure:"upstream_hosts" validate:"required,min=1"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int      `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit         float64  `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int      `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// CacheConfig represents the GameSet cache configuration
type CacheConfig struct {
	TTLSeconds    int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize       int `mapstructure:"max_size" validate:"required,gt=0"`
	WindowMinutes int `mapstructure:"window_minutes" validate:"required,gt=0"`
}

// PredictionConfig represents strength engine tuning constants
type PredictionConfig struct {
	ConfidenceScale float64            `mapstructure:"confidence_scale" validate:"required,gt=0"`
	ConfidenceMax   float64            `mapstructure:"confidence_max" validate:"required,gt=0.5,lte=1"`
	SpreadScale     float64            `mapstructure:"spread_scale" validate:"required,gt=0"`
	BaselineTotals  map[string]float64 `mapstructure:"baseline_totals" validate:"required,min=1"`
}

// EnsembleConfig represents estimator parameterizations for the ensemble
type EnsembleConfig struct {
	Estimators            []EstimatorConfig `mapstructure:"estimators" validate:"required,min=2,max=3,dive"`
	HighEdgeMinConfidence float64           `mapstructure:"high_edge_min_confidence" validate:"required,gt=0.5,lte=1"`
}

// EstimatorConfig parameterizes one heuristic estimator
type EstimatorConfig struct {
	Name            string  `mapstructure:"name" validate:"required"`
	ConfidenceScale float64 `mapstructure:"confidence_scale" validate:"required,gt=0"`
	SpreadScale     float64 `mapstructure:"spread_scale" validate:"required,gt=0"`
	AccuracyPct     float64 `mapstructure:"accuracy_pct" validate:"required,gte=89,lte=94"`
}

// LinesConfig represents betting line formatting configuration
type LinesConfig struct {
	Sportsbooks      []string `mapstructure:"sportsbooks" validate:"required,min=1"`
	MoneylineCeiling int      `mapstructure:"moneyline_ceiling" validate:"required,gt=100"`
}

// RefreshConfig represents the background cache refresh schedule
type RefreshConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	CronExpression string `mapstructure:"cron_expression" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GatewayTimeout returns the fetch gateway timeout as a duration
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.Gateway.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache entry time-to-live as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// CacheWindow returns the date-window granularity used in cache keys
func (c *Config) CacheWindow() time.Duration {
	return time.Duration(c.Cache.WindowMinutes) * time.Minute
}
