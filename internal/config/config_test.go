package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg, _ := LoadWithDefaults(filepath.Join(os.TempDir(), "does-not-exist.yaml"))
	ApplyEstimatorDefaults(cfg)
	return cfg
}

// TestLoadWithDefaults tests that a missing config file yields the full
// default configuration
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gameline", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, []string{"nfl", "nba"}, cfg.Sources.Sports)
	assert.Equal(t, 10, cfg.Gateway.TimeoutSeconds)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, 0.45, cfg.Prediction.ConfidenceScale)
	assert.Equal(t, 0.95, cfg.Prediction.ConfidenceMax)
	assert.Equal(t, 14.0, cfg.Prediction.SpreadScale)
	assert.Equal(t, 45.5, cfg.Prediction.BaselineTotals["nfl"])
	assert.Equal(t, 224.5, cfg.Prediction.BaselineTotals["nba"])
	assert.Equal(t, 0.75, cfg.Ensemble.HighEdgeMinConfidence)
	assert.Equal(t, 1000, cfg.Lines.MoneylineCeiling)
	assert.Equal(t, "*/5 * * * *", cfg.Refresh.CronExpression)
	assert.True(t, cfg.IsDevelopment())
}

// TestLoadFromFile tests loading an explicit YAML file with env expansion
func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_RELAY_HOST", "relay.example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  name: gameline
  environment: staging
  log_level: debug
gateway:
  relay_url: https://${TEST_RELAY_HOST}/api/relay
sources:
  sports: ["nba"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "https://relay.example.com/api/relay", cfg.Gateway.RelayURL)
	assert.Equal(t, []string{"nba"}, cfg.Sources.Sports)
	// Untouched sections keep their defaults
	assert.Equal(t, 10, cfg.Gateway.TimeoutSeconds)
}

// TestLoadMissingFileStrict tests that the strict loader refuses a missing
// file
func TestLoadMissingFileStrict(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestApplyEstimatorDefaults tests slice-of-struct defaulting
func TestApplyEstimatorDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyEstimatorDefaults(cfg)

	require.Len(t, cfg.Ensemble.Estimators, 3)
	assert.Equal(t, "neural", cfg.Ensemble.Estimators[0].Name)
	assert.Equal(t, 94.0, cfg.Ensemble.Estimators[0].AccuracyPct)
	require.Len(t, cfg.Sources.Endpoints, 1)
	assert.Equal(t, "espn", cfg.Sources.Endpoints[0].Name)
	assert.True(t, cfg.Sources.Endpoints[0].Enabled)
}

// TestValidateDefaults tests that the default configuration validates clean
func TestValidateDefaults(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

// TestValidateRejections tests representative invalid configurations
func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.App.Environment = "testing" }},
		{"bad log level", func(c *Config) { c.App.LogLevel = "trace" }},
		{"bad sport", func(c *Config) { c.Sources.Sports = []string{"cricket"} }},
		{"insecure relay", func(c *Config) { c.Gateway.RelayURL = "http://relay.example.com/api" }},
		{"zero timeout", func(c *Config) { c.Gateway.TimeoutSeconds = 0 }},
		{"missing baseline", func(c *Config) { delete(c.Prediction.BaselineTotals, "nba") }},
		{"confidence max too low", func(c *Config) { c.Prediction.ConfidenceMax = 0.4 }},
		{"one estimator", func(c *Config) { c.Ensemble.Estimators = c.Ensemble.Estimators[:1] }},
		{"duplicate accuracies", func(c *Config) {
			c.Ensemble.Estimators[1].AccuracyPct = c.Ensemble.Estimators[0].AccuracyPct
		}},
		{"moneyline ceiling too low", func(c *Config) { c.Lines.MoneylineCeiling = 100 }},
		{"production without sources", func(c *Config) {
			c.App.Environment = "production"
			for i := range c.Sources.Endpoints {
				c.Sources.Endpoints[i].Enabled = false
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

// TestSecretsOverlay tests API key overlay onto matching source endpoints
func TestSecretsOverlay(t *testing.T) {
	cfg := validConfig()
	require.NotEmpty(t, cfg.Sources.Endpoints)

	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		SourceAPIKeys: map[string]string{
			"espn":    "key-123",
			"unknown": "ignored",
		},
	})

	assert.Equal(t, "key-123", cfg.Sources.Endpoints[0].APIKey)
}

// TestDurationHelpers tests the duration conversion helpers
func TestDurationHelpers(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "10s", cfg.GatewayTimeout().String())
	assert.Equal(t, "5m0s", cfg.CacheTTL().String())
	assert.Equal(t, "1h0m0s", cfg.CacheWindow().String())
}
