// Package config provides configuration management for the Gameline pipeline.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("sport", validateSport)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateSport validates a sport identifier
func validateSport(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "nfl", "nba", "mlb", "nhl":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Every configured sport needs a scoring baseline for the total
	for _, sport := range cfg.Sources.Sports {
		if _, ok := cfg.Prediction.BaselineTotals[strings.ToLower(sport)]; !ok {
			return fmt.Errorf("no baseline total configured for sport %q", sport)
		}
	}

	// The relay must itself be a secure endpoint, otherwise rewriting
	// upstream URLs onto it defeats the point
	if !strings.HasPrefix(cfg.Gateway.RelayURL, "https://") {
		return fmt.Errorf("gateway relay_url must use https, got %s", cfg.Gateway.RelayURL)
	}

	if cfg.IsProduction() {
		enabled := 0
		for _, src := range cfg.Sources.Endpoints {
			if src.Enabled {
				enabled++
			}
		}
		if enabled == 0 {
			return fmt.Errorf("production environment requires at least one enabled source endpoint")
		}
	}

	// Display accuracies must be distinct so the ensemble card reads as
	// three separate models
	seen := map[float64]string{}
	for _, est := range cfg.Ensemble.Estimators {
		if other, ok := seen[est.AccuracyPct]; ok {
			return fmt.Errorf("estimators %q and %q share accuracy_pct %.1f", other, est.Name, est.AccuracyPct)
		}
		seen[est.AccuracyPct] = est.Name
	}

	return nil
}

// formatValidationErrors converts validator errors to a readable message
func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", err.Namespace(), err.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
