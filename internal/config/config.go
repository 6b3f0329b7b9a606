package config

import (
	"os"
	"strconv"
	"strings"

	"phonolab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Validation ValidationConfig
	Simulation SimulationConfig
	Weights    WeightConfig
}

// ServerConfig holds the JSON service settings
type ServerConfig struct {
	Port string
}

// ValidationConfig holds validation harness defaults
type ValidationConfig struct {
	SplitRatio float64
	CVFolds    int
	Explainer  string // "permutation" or "magnitude"
}

// SimulationConfig holds Monte Carlo engine defaults
type SimulationConfig struct {
	Trials          int
	DispersionFloor float64
}

// WeightConfig holds the role-to-weight lookup for key-member influence
type WeightConfig struct {
	Roles   map[string]float64
	Default float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Validation: ValidationConfig{
			SplitRatio: getEnvFloatOrDefault("SPLIT_RATIO", 0.8),
			CVFolds:    getEnvIntOrDefault("CV_FOLDS", 5),
			Explainer:  getEnvOrDefault("EXPLAINER", "magnitude"),
		},
		Simulation: SimulationConfig{
			Trials:          getEnvIntOrDefault("SIM_TRIALS", 10000),
			DispersionFloor: getEnvFloatOrDefault("DISPERSION_FLOOR", 1.0),
		},
		Weights: WeightConfig{
			Roles:   parseRoleWeights(os.Getenv("ROLE_WEIGHTS")),
			Default: getEnvFloatOrDefault("DEFAULT_ROLE_WEIGHT", 1.0),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Validation.SplitRatio <= 0 || cfg.Validation.SplitRatio >= 1 {
		return errors.ConfigInvalid("SPLIT_RATIO must be in (0,1)")
	}
	if cfg.Validation.CVFolds < 2 {
		return errors.ConfigInvalid("CV_FOLDS must be >= 2")
	}
	if cfg.Validation.Explainer != "magnitude" && cfg.Validation.Explainer != "permutation" {
		return errors.ConfigInvalid("EXPLAINER must be magnitude or permutation")
	}
	if cfg.Simulation.Trials < 1 {
		return errors.ConfigInvalid("SIM_TRIALS must be >= 1")
	}
	if cfg.Simulation.DispersionFloor <= 0 {
		return errors.ConfigInvalid("DISPERSION_FLOOR must be > 0")
	}
	return nil
}

// parseRoleWeights parses "quarterback=3.0,kicker=0.5" style lookups
func parseRoleWeights(raw string) map[string]float64 {
	weights := map[string]float64{}
	if raw == "" {
		return weights
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if w, err := strconv.ParseFloat(parts[1], 64); err == nil {
			weights[parts[0]] = w
		}
	}
	return weights
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
