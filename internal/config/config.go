package config

import (
	"os"
	"strconv"

	"gevfit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input  InputConfig
	Output OutputConfig
	Fit    FitConfig
}

// InputConfig holds dataset source settings
type InputConfig struct {
	File string // CSV or XLSX file with treatment and germination time columns
}

// OutputConfig holds artifact destinations
type OutputConfig struct {
	Dir        string
	HTMLReport bool
	FigureFile string
}

// FitConfig holds optimizer settings shared by all model fits
type FitConfig struct {
	MaxIterations int
	Tolerance     float64
	HistogramBins int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Input: InputConfig{
			File: getEnvOrDefault("INPUT_FILE", ""),
		},
		Output: OutputConfig{
			Dir:        getEnvOrDefault("OUTPUT_DIR", "."),
			HTMLReport: getEnvBoolOrDefault("HTML_REPORT", false),
			FigureFile: getEnvOrDefault("FIGURE_FILE", "germination_fit.png"),
		},
		Fit: FitConfig{
			MaxIterations: getEnvIntOrDefault("FIT_MAX_ITERATIONS", 3000),
			Tolerance:     getEnvFloatOrDefault("FIT_TOLERANCE", 1e-8),
			HistogramBins: getEnvIntOrDefault("HISTOGRAM_BINS", 16),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Fit.MaxIterations <= 0 {
		return errors.ConfigInvalid("FIT_MAX_ITERATIONS must be positive")
	}
	if config.Fit.Tolerance <= 0 {
		return errors.ConfigInvalid("FIT_TOLERANCE must be positive")
	}
	if config.Fit.HistogramBins < 2 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be at least 2")
	}
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR must not be empty")
	}
	return nil
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
