package config

import (
	"os"
	"strconv"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathConfig     `validate:"required"`
	Analysis  AnalysisConfig `validate:"required"`
	Server    ServerConfig   `validate:"required"`
	Profiling ProfilingConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	ResultsFile string
	OutputDir   string
}

// AnalysisConfig holds statistical analysis settings
type AnalysisConfig struct {
	BootstrapIterations int
	Seed                int64
	ConfidenceLevel     float64
	CorrectionMethod    drift.CorrectionMethod
	Alpha               float64
	MaxFeatures         int
}

// ServerConfig holds report server settings
type ServerConfig struct {
	Port string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths: PathConfig{
			ResultsFile: getEnvOrDefault("RESULTS_FILE", "experiment_results.json"),
			OutputDir:   getEnvOrDefault("OUTPUT_DIR", "analysis_output"),
		},
		Analysis: AnalysisConfig{
			BootstrapIterations: getEnvIntOrDefault("BOOTSTRAP_ITERATIONS", 10000),
			Seed:                int64(getEnvIntOrDefault("RANDOM_SEED", 42)),
			ConfidenceLevel:     getEnvFloatOrDefault("CONFIDENCE_LEVEL", 0.95),
			CorrectionMethod:    drift.CorrectionMethod(getEnvOrDefault("CORRECTION_METHOD", "holm")),
			Alpha:               getEnvFloatOrDefault("ALPHA", 0.05),
			MaxFeatures:         getEnvIntOrDefault("TFIDF_MAX_FEATURES", 1000),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Paths.ResultsFile == "" {
		return errors.ConfigInvalid("results file path is required")
	}
	if config.Paths.OutputDir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if config.Analysis.BootstrapIterations < 1 {
		return errors.ConfigInvalid("bootstrap iterations must be positive")
	}
	if config.Analysis.ConfidenceLevel <= 0 || config.Analysis.ConfidenceLevel >= 1 {
		return errors.ConfigInvalid("confidence level must be in (0,1)")
	}
	if !config.Analysis.CorrectionMethod.Valid() {
		return errors.ConfigInvalid("unknown correction method: " + string(config.Analysis.CorrectionMethod))
	}
	if config.Analysis.Alpha <= 0 || config.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must be in (0,1)")
	}
	if config.Analysis.MaxFeatures < 1 {
		return errors.ConfigInvalid("max features must be positive")
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
