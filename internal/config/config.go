package config

import (
	"math"
	"os"
	"strconv"

	"gofscan/adapters/distributions"
	"gofscan/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Test   TestConfig
	Batch  BatchConfig
	Server ServerConfig
}

// TestConfig holds the defaults applied when a request leaves them out
type TestConfig struct {
	MinExpected float64
	ScanWindow  float64
	Reference   string
}

// BatchConfig holds settings for evaluating many samples at once
type BatchConfig struct {
	Workers    int
	SampleFile string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Test:   *loadTestConfig(),
		Batch:  *loadBatchConfig(),
		Server: *loadServerConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadTestConfig() *TestConfig {
	return &TestConfig{
		MinExpected: getEnvFloatOrDefault("GOF_MIN_EXPECTED", 5.0),
		ScanWindow:  getEnvFloatOrDefault("GOF_SCAN_WINDOW", 0.1),
		Reference:   getEnvOrDefault("GOF_REFERENCE", "uniform:0,1"),
	}
}

func loadBatchConfig() *BatchConfig {
	return &BatchConfig{
		Workers:    getEnvIntOrDefault("GOF_WORKERS", 4),
		SampleFile: getEnvOrDefault("GOF_SAMPLE_FILE", ""),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func validateConfig(config *Config) error {
	if !(config.Test.MinExpected > 0) || math.IsInf(config.Test.MinExpected, 1) {
		return errors.ConfigInvalid("GOF_MIN_EXPECTED must be positive")
	}
	if !(config.Test.ScanWindow > 0 && config.Test.ScanWindow < 1) {
		return errors.ConfigInvalid("GOF_SCAN_WINDOW must lie in (0,1)")
	}
	if config.Batch.Workers < 1 {
		return errors.ConfigInvalid("GOF_WORKERS must be at least 1")
	}
	if _, err := distributions.Parse(config.Test.Reference); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
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
