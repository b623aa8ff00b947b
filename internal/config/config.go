// Package config loads service configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultAddr        = ":8080"
	DefaultModel       = "gemini:gemini-1.5-pro"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 4096
	DefaultMaxUploadMB = 10
)

// Config holds all service configuration.
type Config struct {
	Addr        string // listen address
	Model       string // provider:model string; empty is defaulted by the caller
	Temperature float64
	MaxTokens   int
	MaxUploadMB int
	Redact      bool
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Addr:        getEnv("CLAUSECRITIC_ADDR", DefaultAddr),
		Model:       getEnv("CLAUSECRITIC_MODEL", ""),
		Temperature: getEnvAsFloat("CLAUSECRITIC_TEMPERATURE", DefaultTemperature),
		MaxTokens:   getEnvAsInt("CLAUSECRITIC_MAX_TOKENS", DefaultMaxTokens),
		MaxUploadMB: getEnvAsInt("CLAUSECRITIC_MAX_UPLOAD_MB", DefaultMaxUploadMB),
		Redact:      getEnvAsBool("CLAUSECRITIC_REDACT", true),
	}
}

// Validate returns an error if any setting is out of range.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got %g", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be > 0, got %d", c.MaxTokens)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be > 0 MiB, got %d", c.MaxUploadMB)
	}
	return nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
