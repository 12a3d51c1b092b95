// Package config provides fail-open environment loading helpers shared by
// the service binaries. Invalid values never abort startup: the loader falls
// back to the caller's default and reports a warning instead.
package config

import (
	"fmt"
	"os"
	"time"
)

// LoadResult is the outcome of loading a single configuration value.
// Value holds the effective value, which is the default whenever
// FallbackApplied is true. Warnings describe why a fallback was taken.
type LoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString returns the environment value for envKey, or defaultValue
// when the variable is unset or empty. No validation is applied.
func LoadEnvString(envKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string from envKey and validates it with the
// given validator (nil skips validation). An unset variable silently yields
// the default; a set but invalid one yields the default with a warning.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fallbackResult(envKey, value, defaultValue, err)
		}
	}
	return LoadResult{Value: value}
}

// LoadEnvDuration loads a time.ParseDuration value from envKey, falling back
// to defaultValue on parse or validation failure.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return LoadResult{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallbackResult(envKey, valueStr, defaultValue, err)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallbackResult(envKey, valueStr, defaultValue, err)
		}
	}
	return LoadResult{Value: parsed}
}

// LoadEnvInt loads an integer from envKey, falling back to defaultValue on
// parse or validation failure.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return LoadResult{Value: defaultValue}
	}

	var parsed int
	if _, err := fmt.Sscanf(valueStr, "%d", &parsed); err != nil {
		return fallbackResult(envKey, valueStr, defaultValue, fmt.Errorf("invalid integer format"))
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallbackResult(envKey, valueStr, defaultValue, err)
		}
	}
	return LoadResult{Value: parsed}
}

// LoadEnvBool loads a boolean from envKey. Accepted spellings follow
// strconv.ParseBool ("1", "t", "true", "0", "f", "false" in any case).
func LoadEnvBool(envKey string, defaultValue bool) LoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return LoadResult{Value: defaultValue}
	}

	switch valueStr {
	case "1", "t", "T", "true", "TRUE", "True":
		return LoadResult{Value: true}
	case "0", "f", "F", "false", "FALSE", "False":
		return LoadResult{Value: false}
	default:
		err := fmt.Errorf("invalid boolean format, expected 'true' or 'false'")
		return fallbackResult(envKey, valueStr, defaultValue, err)
	}
}

func fallbackResult(envKey, raw string, defaultValue interface{}, err error) LoadResult {
	warning := fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, defaultValue)
	return LoadResult{
		Value:           defaultValue,
		Warnings:        []string{warning},
		FallbackApplied: true,
	}
}
