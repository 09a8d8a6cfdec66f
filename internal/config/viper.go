// Package config provides configuration helpers for the CLI.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	// Check OS env directly first
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// GetStringDefault returns the Viper or environment value for key,
// falling back to def when neither is set.
func GetStringDefault(key, def string) string {
	if value := GetString(key); value != "" {
		return value
	}
	return def
}
