// Package util holds small environment parsing helpers used by the
// composition root.
package util

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ParseBoolEnv reads a boolean environment variable, falling back to
// defaultValue when the variable is unset or unrecognizable. Recognized
// values (case-insensitive): true/1/yes/on and false/0/no/off.
func ParseBoolEnv(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		slog.Warn("ParseBoolEnv: invalid boolean value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}
}

// ParseHourEnv reads an hour-of-day (0-23) environment variable, falling
// back to defaultValue when the variable is unset, non-numeric, or out of
// range. Used for the daily reminder hour.
func ParseHourEnv(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	hour, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || hour < 0 || hour > 23 {
		slog.Warn("ParseHourEnv: invalid hour value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}
	return hour
}
