package config

import (
	"fmt"
	"log/slog"
	"strings"
)

var validLogFormats = []string{"auto", "text", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return validateFormat(c.LogFormat)
}

// sanitize resets invalid fields to their defaults and describes each reset.
func (c *Config) sanitize() []string {
	var warnings []string
	if _, err := parseLevel(c.LogLevel); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, using %q", err, DefaultLogLevel))
		c.LogLevel = DefaultLogLevel
	}
	if err := validateFormat(c.LogFormat); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, using %q", err, DefaultLogFormat))
		c.LogFormat = DefaultLogFormat
	}
	return warnings
}

func validateFormat(s string) error {
	for _, f := range validLogFormats {
		if strings.EqualFold(s, f) {
			return nil
		}
	}
	return fmt.Errorf("invalid log_format %q (available: %s)", s, strings.Join(validLogFormats, ", "))
}

// Level returns the effective log level. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q (available: debug, info, warn, error)", s)
	}
	return lvl, nil
}
