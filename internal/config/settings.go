// Package config resolves scanner configuration: CLI-facing settings with
// environment overrides, and the per-project config file with thresholds.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"log/slog"
)

// Settings holds invocation-level configuration for a scan run.
type Settings struct {
	// Output settings
	JSON    bool // summary-only machine-readable output
	Summary bool // suppress per-finding sections in text output

	// Scan behavior
	ExcludePatterns []string
	Duplicates      bool   // opt-in duplicate detection
	Threshold       string // minimum severity, empty when unset
	Fix             bool   // run best-effort fixers after reporting
	ConfigFile      string // explicit project config path, empty = <root>/.debt-scanner.yml

	// Logging
	LogLevel  slog.Level
	LogFormat string // "text" or "json"
	LogFile   string // Optional: write logs to file instead of stderr
}

// DefaultSettings returns default configuration.
func DefaultSettings() *Settings {
	return &Settings{
		JSON:            false,
		Summary:         false,
		ExcludePatterns: []string{},
		Duplicates:      false,
		Threshold:       "",
		Fix:             false,
		ConfigFile:      "",
		LogLevel:        slog.LevelError, // only errors by default
		LogFormat:       "text",
		LogFile:         "",
	}
}

// LoadSettings creates settings from defaults and applies environment
// variable overrides.
func LoadSettings() *Settings {
	settings := DefaultSettings()

	if excludePatterns := os.Getenv("DEBT_SCANNER_EXCLUDE"); excludePatterns != "" {
		settings.ExcludePatterns = strings.Split(excludePatterns, ",")
		for i, pattern := range settings.ExcludePatterns {
			settings.ExcludePatterns[i] = strings.TrimSpace(pattern)
		}
	}

	if threshold := os.Getenv("DEBT_SCANNER_THRESHOLD"); threshold != "" {
		settings.Threshold = threshold
	}

	if duplicates := os.Getenv("DEBT_SCANNER_DUPLICATES"); duplicates != "" {
		settings.Duplicates = strings.ToLower(duplicates) == "true"
	}

	if configFile := os.Getenv("DEBT_SCANNER_CONFIG"); configFile != "" {
		settings.ConfigFile = configFile
	}

	// Logging settings
	if logLevel := os.Getenv("DEBT_SCANNER_LOG_LEVEL"); logLevel != "" {
		if level, err := ParseLogLevel(logLevel); err == nil {
			settings.LogLevel = level
		}
	}

	if logFormat := os.Getenv("DEBT_SCANNER_LOG_FORMAT"); logFormat != "" {
		settings.LogFormat = logFormat
	}

	if logFile := os.Getenv("DEBT_SCANNER_LOG_FILE"); logFile != "" {
		settings.LogFile = logFile
	}

	return settings
}

// ParseLogLevel converts string log level to slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// ConfigureLogger sets up a logger based on settings.
func (s *Settings) ConfigureLogger() *slog.Logger {
	var handler slog.Handler

	var output io.Writer = os.Stderr
	if s.LogFile != "" {
		file, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Cannot open log file %s: %v\n", s.LogFile, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	opts := &slog.HandlerOptions{
		Level: s.LogLevel,
	}

	if s.LogFormat == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
