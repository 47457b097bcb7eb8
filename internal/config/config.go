package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all configuration for the ping monitor
type Config struct {
	Targets       []string
	Interval      time.Duration
	Timeout       time.Duration
	DatabasePath  string
	Port          int
	ReportDir     string
	ReportHours   int
	LogLevel      string
	LogFormat     string
	StatsCacheTTL time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target must be specified")
	}
	for _, target := range c.Targets {
		if strings.TrimSpace(target) == "" {
			return fmt.Errorf("targets must not be empty")
		}
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.ReportHours <= 0 {
		return fmt.Errorf("report hours must be positive")
	}
	if c.StatsCacheTTL < 0 {
		return fmt.Errorf("stats cache TTL cannot be negative")
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
