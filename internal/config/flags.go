package config

import (
	"strings"
	"time"

	flag "github.com/spf13/pflag"
)

// ParseArgs parses command-line arguments (without the program name) into a Config
func ParseArgs(args []string) (Config, error) {
	fs := flag.NewFlagSet("ping-monitor", flag.ContinueOnError)

	var (
		interval      = fs.Duration("interval", 1*time.Second, "Probe interval per target")
		timeout       = fs.Duration("timeout", 5*time.Second, "Probe timeout")
		dbPath        = fs.String("db", "ping_monitor.db", "Database path")
		port          = fs.IntP("port", "p", 8080, "Web server port")
		targets       = fs.StringSliceP("targets", "t", []string{"8.8.8.8", "1.1.1.1", "208.67.222.222"}, "Comma-separated probe targets")
		reportDir     = fs.String("report-dir", "", "Write a report to this directory and exit")
		reportHours   = fs.Int("report-hours", 24, "Hours of history covered by a report")
		logLevel      = fs.String("log-level", "info", "Log level: debug, info, warn, error")
		logFormat     = fs.String("log-format", "text", "Log format: text or json")
		statsCacheTTL = fs.Duration("stats-cache-ttl", 5*time.Second, "How long /api/stats responses are cached (0 disables)")
	)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var cleaned []string
	for _, target := range *targets {
		if t := strings.TrimSpace(target); t != "" {
			cleaned = append(cleaned, t)
		}
	}

	return Config{
		Targets:       cleaned,
		Interval:      *interval,
		Timeout:       *timeout,
		DatabasePath:  *dbPath,
		Port:          *port,
		ReportDir:     *reportDir,
		ReportHours:   *reportHours,
		LogLevel:      *logLevel,
		LogFormat:     *logFormat,
		StatsCacheTTL: *statsCacheTTL,
	}, nil
}
