package database

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with additional methods
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	// Enable WAL mode for better concurrent access
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL"} {
		if _, err := db.Exec(pragma); err != nil {
			log.WithField("pragma", pragma).Warnf("Failed to set pragma: %v", err)
		}
	}

	return &DB{db}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS probe_events (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp DATETIME NOT NULL,
        host TEXT NOT NULL,
        success BOOLEAN NOT NULL,
        has_rtt BOOLEAN NOT NULL DEFAULT 0,
        rtt_min_ms REAL,
        rtt_avg_ms REAL,
        rtt_max_ms REAL,
        rtt_stddev_ms REAL,
        error_message TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_timestamp ON probe_events(timestamp);
    CREATE INDEX IF NOT EXISTS idx_host_timestamp ON probe_events(host, timestamp);

    CREATE TABLE IF NOT EXISTS hourly_stats (
        hour DATETIME NOT NULL,
        host TEXT NOT NULL,
        total_probes INTEGER,
        successful_probes INTEGER,
        avg_rtt_ms REAL,
        max_rtt_ms REAL,
        min_rtt_ms REAL,
        avg_stddev_ms REAL,
        packet_loss_percent REAL,
        PRIMARY KEY (hour, host)
    );

    -- Aggregated by hour of day for the heatmap
    CREATE TABLE IF NOT EXISTS hourly_patterns (
        date DATE NOT NULL,
        hour INTEGER NOT NULL, -- 0-23
        host TEXT NOT NULL,
        total_probes INTEGER,
        failed_probes INTEGER,
        avg_rtt_ms REAL,
        max_rtt_ms REAL,
        failure_rate REAL,
        PRIMARY KEY (date, hour, host)
    );

    CREATE INDEX IF NOT EXISTS idx_hourly_patterns ON hourly_patterns(hour, host);
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}
