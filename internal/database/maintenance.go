package database

import (
	"fmt"
	"time"
)

// AggregateHourlyPatterns aggregates hourly patterns for heatmap
func (db *DB) AggregateHourlyPatterns() error {
	query := `
        INSERT OR REPLACE INTO hourly_patterns (date, hour, host, total_probes, failed_probes, avg_rtt_ms, max_rtt_ms, failure_rate)
        SELECT
            strftime('%Y-%m-%d', timestamp) as date,
            CAST(strftime('%H', timestamp) AS INTEGER) as hour,
            host,
            COUNT(*) as total_probes,
            SUM(CASE WHEN NOT success THEN 1 ELSE 0 END) as failed_probes,
            AVG(CASE WHEN success THEN rtt_avg_ms ELSE NULL END) as avg_rtt_ms,
            MAX(CASE WHEN success THEN rtt_max_ms ELSE NULL END) as max_rtt_ms,
            ROUND((SUM(CASE WHEN NOT success THEN 1 ELSE 0 END) * 100.0 / COUNT(*)), 2) as failure_rate
        FROM probe_events
        WHERE timestamp > datetime('now', '-2 days')
        AND strftime('%Y-%m-%d', timestamp) IS NOT NULL
        GROUP BY date, hour, host
    `
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("hourly pattern aggregation failed: %w", err)
	}
	return nil
}

// ArchiveOldData archives old data and cleans up
func (db *DB) ArchiveOldData() error {
	// Capture hourly stats before raw events are dropped
	archiveQuery := `
        INSERT OR IGNORE INTO hourly_stats (hour, host, total_probes, successful_probes, avg_rtt_ms, max_rtt_ms, min_rtt_ms, avg_stddev_ms, packet_loss_percent)
        SELECT
            strftime('%Y-%m-%d %H:00:00', timestamp) as hour,
            host,
            COUNT(*) as total_probes,
            SUM(CASE WHEN success THEN 1 ELSE 0 END) as successful_probes,
            AVG(CASE WHEN success THEN rtt_avg_ms ELSE NULL END) as avg_rtt_ms,
            MAX(CASE WHEN success THEN rtt_max_ms ELSE NULL END) as max_rtt_ms,
            MIN(CASE WHEN success THEN rtt_min_ms ELSE NULL END) as min_rtt_ms,
            AVG(CASE WHEN success THEN rtt_stddev_ms ELSE NULL END) as avg_stddev_ms,
            ROUND((1.0 - (CAST(SUM(CASE WHEN success THEN 1 ELSE 0 END) AS REAL) / COUNT(*))) * 100, 2) as packet_loss_percent
        FROM probe_events
        WHERE timestamp < datetime('now', '-7 days')
        AND timestamp > datetime('now', '-90 days')
        GROUP BY hour, host
    `

	if _, err := db.Exec(archiveQuery); err != nil {
		return fmt.Errorf("hourly stats archive failed: %w", err)
	}

	// Raw events are kept for 7 days, aggregates for 90
	if _, err := db.Exec(`DELETE FROM probe_events WHERE timestamp < datetime('now', '-7 days')`); err != nil {
		return fmt.Errorf("event cleanup failed: %w", err)
	}

	if _, err := db.Exec(`DELETE FROM hourly_patterns WHERE date < date('now', '-90 days')`); err != nil {
		return fmt.Errorf("pattern cleanup failed: %w", err)
	}

	// Reclaim space on the first day of the month
	if time.Now().Day() == 1 {
		if _, err := db.Exec("VACUUM"); err != nil {
			return fmt.Errorf("vacuum failed: %w", err)
		}
	}

	return nil
}
