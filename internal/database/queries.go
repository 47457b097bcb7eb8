package database

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"ping-monitor/internal/models"
)

// Timestamps are stored as UTC text so that comparisons against
// SQLite's datetime('now', ...) are plain string comparisons.
const timestampLayout = "2006-01-02 15:04:05.000"

const eventColumns = `timestamp, host, success, has_rtt, rtt_min_ms, rtt_avg_ms, rtt_max_ms, rtt_stddev_ms, error_message`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// SaveEvent saves a probe event to the database
func (db *DB) SaveEvent(event models.Event) error {
	return saveEvent(db, event)
}

// SaveEvents saves a batch of probe events in one transaction
func (db *DB) SaveEvents(events []models.Event) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	for _, event := range events {
		if err := saveEvent(tx, event); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func saveEvent(db execer, event models.Event) error {
	query := `
        INSERT INTO probe_events (` + eventColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	var minRTT, avgRTT, maxRTT, stddevRTT sql.NullFloat64
	hasRTT := event.Success && event.RoundTripStatistics != nil
	if hasRTT {
		s := event.RoundTripStatistics
		minRTT = nullFloat(s.Min)
		avgRTT = nullFloat(s.Average)
		maxRTT = nullFloat(s.Max)
		stddevRTT = nullFloat(s.StandardDeviation)
	}

	var errMsg sql.NullString
	if event.ErrorMessage != "" {
		errMsg = sql.NullString{String: event.ErrorMessage, Valid: true}
	}

	_, err := db.Exec(query,
		event.Timestamp.UTC().Format(timestampLayout),
		event.Host,
		event.Success,
		hasRTT,
		minRTT,
		avgRTT,
		maxRTT,
		stddevRTT,
		errMsg,
	)
	if err != nil {
		return fmt.Errorf("save event for %s: %w", event.Host, err)
	}
	return nil
}

// GetRecent retrieves recent probe events, newest first, capped at 10000 rows
func (db *DB) GetRecent(hours int) ([]models.Event, error) {
	query := `
        SELECT ` + eventColumns + `
        FROM probe_events
        WHERE timestamp > datetime('now', '-' || ? || ' hours')
        ORDER BY timestamp DESC
        LIMIT 10000
    `

	rows, err := db.Query(query, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetEvents retrieves every probe event in the window in chronological order
func (db *DB) GetEvents(hours int) ([]models.Event, error) {
	query := `
        SELECT ` + eventColumns + `
        FROM probe_events
        WHERE timestamp > datetime('now', '-' || ? || ' hours')
        ORDER BY timestamp, id
    `

	rows, err := db.Query(query, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetHostEvents retrieves a host's probe events in chronological order
func (db *DB) GetHostEvents(host string, hours int) ([]models.Event, error) {
	query := `
        SELECT ` + eventColumns + `
        FROM probe_events
        WHERE host = ?
        AND timestamp > datetime('now', '-' || ? || ' hours')
        ORDER BY timestamp, id
    `

	rows, err := db.Query(query, host, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetStats retrieves aggregated statistics per host
func (db *DB) GetStats(hours int) ([]models.Stats, error) {
	query := `
        SELECT
            host,
            COUNT(*) as total_probes,
            SUM(CASE WHEN success THEN 1 ELSE 0 END) as successful_probes,
            AVG(CASE WHEN success THEN rtt_avg_ms ELSE NULL END) as avg_rtt,
            MAX(CASE WHEN success THEN rtt_max_ms ELSE NULL END) as max_rtt,
            MIN(CASE WHEN success THEN rtt_min_ms ELSE NULL END) as min_rtt,
            AVG(CASE WHEN success THEN rtt_stddev_ms ELSE NULL END) as avg_stddev,
            ROUND((1.0 - (CAST(SUM(CASE WHEN success THEN 1 ELSE 0 END) AS REAL) / COUNT(*))) * 100, 2) as packet_loss
        FROM probe_events
        WHERE timestamp > datetime('now', '-' || ? || ' hours')
        GROUP BY host
        ORDER BY host
    `

	rows, err := db.Query(query, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.Stats
	for rows.Next() {
		var s models.Stats
		var avgRTT, maxRTT, minRTT, avgStdDev sql.NullFloat64
		err := rows.Scan(&s.Host, &s.TotalProbes, &s.Successful,
			&avgRTT, &maxRTT, &minRTT, &avgStdDev, &s.PacketLoss)
		if err != nil {
			log.Warnf("Skipping stats row: %v", err)
			continue
		}
		s.AvgRTT = avgRTT.Float64
		s.MaxRTT = maxRTT.Float64
		s.MinRTT = minRTT.Float64
		s.AvgStdDevRTT = avgStdDev.Float64
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetOutages retrieves detected outages using sliding window approach
func (db *DB) GetOutages(days int) ([]models.Outage, error) {
	query := `
        WITH windowed_probes AS (
            SELECT
                host,
                timestamp,
                success,
                COUNT(*) OVER (
                    PARTITION BY host
                    ORDER BY timestamp
                    ROWS 9 PRECEDING
                ) as window_size,
                SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) OVER (
                    PARTITION BY host
                    ORDER BY timestamp
                    ROWS 9 PRECEDING
                ) as failure_count
            FROM probe_events
            WHERE timestamp > datetime('now', '-' || ? || ' days')
        ),
        outage_periods AS (
            SELECT
                host,
                timestamp,
                success,
                CASE WHEN failure_count >= 5 AND window_size = 10 THEN 1 ELSE 0 END as is_outage,
                ROW_NUMBER() OVER (PARTITION BY host ORDER BY timestamp) -
                ROW_NUMBER() OVER (PARTITION BY host, CASE WHEN failure_count >= 5 AND window_size = 10 THEN 1 ELSE 0 END ORDER BY timestamp) as outage_grp
            FROM windowed_probes
        )
        SELECT
            host,
            MIN(timestamp) as start_time,
            MAX(timestamp) as end_time,
            COUNT(*) as failed_checks
        FROM outage_periods
        WHERE is_outage = 1
        GROUP BY host, outage_grp
        ORDER BY start_time DESC
        LIMIT 100
    `

	rows, err := db.Query(query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outages []models.Outage
	for rows.Next() {
		var o models.Outage
		var start, end any
		if err := rows.Scan(&o.Host, &start, &end, &o.FailedChecks); err != nil {
			log.Warnf("Skipping outage row: %v", err)
			continue
		}
		if o.StartTime, err = parseTimestamp(start); err != nil {
			log.Warnf("Skipping outage row: %v", err)
			continue
		}
		if o.EndTime, err = parseTimestamp(end); err != nil {
			log.Warnf("Skipping outage row: %v", err)
			continue
		}
		o.Duration = o.EndTime.Sub(o.StartTime).String()
		outages = append(outages, o)
	}

	return outages, rows.Err()
}

// GetHeatmapData retrieves heatmap data
func (db *DB) GetHeatmapData(days int) ([]models.HeatmapPoint, error) {
	query := `
        SELECT
            hour,
            host,
            AVG(failure_rate) as avg_failure_rate,
            AVG(avg_rtt_ms) as avg_latency,
            MAX(max_rtt_ms) as max_latency,
            SUM(failed_probes) as total_failures,
            SUM(total_probes) as total_probes,
            COUNT(DISTINCT date) as days_with_data
        FROM hourly_patterns
        WHERE date > date('now', '-' || ? || ' days')
        GROUP BY hour, host
        ORDER BY hour, host
    `

	rows, err := db.Query(query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heatmapData []models.HeatmapPoint
	for rows.Next() {
		var h models.HeatmapPoint
		var avgLatency, maxLatency sql.NullFloat64
		err := rows.Scan(&h.Hour, &h.Host, &h.FailureRate, &avgLatency,
			&maxLatency, &h.TotalFailures, &h.TotalProbes, &h.DaysWithData)
		if err != nil {
			log.Warnf("Skipping heatmap row: %v", err)
			continue
		}
		if avgLatency.Valid {
			h.AvgLatency = avgLatency.Float64
		}
		if maxLatency.Valid {
			h.MaxLatency = maxLatency.Float64
		}
		heatmapData = append(heatmapData, h)
	}

	return heatmapData, rows.Err()
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		var e models.Event
		var ts any
		var hasRTT bool
		var minRTT, avgRTT, maxRTT, stddevRTT sql.NullFloat64
		var errMsg sql.NullString

		err := rows.Scan(&ts, &e.Host, &e.Success, &hasRTT,
			&minRTT, &avgRTT, &maxRTT, &stddevRTT, &errMsg)
		if err != nil {
			log.Warnf("Skipping event row: %v", err)
			continue
		}
		if e.Timestamp, err = parseTimestamp(ts); err != nil {
			log.Warnf("Skipping event row: %v", err)
			continue
		}
		if errMsg.Valid {
			e.ErrorMessage = errMsg.String
		}
		if e.Success && hasRTT {
			e.RoundTripStatistics = &models.RoundTripStatistics{
				Min:               floatOrNaN(minRTT),
				Max:               floatOrNaN(maxRTT),
				Average:           floatOrNaN(avgRTT),
				StandardDeviation: floatOrNaN(stddevRTT),
			}
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// parseTimestamp accepts whatever the driver hands back for a DATETIME column
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimestampText(t)
	case []byte:
		return parseTimestampText(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}

func parseTimestampText(s string) (time.Time, error) {
	for _, layout := range []string{timestampLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// NaN is stored as NULL
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
