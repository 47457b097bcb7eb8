package monitor

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// maintenanceWorker runs periodic maintenance tasks
func (m *Monitor) maintenanceWorker() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	// Run immediately on start
	m.performMaintenance()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.performMaintenance()
		}
	}
}

// performMaintenance runs maintenance tasks
func (m *Monitor) performMaintenance() {
	log.Debug("Running maintenance tasks...")

	if err := m.db.AggregateHourlyPatterns(); err != nil {
		log.Errorf("Failed to aggregate hourly patterns: %v", err)
	}

	// Raw events are kept for 7 days, aggregates for 90
	if err := m.db.ArchiveOldData(); err != nil {
		log.Errorf("Failed to archive old data: %v", err)
	}

	log.Debug("Maintenance complete")
}
