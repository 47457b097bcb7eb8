package monitor

import (
	"time"

	log "github.com/sirupsen/logrus"

	"ping-monitor/internal/models"
)

// probeWorker continuously probes a target at the configured interval
func (m *Monitor) probeWorker(target string) {
	defer m.probers.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	// Immediate first probe
	m.performProbe(target)

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.performProbe(target)
		}
	}
}

// performProbe executes a single probe, records it, and queues it for storage
func (m *Monitor) performProbe(target string) {
	event := m.prober.Probe(m.ctx, target, m.config.Timeout)

	// Shutdown interrupts in-flight probes; those are not real outcomes
	if m.ctx.Err() != nil {
		return
	}

	m.Record(event)

	if !event.Success {
		log.WithField("host", target).Warnf("Probe failed: %s", event.ErrorMessage)
	}

	select {
	case m.results <- event:
	default:
		log.WithField("host", target).Warn("Result channel full, dropping event")
	}
}

// processResults saves probe events until every probe worker has exited
func (m *Monitor) processResults() {
	defer m.wg.Done()

	for event := range m.results {
		m.save(event)
	}
}

func (m *Monitor) save(event models.Event) {
	if err := m.db.SaveEvent(event); err != nil {
		log.WithField("host", event.Host).Errorf("Failed to save event: %v", err)
	}
}
