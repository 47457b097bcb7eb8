package monitor

import (
	"context"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"ping-monitor/internal/config"
	"ping-monitor/internal/events"
	"ping-monitor/internal/metrics"
	"ping-monitor/internal/models"
)

// Monitor coordinates probe workers and owns the per-host aggregates
type Monitor struct {
	config  config.Config
	db      models.Store
	prober  models.Prober
	metrics *metrics.Metrics
	results chan models.Event
	wg      sync.WaitGroup
	probers sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	// events are not safe for concurrent use; mu guards every access
	mu     sync.RWMutex
	events map[string]*events.Events
}

// New creates a new Monitor. m may be nil to disable metrics.
func New(cfg config.Config, db models.Store, prober models.Prober, m *metrics.Metrics) *Monitor {
	agg := make(map[string]*events.Events, len(cfg.Targets))
	for _, target := range cfg.Targets {
		agg[target] = events.New()
	}

	return &Monitor{
		config:  cfg,
		db:      db,
		prober:  prober,
		metrics: m,
		results: make(chan models.Event, 100),
		events:  agg,
	}
}

// Start begins the monitoring process
func (m *Monitor) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	log.Infof("Starting monitor with %d targets", len(m.config.Targets))

	m.wg.Add(1)
	go m.processResults()

	for _, target := range m.config.Targets {
		m.probers.Add(1)
		go m.probeWorker(target)
	}

	// results is closed only once no worker can send to it
	go func() {
		m.probers.Wait()
		close(m.results)
	}()

	m.wg.Add(1)
	go m.maintenanceWorker()

	log.Infof("Monitor started. Probing %v every %v", m.config.Targets, m.config.Interval)
	return nil
}

// Stop gracefully stops the monitor
func (m *Monitor) Stop() error {
	log.Info("Stopping monitor...")
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

// Wait blocks until all goroutines finish
func (m *Monitor) Wait() {
	m.wg.Wait()
	log.Info("Monitor stopped")
}

// Record appends event to its host aggregate and updates metrics
func (m *Monitor) Record(event models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	agg, ok := m.events[event.Host]
	if !ok {
		agg = events.New()
		m.events[event.Host] = agg
	}
	agg.Append(event)

	if m.metrics != nil {
		m.metrics.Observe(event, agg)
	}
}

// Summaries returns a snapshot of every host aggregate, sorted by host
func (m *Monitor) Summaries() []models.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]models.Summary, 0, len(m.events))
	for host, agg := range m.events {
		summaries = append(summaries, agg.Summary(host))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Host < summaries[j].Host
	})
	return summaries
}

// Summary renders one host's aggregate as text
func (m *Monitor) Summary(host string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	agg, ok := m.events[host]
	if !ok {
		return "", false
	}
	return agg.String(), true
}
