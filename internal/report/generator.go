package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"ping-monitor/internal/events"
	"ping-monitor/internal/models"
)

// Generator creates static images and text reports from stored probe events
type Generator struct {
	db  models.Store
	now func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(db models.Store) *Generator {
	return &Generator{db: db, now: time.Now}
}

// hostEvents is one host's events replayed into an aggregate
type hostEvents struct {
	host   string
	events *events.Events
}

// GenerateReport creates a timestamped report directory with charts and a
// text summary, and returns its path.
func (g *Generator) GenerateReport(outputDir string, hours int) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := g.now().Format("2006-01-02_15-04-05")
	reportDir := filepath.Join(outputDir, fmt.Sprintf("ping_report_%s", timestamp))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	hosts, err := g.loadHosts(hours)
	if err != nil {
		return "", fmt.Errorf("failed to load events: %w", err)
	}

	for _, h := range hosts {
		if err := generateLatencyChart(reportDir, h); err != nil {
			log.WithField("host", h.host).Warnf("Failed to generate latency chart: %v", err)
		}
	}

	if err := g.generateTextReport(reportDir, hours, hosts); err != nil {
		return "", fmt.Errorf("failed to generate text report: %w", err)
	}

	log.Infof("Report generated in: %s", reportDir)
	return reportDir, nil
}

// loadHosts groups stored events by host in chronological order
func (g *Generator) loadHosts(hours int) ([]hostEvents, error) {
	all, err := g.db.GetEvents(hours)
	if err != nil {
		return nil, err
	}

	byHost := make(map[string]*events.Events)
	for _, e := range all {
		agg, ok := byHost[e.Host]
		if !ok {
			agg = events.New()
			byHost[e.Host] = agg
		}
		agg.Append(e)
	}

	hosts := make([]hostEvents, 0, len(byHost))
	for host, agg := range byHost {
		hosts = append(hosts, hostEvents{host: host, events: agg})
	}
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].host < hosts[j].host })

	return hosts, nil
}
