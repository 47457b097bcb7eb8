package models

import (
	"context"
	"time"
)

// Store defines operations for probe event persistence
type Store interface {
	SaveEvent(event Event) error
	SaveEvents(events []Event) error
	GetRecent(hours int) ([]Event, error)
	GetEvents(hours int) ([]Event, error)
	GetHostEvents(host string, hours int) ([]Event, error)
	GetStats(hours int) ([]Stats, error)
	GetOutages(days int) ([]Outage, error)
	GetHeatmapData(days int) ([]HeatmapPoint, error)
	AggregateHourlyPatterns() error
	ArchiveOldData() error
	Close() error
}

// Prober defines single-attempt probe execution
type Prober interface {
	Probe(ctx context.Context, host string, timeout time.Duration) Event
}

// SummaryProvider exposes the live per-host aggregates
type SummaryProvider interface {
	Summaries() []Summary
}
