// Package events aggregates probe outcomes into success and latency summaries.
//
// Events is not safe for concurrent use. Callers that probe several hosts in
// parallel keep one Events per owner or guard it with their own lock.
package events

import (
	"fmt"
	"math"

	"ping-monitor/internal/models"
)

// Events is an append-only, chronologically ordered sequence of probe events
type Events struct {
	events []models.Event
}

// New creates an empty Events
func New() *Events {
	return &Events{}
}

// Append adds event to the end of the sequence
func (e *Events) Append(event models.Event) {
	e.events = append(e.events, event)
}

// AttemptCount returns the total number of events
func (e *Events) AttemptCount() int {
	return len(e.events)
}

// SuccessCount returns the number of successful events
func (e *Events) SuccessCount() int {
	count := 0
	for _, event := range e.events {
		if event.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of failed events
func (e *Events) FailureCount() int {
	return e.AttemptCount() - e.SuccessCount()
}

// SuccessRate returns SuccessCount / AttemptCount, or NaN when there
// have been no attempts. Check math.IsNaN before comparing the result.
func (e *Events) SuccessRate() float64 {
	if e.AttemptCount() == 0 {
		return math.NaN()
	}
	return float64(e.SuccessCount()) / float64(e.AttemptCount())
}

// SuccessRoundTripStatistics returns the statistics of every successful
// event that has them, in insertion order.
func (e *Events) SuccessRoundTripStatistics() []models.RoundTripStatistics {
	var stats []models.RoundTripStatistics
	for _, event := range e.events {
		if !event.Success || event.RoundTripStatistics == nil {
			continue
		}
		stats = append(stats, *event.RoundTripStatistics)
	}
	return stats
}

// Slice returns a copy of the events in insertion order
func (e *Events) Slice() []models.Event {
	out := make([]models.Event, len(e.events))
	copy(out, e.events)
	return out
}

// Summary returns a snapshot suitable for JSON encoding. The success rate
// is nil when undefined, and Latest holds the most recent statistics.
func (e *Events) Summary(host string) models.Summary {
	summary := models.Summary{
		Host:         host,
		AttemptCount: e.AttemptCount(),
		SuccessCount: e.SuccessCount(),
		FailureCount: e.FailureCount(),
	}

	if rate := e.SuccessRate(); !math.IsNaN(rate) {
		summary.SuccessRate = &rate
	}

	if stats := e.SuccessRoundTripStatistics(); len(stats) > 0 {
		latest := stats[len(stats)-1]
		summary.Latest = &latest
	}

	return summary
}

// String renders attempt count, success count and success rate
func (e *Events) String() string {
	return fmt.Sprintf("attempt count: %d\nsuccess count: %d\nsuccess rate: %v",
		e.AttemptCount(), e.SuccessCount(), e.SuccessRate())
}
