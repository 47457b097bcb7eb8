package models

import "time"

// Event represents the outcome of a single probe attempt against a host
type Event struct {
	Timestamp           time.Time            `json:"timestamp"`
	Host                string               `json:"host"`
	Success             bool                 `json:"success"`
	RoundTripStatistics *RoundTripStatistics `json:"round_trip_statistics,omitempty"`
	ErrorMessage        string               `json:"error_message,omitempty"`
}

// NewSuccessEvent creates an event for a probe that completed. stats may be
// nil when the probe output carried no round-trip summary.
func NewSuccessEvent(timestamp time.Time, host string, stats *RoundTripStatistics) Event {
	return Event{
		Timestamp:           timestamp,
		Host:                host,
		Success:             true,
		RoundTripStatistics: stats,
	}
}

// NewFailureEvent creates an event for a probe that did not complete.
// Failed events never carry round-trip statistics.
func NewFailureEvent(timestamp time.Time, host string, errorMessage string) Event {
	return Event{
		Timestamp:    timestamp,
		Host:         host,
		ErrorMessage: errorMessage,
	}
}
