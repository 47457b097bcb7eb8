package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// RoundTripStatistics holds the latency summary reported by one probe.
// All values share the same unit, milliseconds. Field ordering is not
// validated: Min <= Average <= Max only holds for well-formed input.
type RoundTripStatistics struct {
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	Average           float64 `json:"average"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// String renders the statistics with three decimal places
func (r RoundTripStatistics) String() string {
	return fmt.Sprintf("min: %.3f\nmax: %.3f\naverage: %.3f\nstandard deviation: %.3f",
		r.Min, r.Max, r.Average, r.StandardDeviation)
}

// HasNaN reports whether any field could not be converted when parsed
func (r RoundTripStatistics) HasNaN() bool {
	return math.IsNaN(r.Min) || math.IsNaN(r.Max) ||
		math.IsNaN(r.Average) || math.IsNaN(r.StandardDeviation)
}

// MarshalJSON encodes NaN fields as null, which encoding/json cannot represent
func (r RoundTripStatistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Min               *float64 `json:"min"`
		Max               *float64 `json:"max"`
		Average           *float64 `json:"average"`
		StandardDeviation *float64 `json:"standard_deviation"`
	}{
		Min:               finite(r.Min),
		Max:               finite(r.Max),
		Average:           finite(r.Average),
		StandardDeviation: finite(r.StandardDeviation),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Summary is a point-in-time snapshot of a host's probe aggregate
type Summary struct {
	Host         string               `json:"host"`
	AttemptCount int                  `json:"attempt_count"`
	SuccessCount int                  `json:"success_count"`
	FailureCount int                  `json:"failure_count"`
	SuccessRate  *float64             `json:"success_rate"` // nil when no attempts were made
	Latest       *RoundTripStatistics `json:"latest,omitempty"`
}

// Stats represents aggregated statistics for a host
type Stats struct {
	Host         string  `json:"host"`
	TotalProbes  int     `json:"total_probes"`
	Successful   int     `json:"successful_probes"`
	AvgRTT       float64 `json:"avg_rtt"`
	MaxRTT       float64 `json:"max_rtt"`
	MinRTT       float64 `json:"min_rtt"`
	AvgStdDevRTT float64 `json:"avg_stddev_rtt"`
	PacketLoss   float64 `json:"packet_loss"`
}

// Outage represents a connectivity outage period
type Outage struct {
	Host         string    `json:"host"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	FailedChecks int       `json:"failed_checks"`
	Duration     string    `json:"duration"`
}

// HeatmapPoint represents a data point for the heatmap visualization
type HeatmapPoint struct {
	Hour          int     `json:"hour"`
	Host          string  `json:"host"`
	FailureRate   float64 `json:"failure_rate"`
	AvgLatency    float64 `json:"avg_latency"`
	MaxLatency    float64 `json:"max_latency"`
	TotalFailures int     `json:"total_failures"`
	TotalProbes   int     `json:"total_probes"`
	DaysWithData  int     `json:"days_with_data"`
}
