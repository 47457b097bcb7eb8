package ping

import (
	"errors"
	"math"
	"regexp"
	"strconv"

	"ping-monitor/internal/models"
)

// ErrParse is returned when the probe output has no round-trip summary line
var ErrParse = errors.New("round-trip statistics not found")

// Captures accept any run of Unicode decimal digits and dots so that a
// structurally matching but malformed number degrades to NaN instead of
// failing the parse.
var roundTripPattern = regexp.MustCompile(
	`(?m)^round-trip min/avg/max/stddev = ([\p{Nd}.]+)/([\p{Nd}.]+)/([\p{Nd}.]+)/([\p{Nd}.]+) ms`,
)

// ParseRoundTripStatistics extracts the round-trip summary from ping output.
// The line may appear anywhere in multi-line text but must start a line:
//
//	round-trip min/avg/max/stddev = 12.445/26.791/61.365/20.049 ms
func ParseRoundTripStatistics(output string) (models.RoundTripStatistics, error) {
	matches := roundTripPattern.FindStringSubmatch(output)
	if matches == nil {
		return models.RoundTripStatistics{}, ErrParse
	}

	// Text order is min/avg/max/stddev
	return models.RoundTripStatistics{
		Min:               parseFloatOrNaN(matches[1]),
		Average:           parseFloatOrNaN(matches[2]),
		Max:               parseFloatOrNaN(matches[3]),
		StandardDeviation: parseFloatOrNaN(matches[4]),
	}, nil
}

func parseFloatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	// Out-of-range values come back as ±Inf, which is a usable reading
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}
