package ping

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ping-monitor/internal/models"
)

func TestParseRoundTripStatistics(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected models.RoundTripStatistics
	}{
		{
			name:     "macOS summary line",
			output:   "round-trip min/avg/max/stddev = 12.445/26.791/61.365/20.049 ms",
			expected: models.RoundTripStatistics{Min: 12.445, Average: 26.791, Max: 61.365, StandardDeviation: 20.049},
		},
		{
			name:     "single probe",
			output:   "round-trip min/avg/max/stddev = 44.347/44.347/44.347/0.000 ms",
			expected: models.RoundTripStatistics{Min: 44.347, Average: 44.347, Max: 44.347, StandardDeviation: 0},
		},
		{
			name:     "integers",
			output:   "round-trip min/avg/max/stddev = 1/2/3/4 ms",
			expected: models.RoundTripStatistics{Min: 1, Average: 2, Max: 3, StandardDeviation: 4},
		},
		{
			name:     "trailing content ignored",
			output:   "round-trip min/avg/max/stddev = 1.5/2.5/3.5/0.5 ms (local)",
			expected: models.RoundTripStatistics{Min: 1.5, Average: 2.5, Max: 3.5, StandardDeviation: 0.5},
		},
		{
			name: "full macOS output",
			output: `PING 8.8.8.8 (8.8.8.8): 56 data bytes
64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=12.445 ms
64 bytes from 8.8.8.8: icmp_seq=1 ttl=118 time=61.365 ms
64 bytes from 8.8.8.8: icmp_seq=2 ttl=118 time=6.563 ms

--- 8.8.8.8 ping statistics ---
3 packets transmitted, 3 packets received, 0.0% packet loss
round-trip min/avg/max/stddev = 6.563/26.791/61.365/20.049 ms
`,
			expected: models.RoundTripStatistics{Min: 6.563, Average: 26.791, Max: 61.365, StandardDeviation: 20.049},
		},
		{
			name:     "CRLF line endings",
			output:   "--- localhost ping statistics ---\r\nround-trip min/avg/max/stddev = 0.041/0.041/0.041/0.000 ms\r\n",
			expected: models.RoundTripStatistics{Min: 0.041, Average: 0.041, Max: 0.041, StandardDeviation: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRoundTripStatistics(tt.output)
			if err != nil {
				t.Fatalf("ParseRoundTripStatistics(%q) returned error: %v", tt.output, err)
			}
			if result != tt.expected {
				t.Errorf("ParseRoundTripStatistics(%q) = %+v, want %+v", tt.output, result, tt.expected)
			}
		})
	}
}

func TestParseRoundTripStatisticsAverageIsSecondNumber(t *testing.T) {
	result, err := ParseRoundTripStatistics("round-trip min/avg/max/stddev = 1.000/2.000/3.000/4.000 ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Average != 2 {
		t.Errorf("Average = %v, want 2 (the second number)", result.Average)
	}
	if result.Max != 3 {
		t.Errorf("Max = %v, want 3 (the third number)", result.Max)
	}
}

func TestParseRoundTripStatisticsAbsent(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "hello world", output: "hello world"},
		{name: "empty output", output: ""},
		{name: "Linux rtt line", output: "rtt min/avg/max/mdev = 0.041/0.041/0.041/0.000 ms"},
		{name: "busybox line without stddev", output: "round-trip min/avg/max = 12.3/12.3/12.3 ms"},
		{name: "not at line start", output: "summary: round-trip min/avg/max/stddev = 1/2/3/4 ms"},
		{name: "wrong case", output: "Round-Trip min/avg/max/stddev = 1/2/3/4 ms"},
		{name: "missing unit", output: "round-trip min/avg/max/stddev = 1/2/3/4"},
		{name: "negative number", output: "round-trip min/avg/max/stddev = -1/2/3/4 ms"},
		{name: "unknown host", output: "ping: cannot resolve example.invalid: Unknown host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRoundTripStatistics(tt.output)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("ParseRoundTripStatistics(%q) error = %v, want ErrParse", tt.output, err)
			}
			if result != (models.RoundTripStatistics{}) {
				t.Errorf("expected zero value on failure, got %+v", result)
			}
		})
	}
}

func TestParseRoundTripStatisticsMalformedNumber(t *testing.T) {
	result, err := ParseRoundTripStatistics("round-trip min/avg/max/stddev = 1.2.3/2.0/./4 ms")
	if err != nil {
		t.Fatalf("structural match must succeed, got %v", err)
	}
	assert.True(t, math.IsNaN(result.Min), "Min should be NaN")
	assert.Equal(t, 2.0, result.Average)
	assert.True(t, math.IsNaN(result.Max), "Max should be NaN")
	assert.Equal(t, 4.0, result.StandardDeviation)
	assert.True(t, result.HasNaN())
}

func TestParseRoundTripStatisticsRendered(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		original := models.RoundTripStatistics{
			Min:               rng.Float64() * 10,
			Average:           rng.Float64() * 100,
			Max:               rng.Float64() * 1000,
			StandardDeviation: rng.Float64() * 50,
		}
		line := fmt.Sprintf("round-trip min/avg/max/stddev = %.3f/%.3f/%.3f/%.3f ms",
			original.Min, original.Average, original.Max, original.StandardDeviation)

		parsed, err := ParseRoundTripStatistics(line)
		if err != nil {
			t.Fatalf("ParseRoundTripStatistics(%q) returned error: %v", line, err)
		}
		assert.InDelta(t, original.Min, parsed.Min, 0.0005, line)
		assert.InDelta(t, original.Average, parsed.Average, 0.0005, line)
		assert.InDelta(t, original.Max, parsed.Max, 0.0005, line)
		assert.InDelta(t, original.StandardDeviation, parsed.StandardDeviation, 0.0005, line)
	}
}

func TestParseRoundTripStatisticsOutOfRange(t *testing.T) {
	huge := "1" + strings.Repeat("0", 400)
	result, err := ParseRoundTripStatistics("round-trip min/avg/max/stddev = 1/2/" + huge + "/4 ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.True(t, math.IsInf(result.Max, 1), "Max = %v, want +Inf", result.Max)
	assert.Equal(t, 1.0, result.Min)
	assert.Equal(t, 2.0, result.Average)
	assert.Equal(t, 4.0, result.StandardDeviation)
}

func TestParseRoundTripStatisticsNonASCIIDigits(t *testing.T) {
	// Arabic-Indic digit one matches the digit class but does not convert
	result, err := ParseRoundTripStatistics("round-trip min/avg/max/stddev = ١/2/3/4 ms")
	if err != nil {
		t.Fatalf("structural match must succeed, got %v", err)
	}
	assert.True(t, math.IsNaN(result.Min), "Min should be NaN")
	assert.Equal(t, 2.0, result.Average)
	assert.Equal(t, 3.0, result.Max)
	assert.Equal(t, 4.0, result.StandardDeviation)
}
