package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"ping-monitor/internal/models"
)

func (g *Generator) generateTextReport(outputDir string, hours int, hosts []hostEvents) error {
	filename := filepath.Join(outputDir, "summary.txt")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "Ping Monitor Report\n")
	fmt.Fprintf(file, "Generated: %s\n", g.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "Period: Last %d hours\n\n", hours)
	fmt.Fprintln(file, strings.Repeat("=", 60))

	fmt.Fprintln(file, "\nOVERALL STATISTICS")

	if len(hosts) == 0 {
		fmt.Fprintln(file, "No probe events recorded.")
	}
	for _, h := range hosts {
		writeHostSummary(file, h)
	}

	fmt.Fprintln(file, strings.Repeat("=", 60))

	days := int(math.Ceil(float64(hours) / 24))
	outages, err := g.db.GetOutages(days)
	if err != nil {
		return err
	}

	fmt.Fprintln(file, "\nOUTAGE PERIODS (5+ failures in 10 probes)")

	for i, o := range outages {
		fmt.Fprintf(file, "Outage #%d\n", i+1)
		fmt.Fprintf(file, "  Host: %s\n", o.Host)
		fmt.Fprintf(file, "  Start: %s\n", o.StartTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(file, "  End: %s\n", o.EndTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(file, "  Duration: %s\n", o.Duration)
		fmt.Fprintf(file, "  Failed Checks: %d\n", o.FailedChecks)
		fmt.Fprintln(file)
	}

	if len(outages) == 0 {
		fmt.Fprintln(file, "No significant outages detected.")
	} else {
		fmt.Fprintf(file, "\nTotal Outages: %d\n", len(outages))
	}

	fmt.Fprintln(file, strings.Repeat("=", 60))
	return nil
}

func writeHostSummary(w io.Writer, h hostEvents) {
	fmt.Fprintf(w, "Host: %s\n", h.host)
	fmt.Fprintln(w, indent(h.events.String()))

	stats := h.events.SuccessRoundTripStatistics()
	if len(stats) == 0 {
		fmt.Fprintln(w, "  no round-trip statistics")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "  latest:")
	fmt.Fprintln(w, indent(indent(stats[len(stats)-1].String())))

	overall := combine(stats)
	fmt.Fprintf(w, "  over %d probes:\n", len(stats))
	fmt.Fprintln(w, indent(indent(overall.String())))
	fmt.Fprintln(w)
}

// combine reduces per-probe statistics to the lowest minimum, the highest
// maximum and the mean of averages and standard deviations. NaN fields are
// skipped.
func combine(stats []models.RoundTripStatistics) models.RoundTripStatistics {
	out := models.RoundTripStatistics{
		Min:               math.Inf(1),
		Max:               math.Inf(-1),
		Average:           math.NaN(),
		StandardDeviation: math.NaN(),
	}

	var avgSum, stddevSum float64
	var avgN, stddevN int
	for _, s := range stats {
		if !math.IsNaN(s.Min) {
			out.Min = math.Min(out.Min, s.Min)
		}
		if !math.IsNaN(s.Max) {
			out.Max = math.Max(out.Max, s.Max)
		}
		if !math.IsNaN(s.Average) {
			avgSum += s.Average
			avgN++
		}
		if !math.IsNaN(s.StandardDeviation) {
			stddevSum += s.StandardDeviation
			stddevN++
		}
	}

	if math.IsInf(out.Min, 1) {
		out.Min = math.NaN()
	}
	if math.IsInf(out.Max, -1) {
		out.Max = math.NaN()
	}
	if avgN > 0 {
		out.Average = avgSum / float64(avgN)
	}
	if stddevN > 0 {
		out.StandardDeviation = stddevSum / float64(stddevN)
	}
	return out
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
