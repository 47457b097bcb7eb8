package report

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// errNotEnoughData is returned when a host has fewer than two plottable points
var errNotEnoughData = errors.New("not enough latency data to chart")

type latencySeries struct {
	timestamps []time.Time
	min        []float64
	avg        []float64
	max        []float64
}

// collectLatency gathers successful probes whose statistics are all finite
func collectLatency(h hostEvents) latencySeries {
	var s latencySeries
	for _, e := range h.events.Slice() {
		if !e.Success || e.RoundTripStatistics == nil || e.RoundTripStatistics.HasNaN() {
			continue
		}
		rt := e.RoundTripStatistics
		s.timestamps = append(s.timestamps, e.Timestamp)
		s.min = append(s.min, rt.Min)
		s.avg = append(s.avg, rt.Average)
		s.max = append(s.max, rt.Max)
	}
	return s
}

func generateLatencyChart(outputDir string, h hostEvents) error {
	data := collectLatency(h)
	if len(data.timestamps) < 2 {
		return errNotEnoughData
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("Round-trip Latency - %s", h.host),
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:  1200,
		Height: 400,
		XAxis: chart.XAxis{
			Name: "Time",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			ValueFormatter: chart.TimeMinuteValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Latency (ms)",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
				StrokeWidth: 1.0,
			},
			Range: latencyRange(data),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "min",
				Style: chart.Style{
					StrokeColor:     chart.GetDefaultColor(2),
					StrokeWidth:     1,
					StrokeDashArray: []float64{3, 3},
				},
				XValues: data.timestamps,
				YValues: data.min,
			},
			chart.TimeSeries{
				Name: "average",
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(0),
					StrokeWidth: 2,
				},
				XValues: data.timestamps,
				YValues: data.avg,
			},
			chart.TimeSeries{
				Name: "max",
				Style: chart.Style{
					StrokeColor:     chart.GetDefaultColor(3),
					StrokeWidth:     1,
					StrokeDashArray: []float64{3, 3},
				},
				XValues: data.timestamps,
				YValues: data.max,
			},
		},
	}

	// Add moving average
	if len(data.avg) > 10 {
		ts := graph.Series[1].(chart.TimeSeries)
		graph.Series = append(graph.Series, chart.SMASeries{
			Name: "moving avg",
			Style: chart.Style{
				StrokeColor:     chart.GetDefaultColor(1),
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
			},
			InnerSeries: ts,
			Period:      10,
		})
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	filename := filepath.Join(outputDir, fmt.Sprintf("latency_%s.png", sanitizeFilename(h.host)))
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

// latencyRange pads flat series so the y axis never has a zero-height range
func latencyRange(data latencySeries) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, series := range [][]float64{data.min, data.avg, data.max} {
		for _, v := range series {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1 {
		lo, hi = lo-1, hi+1
	}
	return &chart.ContinuousRange{
		Min: math.Max(0, lo),
		Max: hi,
	}
}
