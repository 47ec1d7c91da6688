package chart

import (
	"bytes"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// Point is one (timestamp, total score) sample of a user's history.
type Point struct {
	Time  time.Time
	Score float64
}

// RenderTrend draws the footprint-over-time line chart as a PNG.
// Points must be ordered by time ascending. Zero points render a blank
// chart and a single point renders one dot without a connecting line;
// neither is an error.
func RenderTrend(points []Point) ([]byte, error) {
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Time
		ys[i] = p.Score
	}

	series := chart.TimeSeries{
		Name:    "footprint",
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: 2.0,
			DotWidth:    4.0,
		},
	}

	graph := chart.Chart{
		Title:  "Your Carbon Footprint Over Time",
		Width:  1000,
		Height: 500,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name: "Carbon Footprint (kg CO2)",
		},
	}

	switch len(points) {
	case 0:
		// go-chart cannot size an empty series; plot an invisible
		// placeholder so the empty chart still renders.
		now := time.Now()
		series.XValues = []time.Time{now.Add(-24 * time.Hour), now}
		series.YValues = []float64{0, 0}
		series.Style = chart.Style{
			StrokeColor: chart.ColorTransparent,
			DotColor:    chart.ColorTransparent,
			StrokeWidth: 1.0,
		}
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1}
	case 1:
		// A single sample has no x-extent, so pin both ranges; only
		// the dot gets drawn, there is no segment to connect.
		t := points[0].Time
		graph.XAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(t.Add(-12 * time.Hour)),
			Max: chart.TimeToFloat64(t.Add(12 * time.Hour)),
		}
		maxY := points[0].Score * 1.25
		if maxY <= 0 {
			maxY = 1
		}
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: maxY}
	}

	graph.Series = []chart.Series{series}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
