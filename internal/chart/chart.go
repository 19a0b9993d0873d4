// Package chart renders the /stats PNGs: same-day cumulative intake per
// logging step against a dashed goal line.
package chart

import (
	"bytes"
	"fmt"

	chartlib "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Cumulative renders a running total over intake steps. amounts are the raw
// per-event values in logging order; the series starts at the origin so a
// single event still draws a line.
func Cumulative(title, seriesName string, amounts []float64, goal float64, goalLabel string) ([]byte, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("no data points")
	}

	xs := make([]float64, len(amounts)+1)
	ys := make([]float64, len(amounts)+1)
	goals := make([]float64, len(amounts)+1)
	var running float64
	goals[0] = goal
	for i, a := range amounts {
		running += a
		xs[i+1] = float64(i + 1)
		ys[i+1] = running
		goals[i+1] = goal
	}

	graph := chartlib.Chart{
		Title:  title,
		Width:  1000,
		Height: 600,
		Background: chartlib.Style{
			Padding: chartlib.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Series: []chartlib.Series{
			chartlib.ContinuousSeries{
				Name:    seriesName,
				XValues: xs,
				YValues: ys,
				Style: chartlib.Style{
					StrokeWidth: 2.5,
					StrokeColor: chartlib.ColorBlue,
					DotWidth:    4,
					DotColor:    chartlib.ColorBlue,
				},
			},
			chartlib.ContinuousSeries{
				Name:    goalLabel,
				XValues: xs,
				YValues: goals,
				Style: chartlib.Style{
					StrokeWidth:     2,
					StrokeColor:     drawing.ColorRed,
					StrokeDashArray: []float64{5, 5},
				},
			},
		},
	}
	graph.Elements = []chartlib.Renderable{chartlib.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chartlib.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
