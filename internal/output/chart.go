/*
PURPOSE:
  Renders sweep results as PNG charts.

REQUIREMENTS:
  User-specified:
  - Objective vs sweep parameter, one series per sweep group
    (single-point groups as a dot, others as connected lines).
  - Per-reaction flux vs scenario label, feasible scenarios only.
  - No feasible scenario: report "no data" and render nothing.

  Implementation-discovered:
  - go-chart rejects zero-width ranges; ranges are padded explicitly.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.Report

ERROR HANDLING:
  - Render errors are returned; missing data is not an error for the flux chart.

IMPLEMENTATION RULES:
  - Use github.com/wcharczuk/go-chart/v2.

USAGE:
  ok, err := output.WritePNG("fluxes.png", func(w io.Writer) (bool, error) {
      return output.RenderFluxChart(w, report, m.ReactionIDs())
  })

SELF-HEALING INSTRUCTIONS:
  - If labels overlap, raise fluxChartWidth.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - None.
*/

package output

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/daryltucker/flux-runner/internal/model"
)

const (
	objectiveChartWidth  = 1000
	objectiveChartHeight = 600
	fluxChartWidth       = 1400
	fluxChartHeight      = 800
)

// ErrNoChartData is returned when a report holds no scenario at all.
var ErrNoChartData = errors.New("output: no data to plot")

// RenderObjectiveChart draws the objective value against the sweep parameter.
func RenderObjectiveChart(w io.Writer, report model.Report) error {
	var (
		series []chart.Series
		allX   []float64
		allY   []float64
	)
	for i, g := range report.Groups {
		if len(g.Results) == 0 {
			continue
		}
		results := slices.Clone(g.Results)
		sort.SliceStable(results, func(a, b int) bool { return results[a].Parameter < results[b].Parameter })

		xs := make([]float64, len(results))
		ys := make([]float64, len(results))
		for j, r := range results {
			xs[j], ys[j] = r.Parameter, r.Objective
		}
		allX = append(allX, xs...)
		allY = append(allY, ys...)

		color := chart.GetDefaultColor(i)
		style := chart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
			DotColor:    color,
			DotWidth:    4,
		}
		if len(results) == 1 {
			style.StrokeWidth = chart.Disabled
			style.DotWidth = 7
		}
		series = append(series, chart.ContinuousSeries{
			Name:    g.Name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}
	if len(series) == 0 {
		return ErrNoChartData
	}

	graph := chart.Chart{
		Title:  "Simulation Results",
		Width:  objectiveChartWidth,
		Height: objectiveChartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Scenario Parameter",
			Range: paddedRange(allX),
		},
		YAxis: chart.YAxis{
			Name:  "ATP Production",
			Range: paddedRange(allY),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// RenderFluxChart draws one series per reaction across the feasible
// scenarios. reactions fixes the series order; when empty, the reactions of
// the first feasible scenario are used. It returns false without rendering
// when no scenario produced fluxes.
func RenderFluxChart(w io.Writer, report model.Report, reactions []string) (bool, error) {
	var valid []model.ScenarioResult
	for _, s := range report.Scenarios() {
		if s.Feasible() {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		Logger.Info("No reaction flux data available for plotting.")
		return false, nil
	}
	if len(reactions) == 0 {
		for id := range valid[0].Fluxes {
			reactions = append(reactions, id)
		}
		sort.Strings(reactions)
	}

	xs := make([]float64, len(valid))
	ticks := make([]chart.Tick, len(valid))
	for i, s := range valid {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: s.Label}
	}

	var (
		series []chart.Series
		allY   []float64
	)
	for i, id := range reactions {
		ys := make([]float64, len(valid))
		for j, s := range valid {
			ys[j] = s.Fluxes[id]
		}
		allY = append(allY, ys...)

		color := chart.GetDefaultColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    id,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    4,
			},
		})
	}

	graph := chart.Chart{
		Title:  "Reaction Contributions to ATP Production Across Scenarios",
		Width:  fluxChartWidth,
		Height: fluxChartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:      "Scenarios",
			Range:     &chart.ContinuousRange{Min: -0.5, Max: float64(len(valid)) - 0.5},
			Ticks:     ticks,
			TickStyle: chart.Style{TextRotationDegrees: 45.0},
		},
		YAxis: chart.YAxis{
			Name:  "Flux Value",
			Range: paddedRange(allY),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return false, err
	}
	return true, nil
}

// WritePNG creates path and lets render fill it. A render reporting no data
// (false) removes the empty file.
func WritePNG(path string, render func(io.Writer) (bool, error)) (bool, error) {
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	ok, renderErr := render(f)
	closeErr := f.Close()
	if renderErr != nil || !ok {
		os.Remove(path)
		return false, renderErr
	}
	return true, closeErr
}

// paddedRange spans values with 5% headroom, or +-1 around a single value.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		lo, hi = 0, 0
	}
	if hi-lo == 0 {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
