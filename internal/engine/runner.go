/*
PURPOSE:
  High-level runner that orchestrates a full sweep run.
  Model -> Baseline -> Plan -> Sweeps -> CSV/JSON -> Charts.

REQUIREMENTS:
  User-specified:
  - Run Base, Low Glucose and Hexokinase Deficiency groups in order.
  - Print per-scenario feasibility and objective values.
  - Plot objective vs parameter and flux vs scenario.

  Implementation-discovered:
  - Results are written after the sweep so parallel workers never interleave rows.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine, internal/output

ERROR HANDLING:
  - Config/identifier errors abort before any solve.
  - Write failures are logged and the run continues (resilience).
  - Missing flux data for plotting is reported, not fatal.

IMPLEMENTATION RULES:
  - Output files land in cfg.OutputDir.

USAGE:
  report, err := engine.Run(ctx, cfg)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/sweep.go
  - internal/output/chart.go

MAINTENANCE:
  - Update when adding new output formats.
*/

package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/daryltucker/flux-runner/internal/config"
	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/output"
)

// Chart file names inside the output directory.
const (
	ObjectiveChartFile = "objective.png"
	FluxChartFile      = "fluxes.png"
)

// Run executes the full sweep battery.
func Run(ctx context.Context, cfg *config.Config) (model.Report, error) {
	e, err := New(cfg)
	if err != nil {
		return model.Report{}, err
	}
	return e.Run(ctx)
}

// Run executes the configured sweep battery on this engine.
func (e *Engine) Run(ctx context.Context) (model.Report, error) {
	cfg := e.Config

	baseline, err := e.Baseline()
	if err != nil {
		return model.Report{}, err
	}
	plan, err := NewPlan(e.Model, baseline, cfg.Sweeps)
	if err != nil {
		return model.Report{}, err
	}

	// Ensure output directory exists
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return model.Report{}, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	output.Logger.Info("Running simulation", "groups", len(plan.Groups), "points", plan.Size(), "workers", e.workers())
	report, err := e.RunSweeps(ctx, plan)
	if err != nil {
		return report, err
	}

	if err := e.writeResults(report); err != nil {
		return report, err
	}

	labels, fluxes := report.Fluxes()
	for _, label := range labels {
		output.Logger.Debug("Reaction fluxes", "scenario", label, "fluxes", fluxes[label])
	}

	if cfg.Plots {
		e.renderCharts(report)
	}
	return report, nil
}

func (e *Engine) writeResults(report model.Report) error {
	cfg := e.Config

	csvPath := filepath.Join(cfg.OutputDir, cfg.CSVFile)
	csvWriter, err := output.NewCSVWriter(csvPath, e.Model.ReactionIDs())
	if err != nil {
		return fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	jsonPath := filepath.Join(cfg.OutputDir, cfg.JSONFile)
	jsonWriter, err := output.NewJSONWriter(jsonPath, report.RunID)
	if err != nil {
		return fmt.Errorf("failed to init JSON writer at %s: %w", jsonPath, err)
	}
	defer jsonWriter.Close()

	for _, res := range report.Scenarios() {
		if err := csvWriter.Write(res); err != nil {
			output.Logger.Error("Failed to write result to CSV", "scenario", res.Label, "error", err)
		}
		if err := jsonWriter.Write(res); err != nil {
			output.Logger.Error("Failed to write result to JSON", "scenario", res.Label, "error", err)
		}
	}
	output.Logger.Info("Results written", "csv", csvPath, "json", jsonPath, "run_id", report.RunID)
	return nil
}

func (e *Engine) renderCharts(report model.Report) {
	objPath := filepath.Join(e.Config.OutputDir, ObjectiveChartFile)
	_, err := output.WritePNG(objPath, func(w io.Writer) (bool, error) {
		return true, output.RenderObjectiveChart(w, report)
	})
	if err != nil {
		output.Logger.Error("Failed to render objective chart", "path", objPath, "error", err)
	} else {
		output.Logger.Info("Chart written", "path", objPath)
	}

	fluxPath := filepath.Join(e.Config.OutputDir, FluxChartFile)
	ok, err := output.WritePNG(fluxPath, func(w io.Writer) (bool, error) {
		return output.RenderFluxChart(w, report, e.Model.ReactionIDs())
	})
	switch {
	case err != nil:
		output.Logger.Error("Failed to render flux chart", "path", fluxPath, "error", err)
	case ok:
		output.Logger.Info("Chart written", "path", fluxPath)
	}
}
