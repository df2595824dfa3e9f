/*
PURPOSE:
  Scenario Sweep Engine. Runs the resolved sweep battery group by group and
  records one ScenarioResult per attempted point.

REQUIREMENTS:
  User-specified:
  - Groups run in order; each starts from the baseline (restoration).
  - Every point is recorded, optimal or not; no early termination.
  - Infeasible points: objective 0, empty flux mapping, sweep continues.

  Implementation-discovered:
  - Points may be solved in parallel (workers > 1) because each owns its bounds.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/cli
  - Uses: internal/solver, internal/model

ERROR HANDLING:
  - Solver errors (not infeasibility) abort the sweep and are returned.
  - Context cancellation stops between points.

IMPLEMENTATION RULES:
  - Result order equals plan order regardless of worker count.

USAGE:
  report, err := e.RunSweeps(ctx, plan)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/plan.go

MAINTENANCE:
  - None.
*/

package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/output"
	"github.com/daryltucker/flux-runner/internal/solver"
)

// RunSweeps solves every point of the plan.
func (e *Engine) RunSweeps(ctx context.Context, plan *Plan) (model.Report, error) {
	report := model.Report{
		RunID: uuid.NewString(),
		Model: e.Model.Name(),
	}

	for _, g := range plan.Groups {
		output.Logger.Info("Simulating sweep group", "group", g.Name, "points", len(g.Points))

		results, err := e.solveGroup(ctx, g)
		if err != nil {
			return report, fmt.Errorf("sweep %q: %w", g.Name, err)
		}
		report.Groups = append(report.Groups, model.GroupResult{
			Name:      g.Name,
			Reaction:  g.Reaction,
			BoundKind: string(g.Kind),
			Results:   results,
		})
	}
	return report, nil
}

func (e *Engine) solveGroup(ctx context.Context, g Group) ([]model.ScenarioResult, error) {
	results := make([]model.ScenarioResult, len(g.Points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers())
	for i, p := range g.Points {
		eg.Go(func() error {
			res, err := e.SolvePoint(ctx, g.Name, p)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", p.Label, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SolvePoint solves one point and converts the outcome into a record.
func (e *Engine) SolvePoint(ctx context.Context, group string, p Point) (model.ScenarioResult, error) {
	sol, err := e.Solver.Solve(ctx, e.Model, p.Bounds)
	if err != nil {
		return model.ScenarioResult{}, err
	}

	res := model.NewScenarioResult(group, p.Label, p.Parameter, sol)
	if sol.Optimal() {
		output.Logger.Info("Scenario feasible", "scenario", p.Label, "objective", sol.Objective)
		return res, nil
	}

	res.Explanation = solver.Explain(ctx, e.Solver, e.Model, p.Bounds)
	output.Logger.Warn("Scenario infeasible",
		"scenario", p.Label,
		"status", sol.Status,
		"explanation", res.Explanation,
	)
	return res, nil
}

func (e *Engine) workers() int {
	if e.Config == nil || e.Config.Workers < 1 {
		return 1
	}
	return e.Config.Workers
}
