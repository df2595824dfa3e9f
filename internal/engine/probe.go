/*
PURPOSE:
  Incremental ATP demand diagnostic.
  Raises one bound step by step and reports objective and yield per step.

REQUIREMENTS:
  User-specified:
  - Raise atp_maintenance demand until the pathway becomes infeasible.
  - Report ATP yield per glucose.

  Implementation-discovered:
  - Stopping at the first infeasible step is configurable (--keep-going).

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/probe.go
  - Uses: internal/config, internal/model, internal/engine/plan.go (Range)

ERROR HANDLING:
  - Unknown reactions and bad ranges fail before any solve.
  - Infeasible steps are recorded, not returned as errors.

IMPLEMENTATION RULES:
  - Each step solves a fresh copy of the baseline.

USAGE:
  res, err := e.ProbeDemand(ctx, baseline, cfg.Probe)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/cli/probe.go

MAINTENANCE:
  - Update if the probe gains more reported metrics.
*/

package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/daryltucker/flux-runner/internal/config"
	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/output"
)

// ProbeStep is one demand level of a probe.
type ProbeStep struct {
	Demand    float64      `json:"demand"`
	Status    model.Status `json:"status"`
	Objective float64      `json:"objective"`
	// Yield is objective / |flux of the yield reaction|, 0 when that flux is 0.
	Yield float64 `json:"yield"`
}

// ProbeResult holds the attempted steps of a probe.
type ProbeResult struct {
	Reaction string      `json:"reaction"`
	Steps    []ProbeStep `json:"steps"`
	// Stopped is set when the probe ended early at an infeasible demand.
	Stopped bool `json:"stopped"`
}

// MaxFeasible returns the highest feasible demand reached, if any.
func (r ProbeResult) MaxFeasible() (float64, bool) {
	best, found := 0.0, false
	for _, s := range r.Steps {
		if s.Status == model.StatusOptimal && (!found || s.Demand > best) {
			best, found = s.Demand, true
		}
	}
	return best, found
}

// ProbeDemand raises one bound of the probe reaction step by step from the
// baseline. Unlike RunSweeps it stops at the first non-optimal step when
// p.StopOnInfeasible is set.
func (e *Engine) ProbeDemand(ctx context.Context, baseline model.Bounds, p config.Probe) (ProbeResult, error) {
	idx, err := e.Model.Index(p.Reaction)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("demand probe: %w", err)
	}
	kind, err := model.ParseBoundKind(p.Bound)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("demand probe: %w", err)
	}
	yieldID := p.YieldReaction
	if yieldID != "" {
		if _, err := e.Model.Index(yieldID); err != nil {
			return ProbeResult{}, fmt.Errorf("demand probe yield: %w", err)
		}
	}
	demands, err := Range(p.Start, p.Stop, p.Step)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("demand probe: %w", err)
	}

	res := ProbeResult{Reaction: p.Reaction}
	for _, d := range demands {
		sol, err := e.Solver.Solve(ctx, e.Model, baseline.WithKind(idx, kind, d))
		if err != nil {
			return res, fmt.Errorf("demand probe at %g: %w", d, err)
		}

		step := ProbeStep{Demand: d, Status: sol.Status}
		if !sol.Optimal() {
			res.Steps = append(res.Steps, step)
			output.Logger.Warn("Pathway infeasible", "demand", d)
			if p.StopOnInfeasible {
				res.Stopped = true
				break
			}
			continue
		}

		step.Objective = sol.Objective
		if yieldID != "" {
			if flux := math.Abs(sol.Fluxes[yieldID]); flux > 0 {
				step.Yield = sol.Objective / flux
			}
		}
		res.Steps = append(res.Steps, step)
		output.Logger.Info("Demand satisfied",
			"demand", d,
			"objective", sol.Objective,
			"yield", fmt.Sprintf("%.2f", step.Yield),
		)
	}
	return res, nil
}
