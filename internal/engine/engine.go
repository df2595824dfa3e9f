/*
PURPOSE:
  Core engine for flux balance runs.
  Holds the assembled model and the LP solver, and derives the baseline
  bound vector every sweep starts from.

REQUIREMENTS:
  User-specified:
  - Validate lower <= upper for every reaction; warn, do not fail.
  - Report the reactions carrying an objective coefficient.
  - Select a default LP backend.

  Implementation-discovered:
  - Overrides from config can introduce inconsistent bounds, so the check
    runs on the baseline, not only on the declared defaults.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/config, internal/model, internal/network, internal/solver, internal/output

ERROR HANDLING:
  - Unknown reaction identifiers in overrides are fatal (model.ErrUnknownReaction).
  - Inconsistent bounds are fatal only with strict_bounds.

IMPLEMENTATION RULES:
  - The model is never mutated; every operation works on Bounds copies.

USAGE:
  e, err := engine.New(cfg)
  baseline, err := e.Baseline()
  sol, err := e.Solver.Solve(ctx, e.Model, baseline)

SELF-HEALING INSTRUCTIONS:
  - To plug another LP backend, set Engine.Solver after New.

RELATED FILES:
  - internal/engine/sweep.go
  - internal/solver/solver.go

MAINTENANCE:
  - Update when the model source becomes configurable.
*/

package engine

import (
	"fmt"

	"github.com/daryltucker/flux-runner/internal/config"
	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/network"
	"github.com/daryltucker/flux-runner/internal/output"
	"github.com/daryltucker/flux-runner/internal/solver"
)

// Engine runs solves against one assembled model.
type Engine struct {
	Config *config.Config
	Model  *model.Model
	Solver solver.Solver
}

// New builds the network model and selects the simplex backend.
func New(cfg *config.Config) (*Engine, error) {
	m, err := network.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}
	return NewWithModel(cfg, m, solver.NewSimplex()), nil
}

// NewWithModel wires an existing model and solver.
func NewWithModel(cfg *config.Config, m *model.Model, s solver.Solver) *Engine {
	e := &Engine{Config: cfg, Model: m, Solver: s}

	output.Logger.Info("Model assembled",
		"model", m.Name(),
		"reactions", m.NumReactions(),
		"metabolites", m.NumMetabolites(),
		"solver", solverName(s),
	)
	for id, coef := range m.ObjectiveCoefficients() {
		output.Logger.Info("Objective coefficient", "reaction", id, "coefficient", coef)
	}
	return e
}

// Baseline returns the model's default bounds with the configured overrides
// applied, after checking bound consistency.
func (e *Engine) Baseline() (model.Bounds, error) {
	b := e.Model.DefaultBounds()
	for _, o := range e.Config.Overrides {
		i, err := e.Model.Index(o.Reaction)
		if err != nil {
			return nil, fmt.Errorf("override: %w", err)
		}
		if o.Lower != nil {
			b = b.WithLower(i, *o.Lower)
		}
		if o.Upper != nil {
			b = b.WithUpper(i, *o.Upper)
		}
	}

	if err := e.CheckBounds(b); err != nil {
		return nil, err
	}
	return b, nil
}

// CheckBounds logs one warning per inconsistent reaction. With
// strict_bounds set, the issues are returned as a *model.BoundsError.
func (e *Engine) CheckBounds(b model.Bounds) error {
	issues := e.Model.CheckBounds(b)
	if len(issues) == 0 {
		output.Logger.Info("Model consistency check passed", "reactions", len(b))
		return nil
	}
	for _, issue := range issues {
		output.Logger.Warn("Reaction has inconsistent bounds",
			"reaction", issue.Reaction,
			"lower", issue.Lower,
			"upper", issue.Upper,
		)
	}
	if e.Config.StrictBounds {
		return &model.BoundsError{Issues: issues}
	}
	return nil
}

func solverName(s solver.Solver) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
