/*
PURPOSE:
  Single ad hoc solve with bound settings given on the command line.

REQUIREMENTS:
  User-specified:
  - Check the model under limited oxphos and closed glucose uptake.

  Implementation-discovered:
  - Settings are written "reaction.lower=value" so they fit one flag.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/solve.go
  - Uses: internal/model, internal/solver

ERROR HANDLING:
  - Malformed settings and unknown reactions are errors.
  - Infeasible results carry an explanation instead of an error.

IMPLEMENTATION RULES:
  - Settings apply in order; later ones win.

USAGE:
  s, _ := engine.ParseSetting("oxphos.upper=20")
  sol, why, err := e.SolveOnce(ctx, baseline, []engine.Setting{s})

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/cli/solve.go

MAINTENANCE:
  - None.
*/

package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/solver"
)

// Setting is a single bound override, written "reaction.lower=value".
type Setting struct {
	Reaction string
	Kind     model.BoundKind
	Value    float64
}

func (s Setting) String() string {
	return fmt.Sprintf("%s.%s=%g", s.Reaction, s.Kind, s.Value)
}

// ParseSetting parses "reaction.lower=value" or "reaction.upper=value".
func ParseSetting(s string) (Setting, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return Setting{}, fmt.Errorf("invalid setting %q: want reaction.lower=value", s)
	}
	dot := strings.LastIndex(key, ".")
	if dot <= 0 {
		return Setting{}, fmt.Errorf("invalid setting %q: want reaction.lower=value", s)
	}
	kind, err := model.ParseBoundKind(key[dot+1:])
	if err != nil {
		return Setting{}, fmt.Errorf("invalid setting %q: %w", s, err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Setting{}, fmt.Errorf("invalid setting %q: %w", s, err)
	}
	return Setting{Reaction: strings.TrimSpace(key[:dot]), Kind: kind, Value: v}, nil
}

// Apply returns a copy of b with every setting applied in order.
func Apply(m *model.Model, b model.Bounds, settings []Setting) (model.Bounds, error) {
	out := b.Clone()
	for _, s := range settings {
		var err error
		out, err = m.Override(out, s.Reaction, s.Kind, s.Value)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", s, err)
		}
	}
	return out, nil
}

// SolveOnce applies settings to the baseline and solves once. The returned
// explanation is set only for non-optimal solutions.
func (e *Engine) SolveOnce(ctx context.Context, baseline model.Bounds, settings []Setting) (model.Solution, string, error) {
	b, err := Apply(e.Model, baseline, settings)
	if err != nil {
		return model.Solution{}, "", err
	}
	if err := e.CheckBounds(b); err != nil {
		return model.Solution{}, "", err
	}
	sol, err := e.Solver.Solve(ctx, e.Model, b)
	if err != nil {
		return model.Solution{}, "", err
	}
	if sol.Optimal() {
		return sol, "", nil
	}
	return sol, solver.Explain(ctx, e.Solver, e.Model, b), nil
}
