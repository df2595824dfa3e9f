/*
PURPOSE:
  Explains why a bound vector is infeasible.

REQUIREMENTS:
  User-specified:
  - Print an explanation for infeasible scenarios.
  - Fall back to a fixed message when the solver cannot explain.

  Implementation-discovered:
  - Relaxing one forced bound at a time finds the blocking constraint
    on networks this size.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/sweep.go, internal/engine/solve.go
  - Uses: internal/model, internal/output

ERROR HANDLING:
  - Explain never fails: errors and panics become ExplanationFailed.

IMPLEMENTATION RULES:
  - Explanation is best effort and never aborts a sweep.

USAGE:
  text := solver.Explain(ctx, s, m, b)

SELF-HEALING INSTRUCTIONS:
  - If a new backend is added, implement Explainer or accept the fallback.

RELATED FILES:
  - internal/solver/solver.go

MAINTENANCE:
  - None.
*/

package solver

import (
	"context"
	"fmt"
	"strings"

	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/output"
)

const (
	// ExplanationUnsupported is returned when the solver cannot explain infeasibility.
	ExplanationUnsupported = "Infeasibility explanation is not supported by the current solver."
	// ExplanationFailed is returned when the explainer itself failed.
	ExplanationFailed = "Error occurred while explaining infeasibility."
)

// Explainer is implemented by solvers that can describe why a bound vector
// is infeasible.
type Explainer interface {
	Explain(ctx context.Context, m *model.Model, b model.Bounds) (string, error)
}

// Explain returns a best-effort explanation for an infeasible bound vector.
// It never fails: unsupported solvers and explainer errors or panics are
// turned into fixed messages.
func Explain(ctx context.Context, s Solver, m *model.Model, b model.Bounds) (text string) {
	ex, ok := s.(Explainer)
	if !ok {
		return ExplanationUnsupported
	}
	defer func() {
		if r := recover(); r != nil {
			output.Logger.Warn("Failed to explain infeasibility", "panic", r)
			text = ExplanationFailed
		}
	}()
	text, err := ex.Explain(ctx, m, b)
	if err != nil {
		output.Logger.Warn("Failed to explain infeasibility", "error", err)
		return ExplanationFailed
	}
	return text
}

// Explain lists inconsistent bounds first. Otherwise it relaxes, one at a
// time, every bound that forces flux away from zero and reports those whose
// relaxation makes the problem feasible.
func (s *Simplex) Explain(ctx context.Context, m *model.Model, b model.Bounds) (string, error) {
	if issues := m.CheckBounds(b); len(issues) > 0 {
		parts := make([]string, len(issues))
		for i, issue := range issues {
			parts[i] = issue.Error()
		}
		return strings.Join(parts, "; "), nil
	}

	sol, err := s.Solve(ctx, m, b)
	if err != nil {
		return "", err
	}
	if sol.Optimal() {
		return "model is feasible under the given bounds", nil
	}

	var blocking []string
	for i, bound := range b {
		id := m.Reaction(i).ID
		if bound.Lower > 0 {
			ok, err := s.feasible(ctx, m, b.WithLower(i, 0))
			if err != nil {
				return "", err
			}
			if ok {
				blocking = append(blocking, fmt.Sprintf("%s lower bound %g", id, bound.Lower))
			}
		}
		if bound.Upper < 0 {
			ok, err := s.feasible(ctx, m, b.WithUpper(i, 0))
			if err != nil {
				return "", err
			}
			if ok {
				blocking = append(blocking, fmt.Sprintf("%s upper bound %g", id, bound.Upper))
			}
		}
	}
	if len(blocking) == 0 {
		return "no single forced bound explains the infeasibility", nil
	}
	return "relaxing any of these bounds to 0 restores feasibility: " + strings.Join(blocking, ", "), nil
}

func (s *Simplex) feasible(ctx context.Context, m *model.Model, b model.Bounds) (bool, error) {
	sol, err := s.Solve(ctx, m, b)
	if err != nil {
		return false, err
	}
	return sol.Optimal(), nil
}
