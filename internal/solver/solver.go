/*
PURPOSE:
  Linear Program Adapter. Turns a Model plus a bound vector into a flux
  balance linear program and solves it.

REQUIREMENTS:
  User-specified:
  - For each metabolite: sum of signed fluxes = 0 (steady state).
  - For each reaction: lower <= flux <= upper.
  - Maximize the objective reaction's flux.
  - Infeasibility is a status, never an error.

  Implementation-discovered:
  - gonum's Simplex wants standard form (A x = b, x >= 0) with full row rank.
  - Conserved moieties (atp + adp) make metabolite rows linearly dependent.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Uses: internal/model, gonum.org/v1/gonum/optimize/convex/lp

ERROR HANDLING:
  - lp.ErrInfeasible / lp.ErrUnbounded become statuses.
  - Any other simplex failure is returned to the caller.

IMPLEMENTATION RULES:
  - Stateless; safe for concurrent use.
  - Each Solve is independent (no warm start).

USAGE:
  s := solver.NewSimplex()
  sol, err := s.Solve(ctx, m, m.DefaultBounds())

SELF-HEALING INSTRUCTIONS:
  - If Simplex reports ErrSingular, check independentRows tolerance.

RELATED FILES:
  - internal/solver/explain.go
  - internal/model/model.go

MAINTENANCE:
  - Update if another LP backend is added behind the Solver interface.
*/

package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/daryltucker/flux-runner/internal/model"
)

// DefaultTolerance is the simplex optimality tolerance and the threshold
// under which fluxes are reported as zero.
const DefaultTolerance = 1e-9

// rankCondition is the relative singular value cutoff for row selection.
const rankCondition = 1e-10

// ErrNonFiniteBound is returned when a bound is NaN or infinite.
var ErrNonFiniteBound = errors.New("solver: non-finite bound")

// Solver solves the flux balance problem of a model under a bound vector.
type Solver interface {
	Solve(ctx context.Context, m *model.Model, b model.Bounds) (model.Solution, error)
}

// Simplex is the gonum-backed Solver.
type Simplex struct {
	Tolerance float64
}

// NewSimplex returns a Simplex solver with DefaultTolerance.
func NewSimplex() *Simplex {
	return &Simplex{Tolerance: DefaultTolerance}
}

// Name identifies the backend in logs.
func (s *Simplex) Name() string { return "gonum-simplex" }

// Solve maximizes the objective reaction's flux.
//
// Fluxes are shifted to v = l + y with y >= 0 and every reaction gets a slack
// s with y + s = u - l. Mass balance becomes S*y = -S*l over a linearly
// independent subset of metabolite rows; dropped rows are linear combinations
// of kept ones, and so is their right-hand side.
func (s *Simplex) Solve(ctx context.Context, m *model.Model, b model.Bounds) (model.Solution, error) {
	if err := ctx.Err(); err != nil {
		return model.Solution{}, err
	}
	n := m.NumReactions()
	if len(b) != n {
		return model.Solution{}, fmt.Errorf("solver: %d bounds for %d reactions", len(b), n)
	}
	for i, bound := range b {
		if !finite(bound.Lower) || !finite(bound.Upper) {
			return model.Solution{}, fmt.Errorf("%w: reaction %q [%g, %g]", ErrNonFiniteBound, m.Reaction(i).ID, bound.Lower, bound.Upper)
		}
	}
	if len(m.CheckBounds(b)) > 0 {
		return infeasible(), nil
	}

	stoich := make([][]float64, m.NumMetabolites())
	for i := range stoich {
		stoich[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			stoich[i][j] = m.Coefficient(i, j)
		}
	}
	rows := independentRows(stoich)

	k := len(rows)
	A := mat.NewDense(k+n, 2*n, nil)
	rhs := make([]float64, k+n)
	for r, i := range rows {
		var shift float64
		for j := 0; j < n; j++ {
			A.Set(r, j, stoich[i][j])
			shift += stoich[i][j] * b[j].Lower
		}
		rhs[r] = -shift
	}
	for j := 0; j < n; j++ {
		A.Set(k+j, j, 1)
		A.Set(k+j, n+j, 1)
		rhs[k+j] = b[j].Upper - b[j].Lower
	}
	for r := range rhs {
		if rhs[r] < 0 {
			rhs[r] = -rhs[r]
			for c := 0; c < 2*n; c++ {
				A.Set(r, c, -A.At(r, c))
			}
		}
	}

	cost := make([]float64, 2*n)
	cost[m.ObjectiveIndex()] = -1

	_, x, err := lp.Simplex(cost, A, rhs, s.Tolerance, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return infeasible(), nil
	case errors.Is(err, lp.ErrUnbounded):
		return model.Solution{Status: model.StatusUnbounded, Fluxes: map[string]float64{}}, nil
	case err != nil:
		return model.Solution{}, fmt.Errorf("solver: simplex: %w", err)
	}

	fluxes := make(map[string]float64, n)
	for j := 0; j < n; j++ {
		fluxes[m.Reaction(j).ID] = s.snap(b[j].Lower + x[j])
	}
	return model.Solution{
		Status:    model.StatusOptimal,
		Objective: fluxes[m.Objective().ID],
		Fluxes:    fluxes,
	}, nil
}

func (s *Simplex) snap(v float64) float64 {
	if math.Abs(v) < s.Tolerance {
		return 0
	}
	return v
}

// independentRows returns the indices of a maximal linearly independent
// subset of rows, keeping earlier rows first.
func independentRows(rows [][]float64) []int {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	var keep []int
	rank := 0
	for i := range rows {
		cand := append(keep[:len(keep):len(keep)], i)
		d := mat.NewDense(len(cand), cols, nil)
		for r, idx := range cand {
			d.SetRow(r, rows[idx])
		}
		var svd mat.SVD
		if !svd.Factorize(d, mat.SVDNone) {
			continue
		}
		if got := svd.Rank(rankCondition); got > rank {
			keep, rank = cand, got
		}
	}
	return keep
}

func infeasible() model.Solution {
	return model.Solution{Status: model.StatusInfeasible, Fluxes: map[string]float64{}}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
