/*
PURPOSE:
  Resolves configured sweep groups into an explicit plan of points.
  Each point owns the bound vector it is solved with.

REQUIREMENTS:
  User-specified:
  - Base, Low Glucose and Hexokinase Deficiency groups with inclusive ranges.
  - Unknown reaction identifiers are fatal.

  Implementation-discovered:
  - Decimal steps accumulate float error, so points are rounded to the
    precision of start and step before labelling.
  - Ranges from config or flags are user input; their size is capped.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/engine/probe.go
  - Uses: internal/config, internal/model

ERROR HANDLING:
  - ErrEmptyRange for zero or backwards steps.
  - ErrRangeTooLarge above MaxRangePoints, before allocating.
  - model.ErrUnknownReaction wrapped with the sweep name.

IMPLEMENTATION RULES:
  - Never modify the baseline; every point gets a copy.

USAGE:
  plan, err := engine.NewPlan(m, baseline, cfg.Sweeps)

SELF-HEALING INSTRUCTIONS:
  - If labels show float noise, check decimals() against the step.

RELATED FILES:
  - internal/engine/sweep.go
  - internal/config/config.go

MAINTENANCE:
  - Update when sweep definitions gain new fields.
*/

package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/daryltucker/flux-runner/internal/config"
	"github.com/daryltucker/flux-runner/internal/model"
)

var (
	// ErrEmptyRange is returned for a zero step or a step pointing away from stop.
	ErrEmptyRange = errors.New("engine: empty parameter range")

	// ErrRangeTooLarge is returned when a range would exceed MaxRangePoints.
	ErrRangeTooLarge = errors.New("engine: parameter range too large")
)

// MaxRangePoints caps the number of points a single range may expand to.
const MaxRangePoints = 100_000

// Point is one solve of a sweep group.
type Point struct {
	Label     string
	Parameter float64
	Bounds    model.Bounds
}

// Group is a resolved sweep group.
type Group struct {
	Name     string
	Reaction string
	Kind     model.BoundKind
	Points   []Point
}

// Plan is the resolved sweep battery. Every point owns its bound vector;
// Baseline is never modified by running the plan.
type Plan struct {
	Baseline model.Bounds
	Groups   []Group
}

// Size returns the total number of points.
func (p *Plan) Size() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Points)
	}
	return n
}

// NewPlan resolves sweep definitions against the model. Unknown reactions
// fail here, before any solve runs.
func NewPlan(m *model.Model, baseline model.Bounds, sweeps []config.Sweep) (*Plan, error) {
	plan := &Plan{Baseline: baseline.Clone()}

	for _, s := range sweeps {
		if s.IsBase() {
			plan.Groups = append(plan.Groups, Group{
				Name:   s.Name,
				Points: []Point{{Label: labelOr(s.Label, s.Name), Bounds: plan.Baseline.Clone()}},
			})
			continue
		}

		idx, err := m.Index(s.Reaction)
		if err != nil {
			return nil, fmt.Errorf("sweep %q: %w", s.Name, err)
		}
		kind, err := model.ParseBoundKind(s.Bound)
		if err != nil {
			return nil, fmt.Errorf("sweep %q: %w", s.Name, err)
		}

		values := s.Values
		if len(values) == 0 {
			values, err = Range(s.Start, s.Stop, s.Step)
			if err != nil {
				return nil, fmt.Errorf("sweep %q: %w", s.Name, err)
			}
		}

		prefix := labelOr(s.Label, s.Name)
		g := Group{Name: s.Name, Reaction: s.Reaction, Kind: kind}
		for _, v := range values {
			g.Points = append(g.Points, Point{
				Label:     prefix + " " + strconv.FormatFloat(v, 'f', -1, 64),
				Parameter: v,
				Bounds:    plan.Baseline.WithKind(idx, kind, v),
			})
		}
		plan.Groups = append(plan.Groups, g)
	}
	return plan, nil
}

// Range returns start, start+step, ... up to and including stop. Points are
// rounded to the decimal precision of start and step, so 0..0.9 by 0.3 ends
// at 0.9 exactly.
func Range(start, stop, step float64) ([]float64, error) {
	if step == 0 || math.IsNaN(step) {
		return nil, fmt.Errorf("%w: step is zero", ErrEmptyRange)
	}
	span := (stop - start) / step
	if span < 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		return nil, fmt.Errorf("%w: %g to %g by %g", ErrEmptyRange, start, stop, step)
	}
	if span >= MaxRangePoints {
		return nil, fmt.Errorf("%w: %g to %g by %g exceeds %d points", ErrRangeTooLarge, start, stop, step, MaxRangePoints)
	}

	scale := math.Pow10(max(decimals(start), decimals(step)))
	n := int(math.Floor(span+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		v := start + float64(i)*step
		if scaled := v * scale; math.Abs(scaled) < 1<<53 {
			v = math.Round(scaled) / scale
		}
		out[i] = v
	}
	return out, nil
}

// decimals returns the number of fractional digits in the shortest decimal
// form of v, capped at 15.
func decimals(v float64) int {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	_, frac, ok := strings.Cut(s, ".")
	if !ok {
		return 0
	}
	return min(len(frac), 15)
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
