/*
PURPOSE:
  Defines the core data structures used throughout Flux Runner.
  These types describe the metabolic network, solver outcomes and the
  per-scenario records produced by a sweep.

REQUIREMENTS:
  User-specified:
  - Metabolites with id, display name and compartment.
  - Reactions with signed stoichiometry and lower/upper bounds.
  - Record objective value and full flux mapping per scenario.

  Implementation-discovered:
  - Need JSON tags for the JSON Lines writer.
  - Infeasible scenarios still produce a record (objective 0, empty fluxes).

ARCHITECTURE INTEGRATION:
  - Used by: internal/network, internal/solver, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Solutions and ScenarioResults are never mutated after creation.

USAGE:
  res := model.ScenarioResult{Group: "Base", Label: "Base", ...}

SELF-HEALING INSTRUCTIONS:
  - If new per-scenario fields are needed, add them here and update the CSV/JSON writers.

RELATED FILES:
  - internal/model/model.go
  - internal/output/csv.go
  - internal/output/json.go

MAINTENANCE:
  - Update when adding new solver outputs to capture.
*/

package model

// Metabolite is a chemical species of the network. Immutable after creation.
type Metabolite struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Compartment string `json:"compartment" yaml:"compartment"`
}

// Reaction converts metabolites at a rate (flux). Negative coefficients are
// consumed, positive ones produced.
type Reaction struct {
	ID            string             `json:"id" yaml:"id"`
	Name          string             `json:"name,omitempty" yaml:"name"`
	Stoichiometry map[string]float64 `json:"stoichiometry" yaml:"stoichiometry"`
	Bound         Bound              `json:"bound" yaml:"bound"`
}

// Status is the outcome class of a single solve.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusUnbounded  Status = "unbounded"
)

// Solution is the result of one linear program solve.
// Objective and Fluxes are meaningful only when Status is StatusOptimal.
type Solution struct {
	Status    Status             `json:"status"`
	Objective float64            `json:"objective"`
	Fluxes    map[string]float64 `json:"fluxes"`
}

// Optimal reports whether the solve found an optimum.
func (s Solution) Optimal() bool {
	return s.Status == StatusOptimal
}

// ScenarioResult records one sweep step.
type ScenarioResult struct {
	Group       string             `json:"group"`
	Label       string             `json:"label"`
	Parameter   float64            `json:"parameter"`
	Status      Status             `json:"status"`
	Objective   float64            `json:"objective"`
	Fluxes      map[string]float64 `json:"fluxes"`
	Explanation string             `json:"explanation,omitempty"`
}

// Feasible reports whether the scenario carries a flux distribution.
func (r ScenarioResult) Feasible() bool {
	return r.Status == StatusOptimal && len(r.Fluxes) > 0
}

// NewScenarioResult converts a solution into a scenario record. Non-optimal
// solutions are recorded with a zero objective and an empty flux mapping.
func NewScenarioResult(group, label string, parameter float64, sol Solution) ScenarioResult {
	res := ScenarioResult{
		Group:     group,
		Label:     label,
		Parameter: parameter,
		Status:    sol.Status,
		Fluxes:    map[string]float64{},
	}
	if sol.Optimal() {
		res.Objective = sol.Objective
		for id, v := range sol.Fluxes {
			res.Fluxes[id] = v
		}
	}
	return res
}

// GroupResult holds the ordered results of one sweep group.
type GroupResult struct {
	Name      string           `json:"name"`
	Reaction  string           `json:"reaction,omitempty"`
	BoundKind string           `json:"bound,omitempty"`
	Results   []ScenarioResult `json:"results"`
}

// Objectives returns the objective of every scenario in sweep order.
func (g GroupResult) Objectives() []float64 {
	out := make([]float64, len(g.Results))
	for i, r := range g.Results {
		out[i] = r.Objective
	}
	return out
}

// Parameters returns the sweep parameter of every scenario in sweep order.
func (g GroupResult) Parameters() []float64 {
	out := make([]float64, len(g.Results))
	for i, r := range g.Results {
		out[i] = r.Parameter
	}
	return out
}

// Report is the full outcome of a sweep battery.
type Report struct {
	RunID  string        `json:"run_id"`
	Model  string        `json:"model"`
	Groups []GroupResult `json:"groups"`
}

// Scenarios flattens all groups in run order.
func (r Report) Scenarios() []ScenarioResult {
	var out []ScenarioResult
	for _, g := range r.Groups {
		out = append(out, g.Results...)
	}
	return out
}

// Fluxes returns the combined scenario label -> flux mapping. Labels are
// returned separately to preserve run order.
func (r Report) Fluxes() ([]string, map[string]map[string]float64) {
	var labels []string
	fluxes := make(map[string]map[string]float64)
	for _, s := range r.Scenarios() {
		if _, seen := fluxes[s.Label]; !seen {
			labels = append(labels, s.Label)
		}
		fluxes[s.Label] = s.Fluxes
	}
	return labels, fluxes
}
