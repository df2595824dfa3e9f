/*
PURPOSE:
  Declares the toy glycolysis network: four metabolites, five reactions,
  their stoichiometry and default bounds.

REQUIREMENTS:
  User-specified:
  - Glucose uptake EX_glucose in [-40, 0].
  - ATP maintenance is the objective, with a minimum demand of 10.

  Implementation-discovered:
  - Reaction identifiers are exported constants so no caller spells them by hand.

ARCHITECTURE INTEGRATION:
  - Calls: internal/model.New
  - Used by: internal/engine, internal/cli

ERROR HANDLING:
  - Build only fails if the static data is broken (covered by tests).

IMPLEMENTATION RULES:
  - No inputs, deterministic output, no side effects.

USAGE:
  m, err := network.Build()

SELF-HEALING INSTRUCTIONS:
  - When adding a reaction, add its constant, its row in Reactions() and a test.

RELATED FILES:
  - internal/model/model.go

MAINTENANCE:
  - Update when the network grows.
*/

package network

import (
	"github.com/daryltucker/flux-runner/internal/model"
)

// Name is the model name used in reports.
const Name = "glycolysis_debug"

// Metabolite identifiers.
const (
	Glucose   = "glucose"
	Glucose6P = "glucose_6p"
	ATP       = "atp"
	ADP       = "adp"
)

// Reaction identifiers.
const (
	ExGlucose      = "EX_glucose"
	Hexokinase     = "hexokinase"
	Oxphos         = "oxphos"
	PyruvateKinase = "pyruvate_kinase"
	ATPMaintenance = "atp_maintenance"
)

// Objective is the reaction whose flux is maximized.
const Objective = ATPMaintenance

// Metabolites returns the metabolites of the network.
func Metabolites() []model.Metabolite {
	return []model.Metabolite{
		{ID: Glucose, Name: "Glucose", Compartment: "e"},
		{ID: Glucose6P, Name: "Glucose-6-Phosphate", Compartment: "c"},
		{ID: ATP, Name: "ATP", Compartment: "c"},
		{ID: ADP, Name: "ADP", Compartment: "c"},
	}
}

// Reactions returns the reactions of the network with their default bounds.
func Reactions() []model.Reaction {
	return []model.Reaction{
		{
			ID:            ExGlucose,
			Name:          "Glucose exchange",
			Stoichiometry: map[string]float64{Glucose: -1},
			Bound:         model.Bound{Lower: -40, Upper: 0},
		},
		{
			ID:   Hexokinase,
			Name: "Hexokinase",
			Stoichiometry: map[string]float64{
				Glucose:   -1,
				ADP:       -1,
				Glucose6P: 1,
				ATP:       1,
			},
			Bound: model.Bound{Lower: 0, Upper: 2000},
		},
		{
			ID:   Oxphos,
			Name: "Oxidative phosphorylation",
			Stoichiometry: map[string]float64{
				Glucose6P: -1,
				ADP:       -2,
				ATP:       2,
			},
			Bound: model.Bound{Lower: 0, Upper: 1000},
		},
		{
			ID:   PyruvateKinase,
			Name: "Pyruvate kinase",
			Stoichiometry: map[string]float64{
				Glucose6P: -1,
				ADP:       -1,
				ATP:       1,
			},
			Bound: model.Bound{Lower: 0, Upper: 1000},
		},
		{
			ID:   ATPMaintenance,
			Name: "ATP maintenance",
			Stoichiometry: map[string]float64{
				ATP: -1,
				ADP: 1,
			},
			Bound: model.Bound{Lower: 10, Upper: 1000},
		},
	}
}

// Build assembles the network into a model with ATP maintenance as objective.
func Build() (*model.Model, error) {
	return model.New(Name, Metabolites(), Reactions(), Objective)
}
