/*
PURPOSE:
  Assembles metabolites and reactions into a single optimizable Model.
  Acts as the validated registry for reaction and metabolite identifiers.

REQUIREMENTS:
  User-specified:
  - Exactly one objective reaction with coefficient 1.
  - Bound inconsistency (lower > upper) is reported, never rejected.
  - Unknown identifiers fail loudly.

  Implementation-discovered:
  - The derived metabolite set keeps the declaration order of the metabolites.
  - Bounds live outside the Model so sweeps never mutate shared state.

ARCHITECTURE INTEGRATION:
  - Called by: internal/network (Build), internal/engine
  - Read by: internal/solver

ERROR HANDLING:
  - Construction errors wrap ErrDuplicateID, ErrUnknownMetabolite,
    ErrInvalidReaction or ErrUnknownReaction.
  - CheckBounds returns BoundIssue values for the caller to log.

IMPLEMENTATION RULES:
  - A Model is read-only after New; safe for concurrent readers.
  - Stoichiometry maps are copied on construction.

USAGE:
  m, err := model.New("glycolysis", mets, rxns, "atp_maintenance")
  b := m.DefaultBounds().WithLower(idx, -20)

SELF-HEALING INSTRUCTIONS:
  - If a lookup fails at runtime, resolve identifiers earlier (engine.NewPlan).

RELATED FILES:
  - internal/model/bounds.go
  - internal/network/network.go

MAINTENANCE:
  - Update when supporting multi-objective models (not planned).
*/

package model

import (
	"fmt"
	"maps"
	"slices"
)

// Model is an ordered collection of reactions with one objective reaction.
type Model struct {
	name        string
	reactions   []Reaction
	metabolites []Metabolite
	rxnIndex    map[string]int
	metIndex    map[string]int
	objective   int
	defaults    Bounds
}

// New validates the inputs and builds a Model. Metabolites not referenced by
// any reaction are left out of the derived metabolite set.
func New(name string, metabolites []Metabolite, reactions []Reaction, objective string) (*Model, error) {
	known := make(map[string]Metabolite, len(metabolites))
	for _, met := range metabolites {
		if met.ID == "" {
			return nil, fmt.Errorf("%w: metabolite without id", ErrInvalidReaction)
		}
		if _, dup := known[met.ID]; dup {
			return nil, fmt.Errorf("%w: metabolite %q", ErrDuplicateID, met.ID)
		}
		known[met.ID] = met
	}

	m := &Model{
		name:     name,
		rxnIndex: make(map[string]int, len(reactions)),
		metIndex: make(map[string]int, len(metabolites)),
	}

	used := make(map[string]bool, len(metabolites))
	for _, r := range reactions {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: reaction without id", ErrInvalidReaction)
		}
		if _, dup := m.rxnIndex[r.ID]; dup {
			return nil, fmt.Errorf("%w: reaction %q", ErrDuplicateID, r.ID)
		}

		stoich := make(map[string]float64, len(r.Stoichiometry))
		for _, metID := range slices.Sorted(maps.Keys(r.Stoichiometry)) {
			coef := r.Stoichiometry[metID]
			met, ok := known[metID]
			if !ok {
				return nil, fmt.Errorf("%w: %q in reaction %q", ErrUnknownMetabolite, metID, r.ID)
			}
			if coef == 0 {
				return nil, fmt.Errorf("%w: zero coefficient for %q in reaction %q", ErrInvalidReaction, metID, r.ID)
			}
			stoich[metID] = coef
			used[met.ID] = true
		}

		m.rxnIndex[r.ID] = len(m.reactions)
		m.reactions = append(m.reactions, Reaction{
			ID:            r.ID,
			Name:          r.Name,
			Stoichiometry: stoich,
			Bound:         r.Bound,
		})
		m.defaults = append(m.defaults, r.Bound)
	}

	for _, met := range metabolites {
		if used[met.ID] {
			m.metIndex[met.ID] = len(m.metabolites)
			m.metabolites = append(m.metabolites, met)
		}
	}

	idx, err := m.Index(objective)
	if err != nil {
		return nil, fmt.Errorf("objective: %w", err)
	}
	m.objective = idx

	return m, nil
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// NumReactions returns the number of reactions.
func (m *Model) NumReactions() int { return len(m.reactions) }

// NumMetabolites returns the number of metabolites in the derived set.
func (m *Model) NumMetabolites() int { return len(m.metabolites) }

// Reactions returns the reactions in model order. Callers must not modify
// the stoichiometry maps.
func (m *Model) Reactions() []Reaction {
	out := make([]Reaction, len(m.reactions))
	copy(out, m.reactions)
	return out
}

// Reaction returns reaction i.
func (m *Model) Reaction(i int) Reaction { return m.reactions[i] }

// Metabolites returns the derived metabolite set in declaration order.
func (m *Model) Metabolites() []Metabolite {
	out := make([]Metabolite, len(m.metabolites))
	copy(out, m.metabolites)
	return out
}

// ReactionIDs returns reaction identifiers in model order.
func (m *Model) ReactionIDs() []string {
	ids := make([]string, len(m.reactions))
	for i, r := range m.reactions {
		ids[i] = r.ID
	}
	return ids
}

// Index resolves a reaction identifier.
func (m *Model) Index(id string) (int, error) {
	i, ok := m.rxnIndex[id]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownReaction, id)
	}
	return i, nil
}

// MetaboliteIndex resolves a metabolite identifier.
func (m *Model) MetaboliteIndex(id string) (int, error) {
	i, ok := m.metIndex[id]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownMetabolite, id)
	}
	return i, nil
}

// Objective returns the objective reaction.
func (m *Model) Objective() Reaction { return m.reactions[m.objective] }

// ObjectiveIndex returns the position of the objective reaction.
func (m *Model) ObjectiveIndex() int { return m.objective }

// ObjectiveCoefficients returns every reaction with a nonzero objective
// coefficient. Single-objective models always return one entry.
func (m *Model) ObjectiveCoefficients() map[string]float64 {
	return map[string]float64{m.reactions[m.objective].ID: 1}
}

// DefaultBounds returns a copy of the bounds the reactions were declared with.
func (m *Model) DefaultBounds() Bounds { return m.defaults.Clone() }

// Override returns a copy of b with one side of reaction id set to v.
func (m *Model) Override(b Bounds, id string, kind BoundKind, v float64) (Bounds, error) {
	i, err := m.Index(id)
	if err != nil {
		return nil, err
	}
	return b.WithKind(i, kind, v), nil
}

// CheckBounds returns one issue per reaction with lower > upper.
func (m *Model) CheckBounds(b Bounds) []BoundIssue {
	var issues []BoundIssue
	for i, bound := range b {
		if !bound.Consistent() {
			issues = append(issues, BoundIssue{
				Reaction: m.reactions[i].ID,
				Lower:    bound.Lower,
				Upper:    bound.Upper,
			})
		}
	}
	return issues
}

// Coefficient returns the stoichiometric coefficient of metabolite row
// in reaction col, 0 when the reaction does not touch it.
func (m *Model) Coefficient(row, col int) float64 {
	return m.reactions[col].Stoichiometry[m.metabolites[row].ID]
}

// ReactionsOf lists, in model order, the reactions touching a metabolite.
func (m *Model) ReactionsOf(metaboliteID string) ([]string, error) {
	if _, err := m.MetaboliteIndex(metaboliteID); err != nil {
		return nil, err
	}
	var ids []string
	for _, r := range m.reactions {
		if _, ok := r.Stoichiometry[metaboliteID]; ok {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

// Imbalance returns, per metabolite, the net production sum(flux * coefficient).
// A steady-state solution has every entry at zero.
func (m *Model) Imbalance(fluxes map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m.metabolites))
	for _, met := range m.metabolites {
		out[met.ID] = 0
	}
	for _, r := range m.reactions {
		v := fluxes[r.ID]
		for metID, coef := range r.Stoichiometry {
			out[metID] += v * coef
		}
	}
	return out
}
