package network

import (
	"fmt"
	"math"
	"strings"

	"github.com/daryltucker/flux-runner/internal/model"
)

// Equation renders a reaction as "a + 2 b --> c". The arrow follows the
// default bounds: "<=>" when both directions are allowed, "<--" when only
// the reverse one is. Metabolites follow the model's metabolite order.
func Equation(m *model.Model, r model.Reaction) string {
	var lhs, rhs []string
	for _, met := range m.Metabolites() {
		coef, ok := r.Stoichiometry[met.ID]
		if !ok {
			continue
		}
		term := met.ID
		if a := math.Abs(coef); a != 1 {
			term = fmt.Sprintf("%g %s", a, met.ID)
		}
		if coef < 0 {
			lhs = append(lhs, term)
		} else {
			rhs = append(rhs, term)
		}
	}

	arrow := "-->"
	if r.Bound.Lower < 0 && r.Bound.Upper > 0 {
		arrow = "<=>"
	} else if r.Bound.Upper <= 0 && r.Bound.Lower < 0 {
		arrow = "<--"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", strings.Join(lhs, " + "), arrow, strings.Join(rhs, " + ")))
}
