/*
PURPOSE:
  Console tables for single solutions and sweep scenarios.

REQUIREMENTS:
  User-specified:
  - Print objective and fluxes per scenario.

  Implementation-discovered:
  - Mass-balance residuals are printed for verification.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli

ERROR HANDLING:
  - Returns the tabwriter flush error.

IMPLEMENTATION RULES:
  - Write to the given io.Writer, never directly to stdout.

USAGE:
  output.PrintSolution(cmd.OutOrStdout(), m, sol)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/cli/solve.go

MAINTENANCE:
  - None.
*/

package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/daryltucker/flux-runner/internal/model"
)

// PrintSolution writes status, objective and the flux of every reaction in
// model order, followed by the mass-balance residual of every metabolite.
func PrintSolution(w io.Writer, m *model.Model, sol model.Solution) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "status\t%s\n", sol.Status)
	if !sol.Optimal() {
		return tw.Flush()
	}
	fmt.Fprintf(tw, "objective (%s)\t%g\n", m.Objective().ID, sol.Objective)
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "reaction\tflux")
	for _, id := range m.ReactionIDs() {
		fmt.Fprintf(tw, "%s\t%g\n", id, sol.Fluxes[id])
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "metabolite\timbalance")
	residuals := m.Imbalance(sol.Fluxes)
	for _, met := range m.Metabolites() {
		fmt.Fprintf(tw, "%s\t%g\n", met.ID, residuals[met.ID])
	}
	return tw.Flush()
}

// PrintScenarios writes one line per scenario: label, status, objective.
func PrintScenarios(w io.Writer, results []model.ScenarioResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "scenario\tstatus\tobjective")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%g\n", r.Label, r.Status, r.Objective)
	}
	return tw.Flush()
}
