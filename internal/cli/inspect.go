/*
PURPOSE:
  Defines the 'inspect' subcommand.
  Prints the assembled network for debugging.

REQUIREMENTS:
  User-specified:
  - Show reactions with stoichiometry and bounds.
  - Show which reactions produce or consume each metabolite.
  - Show the inputs of the objective reaction.

  Implementation-discovered:
  - Useful validation step before a full run.
  - Bounds shown are the baseline (defaults plus config overrides).

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.New(), internal/network.Equation()

ERROR HANDLING:
  - Inconsistent bounds are logged as warnings by the engine.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  flux-runner inspect

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/network/network.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daryltucker/flux-runner/internal/engine"
	"github.com/daryltucker/flux-runner/internal/network"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print reactions, metabolites and the objective of the network",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		e, err := engine.New(cfg)
		if err != nil {
			return err
		}
		baseline, err := e.Baseline()
		if err != nil {
			return err
		}
		m := e.Model

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "model %s: %d reactions, %d metabolites\n\n", m.Name(), m.NumReactions(), m.NumMetabolites())

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "reaction\tequation\tlower\tupper")
		for i, r := range m.Reactions() {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%g\n", r.ID, network.Equation(m, r), baseline[i].Lower, baseline[i].Upper)
		}
		fmt.Fprintln(tw, "\t")
		fmt.Fprintln(tw, "metabolite\tcompartment\treactions")
		for _, met := range m.Metabolites() {
			rxns, err := m.ReactionsOf(met.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", met.ID, met.Compartment, strings.Join(rxns, ", "))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		obj := m.Objective()
		var inputs []string
		for id, coef := range obj.Stoichiometry {
			if coef < 0 {
				inputs = append(inputs, fmt.Sprintf("%s (%g)", id, coef))
			}
		}
		slices.Sort(inputs)
		fmt.Fprintf(out, "\nobjective: maximize %s\n", obj.ID)
		fmt.Fprintf(out, "objective inputs: %s\n", strings.Join(inputs, ", "))

		if issues := m.CheckBounds(baseline); len(issues) > 0 {
			fmt.Fprintf(out, "bound check: %d inconsistent reaction(s)\n", len(issues))
		} else {
			fmt.Fprintln(out, "bound check: ok")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
