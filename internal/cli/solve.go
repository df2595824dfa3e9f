/*
PURPOSE:
  Defines the 'solve' subcommand.
  Solves the model once with repeatable --set bound settings.

REQUIREMENTS:
  User-specified:
  - Validate the model and inspect single scenarios.

  Implementation-discovered:
  - Infeasible solves print the explanation after the table.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.SolveOnce()

ERROR HANDLING:
  - Returns error for malformed settings.

IMPLEMENTATION RULES:
  - Setup flags in init().

USAGE:
  flux-runner solve --set oxphos.upper=20

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/solve.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/flux-runner/internal/engine"
	"github.com/daryltucker/flux-runner/internal/output"
)

var solveSettings []string

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the model once with ad-hoc bound settings",
	Example: `  flux-runner solve
  flux-runner solve --set oxphos.upper=20
  flux-runner solve --set EX_glucose.lower=0 --set atp_maintenance.lower=10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		settings := make([]engine.Setting, 0, len(solveSettings))
		for _, raw := range solveSettings {
			s, err := engine.ParseSetting(raw)
			if err != nil {
				return err
			}
			settings = append(settings, s)
		}

		e, err := engine.New(cfg)
		if err != nil {
			return err
		}
		baseline, err := e.Baseline()
		if err != nil {
			return err
		}
		sol, explanation, err := e.SolveOnce(cmd.Context(), baseline, settings)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := output.PrintSolution(out, e.Model, sol); err != nil {
			return err
		}
		if explanation != "" {
			fmt.Fprintf(out, "explanation: %s\n", explanation)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringArrayVar(&solveSettings, "set", nil, "Bound setting reaction.lower=value or reaction.upper=value (repeatable)")
}
