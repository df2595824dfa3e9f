/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full sweep battery.

REQUIREMENTS:
  User-specified:
  - Run the sweeps, report objective values, plot results.
  - specific flags for overrides.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config, then re-validate.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load fails or engine run fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Engine.Run.

USAGE:
  flux-runner run -o ./results

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/flux-runner/internal/engine"
	"github.com/daryltucker/flux-runner/internal/output"
)

var (
	outputOverride  string
	workersOverride int
	noPlots         bool
	strictBounds    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario sweeps",
	Long: `Executes the configured sweep battery against the glycolysis network.
The process follows a strict protocol:
1. Assembly: Builds the model, applies baseline overrides and checks bound consistency.
2. Sweeps: Solves every point of every sweep group (Base, Low Glucose,
   Hexokinase Deficiency by default). Infeasible points are recorded with
   objective 0 and the sweep continues.
3. Output: Writes CSV and JSON Lines results and renders the objective and
   flux charts as PNG files.`,
	Example: `  # Run with defaults (uses flux_runner.yaml if present)
  flux-runner run

  # Write results somewhere else and skip the charts
  flux-runner run -o ./sweeps --no-plots

  # Solve the points of each group on 4 workers
  flux-runner run --workers 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// 2. Overrides
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workersOverride
		}
		if noPlots {
			cfg.Plots = false
		}
		if strictBounds {
			cfg.StrictBounds = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// 3. Execution
		report, err := engine.Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return output.PrintScenarios(cmd.OutOrStdout(), report.Scenarios())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for results (CSV/JSON/PNG)")
	runCmd.Flags().IntVar(&workersOverride, "workers", 1, "Number of points solved concurrently within a sweep group")
	runCmd.Flags().BoolVar(&noPlots, "no-plots", false, "Skip chart rendering")
	runCmd.Flags().BoolVar(&strictBounds, "strict", false, "Fail on inconsistent bounds instead of warning")
}
