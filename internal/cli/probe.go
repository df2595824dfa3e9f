/*
PURPOSE:
  Defines the 'probe' subcommand.
  Runs the ATP demand diagnostic and prints one row per demand level.

REQUIREMENTS:
  User-specified:
  - Find the highest sustainable ATP demand.

  Implementation-discovered:
  - Range flags override config only when given.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.ProbeDemand()

ERROR HANDLING:
  - Returns error for bad ranges or unknown reactions.

IMPLEMENTATION RULES:
  - Setup flags in init().

USAGE:
  flux-runner probe --keep-going

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/probe.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daryltucker/flux-runner/internal/engine"
)

var (
	probeStart     float64
	probeStop      float64
	probeStep      float64
	probeKeepGoing bool
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Raise ATP demand step by step until the pathway fails",
	Long: `Raises the configured bound of the demand reaction (atp_maintenance lower
by default) from start to stop and solves at every level. The probe stops at
the first infeasible level unless --keep-going is set.`,
	Example: `  flux-runner probe
  flux-runner probe --start 50 --stop 150 --step 5 --keep-going`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p := cfg.Probe
		flags := cmd.Flags()
		if flags.Changed("start") {
			p.Start = probeStart
		}
		if flags.Changed("stop") {
			p.Stop = probeStop
		}
		if flags.Changed("step") {
			p.Step = probeStep
		}
		if probeKeepGoing {
			p.StopOnInfeasible = false
		}

		e, err := engine.New(cfg)
		if err != nil {
			return err
		}
		baseline, err := e.Baseline()
		if err != nil {
			return err
		}
		res, err := e.ProbeDemand(cmd.Context(), baseline, p)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "demand\tstatus\tobjective\tyield")
		for _, s := range res.Steps {
			fmt.Fprintf(tw, "%g\t%s\t%g\t%.2f\n", s.Demand, s.Status, s.Objective, s.Yield)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if best, ok := res.MaxFeasible(); ok {
			fmt.Fprintf(out, "\nmax feasible %s demand: %g\n", res.Reaction, best)
		} else {
			fmt.Fprintf(out, "\nno feasible %s demand in range\n", res.Reaction)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().Float64Var(&probeStart, "start", 0, "First demand level (overrides config)")
	probeCmd.Flags().Float64Var(&probeStop, "stop", 0, "Last demand level (overrides config)")
	probeCmd.Flags().Float64Var(&probeStep, "step", 0, "Demand increment (overrides config)")
	probeCmd.Flags().BoolVar(&probeKeepGoing, "keep-going", false, "Continue past infeasible demand levels")
}
