/*
PURPOSE:
  Defines the root Cobra command for the Flux Runner CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose Execute()/ExecuteContext() for main.go.
  - Log level and format are global, so they live on the root command.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/flux-runner/main.go
  - Calls: Child commands (run, probe, solve, inspect, config)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to init() and loadConfig().

RELATED FILES:
  - cmd/flux-runner/main.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/daryltucker/flux-runner/internal/config"
	"github.com/daryltucker/flux-runner/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile   string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "flux-runner",
		Short: "Flux balance sweeps over a toy glycolysis network",
		Long: `Builds a four-metabolite, five-reaction glycolysis network, solves it as a
flux balance linear program and sweeps reaction bounds to see how ATP
production and the flux distribution respond. Use 'run --help' for sweep options.`,
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext executes the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./flux_runner.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

// loadConfig loads the config file, applies global flag overrides and
// configures the logger. Logs go to stderr so tables on stdout stay clean.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := output.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	return cfg, nil
}
