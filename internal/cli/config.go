package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daryltucker/flux-runner/internal/assets"
	"github.com/daryltucker/flux-runner/internal/config"
	"github.com/daryltucker/flux-runner/internal/output"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the Flux Runner configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the annotated default configuration (default ./flux_runner.yaml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := config.DefaultFiles[0]
		if len(args) == 1 {
			target = args[0]
		}

		if _, err := os.Stat(target); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", target, err)
		}

		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(target, assets.DefaultConfig, 0644); err != nil {
			return fmt.Errorf("failed to write config %s: %w", target, err)
		}

		output.Logger.Info("Config written", "path", target)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
