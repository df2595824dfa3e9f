package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/flux-runner/internal/assets"
	"github.com/daryltucker/flux-runner/internal/output"
)

func TestMain(m *testing.M) {
	output.Discard()
	os.Exit(m.Run())
}

// resetFlags restores every flag of cmd and its children to its default.
// Flag values live in package variables and outlive a single execution.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(t, c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(output.Discard)
	resetFlags(t, rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig runs `config init` into a temp dir and returns the file path.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf", "flux_runner.yaml")
	_, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	return path
}

func TestConfigInit(t *testing.T) {
	path := writeConfig(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, assets.DefaultConfig, data)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestInspect(t *testing.T) {
	out, err := execute(t, "inspect", "--config", writeConfig(t))
	require.NoError(t, err)

	assert.Contains(t, out, "glycolysis_debug: 5 reactions, 4 metabolites")
	assert.Contains(t, out, "glucose + adp --> glucose_6p + atp")
	assert.Contains(t, out, "EX_glucose, hexokinase")
	assert.Contains(t, out, "objective: maximize atp_maintenance")
	assert.Contains(t, out, "objective inputs: atp (-1)")
	assert.Contains(t, out, "bound check: ok")
}

func TestSolve(t *testing.T) {
	out, err := execute(t, "solve", "--config", writeConfig(t), "--set", "oxphos.upper=20")
	require.NoError(t, err)

	assert.Contains(t, out, "optimal")
	assert.Contains(t, out, "objective (atp_maintenance)")
	assert.Contains(t, out, "pyruvate_kinase")
	assert.NotContains(t, out, "explanation")
}

// TestSolveTwice checks that --set values do not carry over between runs.
func TestSolveTwice(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "solve", "--config", path, "--set", "EX_glucose.lower=0")
	require.NoError(t, err)
	assert.Contains(t, out, "infeasible")
	assert.Contains(t, out, "atp_maintenance lower bound 10")

	out, err = execute(t, "solve", "--config", path, "--set", "oxphos.upper=20")
	require.NoError(t, err)
	assert.Contains(t, out, "optimal")
	assert.NotContains(t, out, "infeasible")
	assert.NotContains(t, out, "explanation")
	assert.Equal(t, []string{"oxphos.upper=20"}, solveSettings)
}

// TestProbeKeepGoingDoesNotLeak runs the probe with and then without --keep-going.
func TestProbeKeepGoingDoesNotLeak(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "probe", "--config", path, "--keep-going")
	require.NoError(t, err)
	assert.Contains(t, out, "200")

	out, err = execute(t, "probe", "--config", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "200")
	assert.False(t, probeKeepGoing)
}

func TestProbe(t *testing.T) {
	out, err := execute(t, "probe", "--config", writeConfig(t))
	require.NoError(t, err)

	assert.Contains(t, out, "demand")
	assert.Contains(t, out, "infeasible")
	assert.Contains(t, out, "max feasible atp_maintenance demand: 120")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "--config", writeConfig(t), "-o", dir, "--no-plots")
	require.NoError(t, err)

	assert.Contains(t, out, "Low Glucose -20")
	assert.Contains(t, out, "Hexokinase 905")
	assert.FileExists(t, filepath.Join(dir, "scenarios.csv"))
	assert.FileExists(t, filepath.Join(dir, "scenarios.jsonl"))
	assert.NoFileExists(t, filepath.Join(dir, "objective.png"))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "inspect", "--config", writeConfig(t), "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
