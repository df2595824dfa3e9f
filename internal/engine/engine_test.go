package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/daryltucker/flux-runner/internal/config"
	"github.com/daryltucker/flux-runner/internal/engine"
	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/network"
	"github.com/daryltucker/flux-runner/internal/output"
)

const eps = 1e-6

func TestMain(m *testing.M) {
	output.Discard()
	os.Exit(m.Run())
}

// EngineSuite runs the default sweep battery end to end.
type EngineSuite struct {
	suite.Suite
	ctx context.Context
	cfg *config.Config
	eng *engine.Engine
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.DefaultConfig()
	s.cfg.OutputDir = s.T().TempDir()

	eng, err := engine.New(s.cfg)
	require.NoError(s.T(), err)
	s.eng = eng
}

func (s *EngineSuite) baseline() model.Bounds {
	b, err := s.eng.Baseline()
	require.NoError(s.T(), err)
	return b
}

func (s *EngineSuite) plan() *engine.Plan {
	p, err := engine.NewPlan(s.eng.Model, s.baseline(), s.cfg.Sweeps)
	require.NoError(s.T(), err)
	return p
}

func (s *EngineSuite) TestBaseline() {
	b := s.baseline()
	ex, err := s.eng.Model.Index(network.ExGlucose)
	require.NoError(s.T(), err)
	require.Equal(s.T(), -40.0, b[ex].Lower)
	require.True(s.T(), b.Equal(s.eng.Model.DefaultBounds()))
}

func (s *EngineSuite) TestBaselineUnknownOverride() {
	s.cfg.Overrides = append(s.cfg.Overrides, config.Override{Reaction: "nope", Upper: ptr(1)})
	_, err := s.eng.Baseline()
	require.ErrorIs(s.T(), err, model.ErrUnknownReaction)
}

func (s *EngineSuite) TestStrictBounds() {
	s.cfg.Overrides = append(s.cfg.Overrides, config.Override{Reaction: network.Oxphos, Lower: ptr(2000)})

	_, err := s.eng.Baseline()
	require.NoError(s.T(), err, "inconsistent bounds only warn by default")

	s.cfg.StrictBounds = true
	_, err = s.eng.Baseline()
	var be *model.BoundsError
	require.ErrorAs(s.T(), err, &be)
	require.ErrorIs(s.T(), err, model.ErrInconsistentBounds)
	require.Len(s.T(), be.Issues, 1)
	require.Equal(s.T(), network.Oxphos, be.Issues[0].Reaction)
}

// TestRunSweeps checks objectives, ordering and the infeasible tail of Low Glucose.
func (s *EngineSuite) TestRunSweeps() {
	plan := s.plan()
	report, err := s.eng.RunSweeps(s.ctx, plan)
	require.NoError(s.T(), err)

	require.NotEmpty(s.T(), report.RunID)
	require.Equal(s.T(), network.Name, report.Model)
	require.Len(s.T(), report.Groups, 3)
	require.Len(s.T(), report.Scenarios(), 21)

	base := report.Groups[0].Results[0]
	require.Equal(s.T(), model.StatusOptimal, base.Status)
	require.InDelta(s.T(), 120, base.Objective, eps)

	low := report.Groups[1]
	for _, r := range low.Results[:9] {
		require.Equal(s.T(), model.StatusOptimal, r.Status, r.Label)
		require.InDelta(s.T(), -3*r.Parameter, r.Objective, eps, r.Label)
	}
	last := low.Results[9]
	require.Equal(s.T(), "Low Glucose -2", last.Label)
	require.Equal(s.T(), model.StatusInfeasible, last.Status)
	require.Equal(s.T(), 0.0, last.Objective)
	require.Empty(s.T(), last.Fluxes)
	require.Contains(s.T(), last.Explanation, "atp_maintenance lower bound 10")

	hk := report.Groups[2]
	require.InDelta(s.T(), 15, hk.Results[0].Objective, eps)
	for _, r := range hk.Results[1:] {
		require.InDelta(s.T(), 120, r.Objective, eps, r.Label)
		require.LessOrEqual(s.T(), r.Objective, base.Objective+eps)
	}
}

// TestRunSweepsRestoresBounds verifies no sweep leaks into later groups.
func (s *EngineSuite) TestRunSweepsRestoresBounds() {
	plan := s.plan()
	before := plan.Baseline.Clone()

	_, err := s.eng.RunSweeps(s.ctx, plan)
	require.NoError(s.T(), err)
	require.True(s.T(), plan.Baseline.Equal(before))
	require.True(s.T(), s.eng.Model.DefaultBounds().Equal(before))

	// Base after the sweeps gives the same answer as before them.
	again, err := s.eng.RunSweeps(s.ctx, &engine.Plan{Baseline: plan.Baseline, Groups: plan.Groups[:1]})
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 120, again.Groups[0].Results[0].Objective, eps)
}

// TestRunSweepsParallel expects identical results with several workers.
func (s *EngineSuite) TestRunSweepsParallel() {
	serial, err := s.eng.RunSweeps(s.ctx, s.plan())
	require.NoError(s.T(), err)

	s.cfg.Workers = 4
	parallel, err := s.eng.RunSweeps(s.ctx, s.plan())
	require.NoError(s.T(), err)

	a, b := serial.Scenarios(), parallel.Scenarios()
	require.Len(s.T(), b, len(a))
	for i := range a {
		require.Equal(s.T(), a[i].Label, b[i].Label)
		require.Equal(s.T(), a[i].Status, b[i].Status)
		require.InDelta(s.T(), a[i].Objective, b[i].Objective, eps)
	}
}

func (s *EngineSuite) TestRunSweepsCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.eng.RunSweeps(ctx, s.plan())
	require.ErrorIs(s.T(), err, context.Canceled)
}

func (s *EngineSuite) TestProbeStopsAtFirstInfeasible() {
	res, err := s.eng.ProbeDemand(s.ctx, s.baseline(), s.cfg.Probe)
	require.NoError(s.T(), err)

	require.True(s.T(), res.Stopped)
	require.Len(s.T(), res.Steps, 13)
	last := res.Steps[len(res.Steps)-1]
	require.Equal(s.T(), 130.0, last.Demand)
	require.Equal(s.T(), model.StatusInfeasible, last.Status)

	for _, step := range res.Steps[:12] {
		require.Equal(s.T(), model.StatusOptimal, step.Status)
		require.InDelta(s.T(), 3.0, step.Yield, eps)
	}

	best, ok := res.MaxFeasible()
	require.True(s.T(), ok)
	require.Equal(s.T(), 120.0, best)
}

func (s *EngineSuite) TestProbeKeepGoing() {
	p := s.cfg.Probe
	p.StopOnInfeasible = false
	res, err := s.eng.ProbeDemand(s.ctx, s.baseline(), p)
	require.NoError(s.T(), err)

	require.False(s.T(), res.Stopped)
	require.Len(s.T(), res.Steps, 20)
	require.Equal(s.T(), 200.0, res.Steps[19].Demand)
	require.Equal(s.T(), model.StatusInfeasible, res.Steps[19].Status)
}

func (s *EngineSuite) TestProbeUnknownReaction() {
	p := s.cfg.Probe
	p.Reaction = "nope"
	_, err := s.eng.ProbeDemand(s.ctx, s.baseline(), p)
	require.ErrorIs(s.T(), err, model.ErrUnknownReaction)
}

func (s *EngineSuite) TestSolveOnce() {
	set, err := engine.ParseSetting("oxphos.upper=20")
	require.NoError(s.T(), err)

	sol, explanation, err := s.eng.SolveOnce(s.ctx, s.baseline(), []engine.Setting{set})
	require.NoError(s.T(), err)
	require.Empty(s.T(), explanation)
	require.InDelta(s.T(), 100, sol.Objective, eps)

	set, err = engine.ParseSetting("EX_glucose.lower=0")
	require.NoError(s.T(), err)
	sol, explanation, err = s.eng.SolveOnce(s.ctx, s.baseline(), []engine.Setting{set})
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.StatusInfeasible, sol.Status)
	require.Contains(s.T(), explanation, "atp_maintenance lower bound 10")

	_, _, err = s.eng.SolveOnce(s.ctx, s.baseline(), []engine.Setting{{Reaction: "nope", Kind: model.UpperBound}})
	require.ErrorIs(s.T(), err, model.ErrUnknownReaction)
}

// TestRun writes every output file.
func (s *EngineSuite) TestRun() {
	report, err := s.eng.Run(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), report.Scenarios(), 21)

	for _, name := range []string{s.cfg.CSVFile, s.cfg.JSONFile, engine.ObjectiveChartFile, engine.FluxChartFile} {
		info, err := os.Stat(filepath.Join(s.cfg.OutputDir, name))
		require.NoError(s.T(), err, name)
		require.Positive(s.T(), info.Size(), name)
	}

	data, err := os.ReadFile(filepath.Join(s.cfg.OutputDir, s.cfg.CSVFile))
	require.NoError(s.T(), err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(s.T(), lines, 22)
	require.True(s.T(), strings.HasPrefix(lines[1], "Base,Base,0,optimal,"), lines[1])
	require.True(s.T(), strings.HasPrefix(lines[0], "group,label,parameter,status,objective,flux_EX_glucose,"), lines[0])
}

func (s *EngineSuite) TestRunWithoutPlots() {
	s.cfg.Plots = false
	_, err := s.eng.Run(s.ctx)
	require.NoError(s.T(), err)

	_, err = os.Stat(filepath.Join(s.cfg.OutputDir, engine.ObjectiveChartFile))
	require.ErrorIs(s.T(), err, os.ErrNotExist)
}

func (s *EngineSuite) TestRunUnknownSweepReaction() {
	s.cfg.Sweeps = append(s.cfg.Sweeps, config.Sweep{Name: "Bad", Reaction: "nope", Bound: "lower", Start: 0, Stop: 1, Step: 1})
	_, err := s.eng.Run(s.ctx)
	require.ErrorIs(s.T(), err, model.ErrUnknownReaction)

	_, err = os.Stat(filepath.Join(s.cfg.OutputDir, s.cfg.CSVFile))
	require.ErrorIs(s.T(), err, os.ErrNotExist, "no output before identifiers resolve")
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func ptr(v float64) *float64 { return &v }
