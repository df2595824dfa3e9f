/*
PURPOSE:
  Defines the configuration structure and loading logic for Flux Runner.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Sweep groups (reaction, bound side, parameter range) are configurable.
  - Baseline bound overrides applied before every sweep group.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support Environment variable overrides (FLUX_...), including a .env file.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3, github.com/joho/godotenv

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default config file falls back to defaults.
  - Validate() wraps ErrInvalidConfig.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Reaction identifiers are only checked against the model later (engine.NewPlan).

USAGE:
  cfg, err := config.Load("flux_runner.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct, DefaultConfig() and internal/assets/flux_runner.yaml.

RELATED FILES:
  - internal/cli/root.go
  - internal/assets/flux_runner.yaml

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/network"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultFiles are searched, in order, when no config path is given.
var DefaultFiles = []string{"flux_runner.yaml", "runner.yaml"}

// Config represents the full configuration for Flux Runner.
type Config struct {
	OutputDir    string `yaml:"output_dir"`
	CSVFile      string `yaml:"csv_file"`
	JSONFile     string `yaml:"json_file"`
	Plots        bool   `yaml:"plots"`
	Workers      int    `yaml:"workers"`
	StrictBounds bool   `yaml:"strict_bounds"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	// Overrides adjust the network's default bounds before any sweep runs.
	Overrides []Override `yaml:"overrides"`
	// Sweeps run in order; a sweep without reaction is a single base solve.
	Sweeps []Sweep `yaml:"sweeps"`
	Probe  Probe   `yaml:"demand_probe"`
}

// Override sets one or both bounds of a reaction.
type Override struct {
	Reaction string   `yaml:"reaction"`
	Lower    *float64 `yaml:"lower,omitempty"`
	Upper    *float64 `yaml:"upper,omitempty"`
}

// Sweep is one sweep group. Points come from Values when set, otherwise
// from Start..Stop (inclusive) by Step.
type Sweep struct {
	Name     string    `yaml:"name"`
	Label    string    `yaml:"label,omitempty"`
	Reaction string    `yaml:"reaction,omitempty"`
	Bound    string    `yaml:"bound,omitempty"`
	Start    float64   `yaml:"start,omitempty"`
	Stop     float64   `yaml:"stop,omitempty"`
	Step     float64   `yaml:"step,omitempty"`
	Values   []float64 `yaml:"values,omitempty"`
}

// IsBase reports whether the sweep is a single solve without override.
func (s Sweep) IsBase() bool {
	return s.Reaction == ""
}

// Probe configures the incremental demand diagnostic.
type Probe struct {
	Reaction         string  `yaml:"reaction"`
	Bound            string  `yaml:"bound"`
	Start            float64 `yaml:"start"`
	Stop             float64 `yaml:"stop"`
	Step             float64 `yaml:"step"`
	YieldReaction    string  `yaml:"yield_reaction"`
	StopOnInfeasible bool    `yaml:"stop_on_infeasible"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "results",
		CSVFile:   "scenarios.csv",
		JSONFile:  "scenarios.jsonl",
		Plots:     true,
		Workers:   1,
		LogLevel:  "info",
		LogFormat: "text",
		Overrides: []Override{
			{Reaction: network.ExGlucose, Lower: float(-40)},
			{Reaction: network.Hexokinase, Upper: float(2000)},
			{Reaction: network.Oxphos, Upper: float(1000)},
			{Reaction: network.PyruvateKinase, Upper: float(1000)},
		},
		Sweeps: []Sweep{
			{Name: "Base"},
			{
				Name:     "Low Glucose",
				Label:    "Low Glucose",
				Reaction: network.ExGlucose,
				Bound:    string(model.LowerBound),
				Start:    -20,
				Stop:     -2,
				Step:     2,
			},
			{
				Name:     "Hexokinase Deficiency",
				Label:    "Hexokinase",
				Reaction: network.Hexokinase,
				Bound:    string(model.UpperBound),
				Start:    5,
				Stop:     905,
				Step:     100,
			},
		},
		Probe: Probe{
			Reaction:         network.ATPMaintenance,
			Bound:            string(model.LowerBound),
			Start:            10,
			Stop:             200,
			Step:             10,
			YieldReaction:    network.ExGlucose,
			StopOnInfeasible: true,
		},
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches DefaultFiles in order.
// If no file found, the defaults are used.
// Environment overrides (and a .env file, if present) are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
	}

	if path != "" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies FLUX_* overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("FLUX_OUTPUT_DIR"); ok && v != "" {
		c.OutputDir = v
	}
	if v, ok := lookup("FLUX_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("FLUX_LOG_FORMAT"); ok && v != "" {
		c.LogFormat = v
	}
	if v, ok := lookup("FLUX_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: FLUX_WORKERS=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Workers = n
	}
	if v, ok := lookup("FLUX_PLOTS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: FLUX_PLOTS=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Plots = b
	}
	return nil
}

// Validate checks the structure of the configuration.
func (c *Config) Validate() error {
	var problems []string

	if c.Workers < 1 {
		problems = append(problems, fmt.Sprintf("workers must be >= 1, got %d", c.Workers))
	}
	if c.OutputDir == "" {
		problems = append(problems, "output_dir is required")
	}
	for i, o := range c.Overrides {
		if o.Reaction == "" {
			problems = append(problems, fmt.Sprintf("overrides[%d]: reaction is required", i))
		}
		if o.Lower == nil && o.Upper == nil {
			problems = append(problems, fmt.Sprintf("overrides[%d]: set lower and/or upper", i))
		}
	}

	seen := make(map[string]bool, len(c.Sweeps))
	for i, s := range c.Sweeps {
		if s.Name == "" {
			problems = append(problems, fmt.Sprintf("sweeps[%d]: name is required", i))
		} else if seen[s.Name] {
			problems = append(problems, fmt.Sprintf("sweeps[%d]: duplicate name %q", i, s.Name))
		}
		seen[s.Name] = true
		if s.IsBase() {
			continue
		}
		if _, err := model.ParseBoundKind(s.Bound); err != nil {
			problems = append(problems, fmt.Sprintf("sweeps[%d]: %v", i, err))
		}
		if len(s.Values) == 0 && s.Step == 0 {
			problems = append(problems, fmt.Sprintf("sweeps[%d]: set values or a non-zero step", i))
		}
	}

	if c.Probe.Reaction != "" {
		if _, err := model.ParseBoundKind(c.Probe.Bound); err != nil {
			problems = append(problems, fmt.Sprintf("demand_probe: %v", err))
		}
		if c.Probe.Step == 0 {
			problems = append(problems, "demand_probe: step must be non-zero")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func float(v float64) *float64 { return &v }
