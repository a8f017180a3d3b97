// Package automation runs scripted sequences of simulations: scenarios that
// perturb one network between segments, and sweeps over a rate constant.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/dynamo"
	"github.com/san-kum/kinsim/internal/experiment"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// Scenario runs one network through a sequence of segments. Each segment
// may change rate constants, concentrations or constant flags before it
// simulates, and continues from where the previous one stopped.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Config      *config.Config `yaml:"config"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Duration       float64         `yaml:"duration"`
	RateConstants  map[int]float64 `yaml:"rate_constants"`
	Concentrations map[int]float64 `yaml:"concentrations"`
	Constant       []int           `yaml:"constant"`
	Variable       []int           `yaml:"variable"`
}

// StepResult is the state of the network at the end of a segment.
type StepResult struct {
	Step    int
	EndTime float64
	Final   dynamo.State
}

// LoadScenario reads a scenario from YAML. The embedded config starts from
// DefaultConfig, so only overrides need to be written.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scenario := Scenario{Config: config.DefaultConfig()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// RunScenario executes every step on a single experiment and returns it
// together with the per-step results, including those completed before a
// failing step.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) (*experiment.Experiment, []StepResult, error) {
	cfg := scenario.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	exp, err := experiment.New(cfg, registry)
	if err != nil {
		return nil, nil, err
	}
	net := exp.Network()

	results := make([]StepResult, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		if err := applyStep(exp, step); err != nil {
			return exp, results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := exp.Advance(ctx, step.Duration); err != nil {
			return exp, results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:    i + 1,
			EndTime: net.History().LatestTime(),
			Final:   net.Concentrations(),
		})
	}

	return exp, results, nil
}

// applyStep checks every index of the step before writing anything, so a
// rejected step leaves the network as it was.
func applyStep(exp *experiment.Experiment, step ScenarioStep) error {
	net := exp.Network()
	reactions, rates := experiment.SortedPairs(step.RateConstants)
	species, concs := experiment.SortedPairs(step.Concentrations)

	if err := net.CheckReactions(reactions); err != nil {
		return fmt.Errorf("rate_constants: %w", err)
	}
	if err := net.CheckSpecies(species); err != nil {
		return fmt.Errorf("concentrations: %w", err)
	}
	if err := net.CheckSpecies(step.Constant); err != nil {
		return fmt.Errorf("constant: %w", err)
	}
	if err := net.CheckSpecies(step.Variable); err != nil {
		return fmt.Errorf("variable: %w", err)
	}

	if err := net.SetRateConstants(reactions, rates); err != nil {
		return err
	}
	if err := net.SetConcentrations(species, concs); err != nil {
		return err
	}
	if err := net.SetConstant(step.Constant, true); err != nil {
		return err
	}
	return net.SetConstant(step.Variable, false)
}

// ParameterSweep runs the same config once per value of one reaction's
// rate constant.
type ParameterSweep struct {
	Config   *config.Config
	Reaction int
	Min      float64
	Max      float64
	NumSteps int
	Workers  int
}

type SweepResult struct {
	RateConstant float64
	Final        dynamo.State
	Metrics      map[string]float64
}

// RunSweep runs the sweep points concurrently, each on its own network,
// with at most Workers in flight. The first failure cancels the rest.
// Results are returned in order of increasing rate constant.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if sweep.Reaction < 1 {
		return nil, fmt.Errorf("sweep reaction index must be positive, got %d", sweep.Reaction)
	}

	values := []float64{sweep.Min}
	if sweep.NumSteps > 1 {
		values = floats.Span(make([]float64, sweep.NumSteps), sweep.Min, sweep.Max)
	}

	workers := sweep.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]SweepResult, len(values))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, k := range values {
		g.Go(func() error {
			res, err := runPoint(gCtx, sweep, k, registry)
			if err != nil {
				return fmt.Errorf("k%d=%g: %w", sweep.Reaction, k, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runPoint(ctx context.Context, sweep *ParameterSweep, k float64, registry *experiment.Registry) (SweepResult, error) {
	cfg := *sweep.Config
	cfg.RateConstants = make(map[int]float64, len(sweep.Config.RateConstants)+1)
	for r, v := range sweep.Config.RateConstants {
		cfg.RateConstants[r] = v
	}
	cfg.RateConstants[sweep.Reaction] = k

	exp, err := experiment.New(&cfg, registry)
	if err != nil {
		return SweepResult{}, err
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	return SweepResult{
		RateConstant: k,
		Final:        exp.Network().Concentrations(),
		Metrics:      res.Metrics,
	}, nil
}
