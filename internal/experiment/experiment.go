package experiment

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/kinetics"
	"github.com/san-kum/kinsim/internal/metrics"
	"github.com/san-kum/kinsim/internal/network"
	"github.com/san-kum/kinsim/internal/storage"
)

type Result struct {
	Steps   int
	EndTime float64
	Metrics map[string]float64
	Elapsed time.Duration
}

// Experiment is one network and engine set up from a config.
type Experiment struct {
	cfg    *config.Config
	net    *network.Network
	engine *kinetics.Engine
}

// New validates cfg, builds the network it names, applies its rate constant
// and concentration overrides and prepares an engine.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	net, err := reg.GetModel(cfg.ModelSource())
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(net, cfg); err != nil {
		return nil, err
	}

	integ, err := reg.GetIntegrator(cfg.Integrator, cfg)
	if err != nil {
		return nil, err
	}

	engine, err := kinetics.New(net, integ, kinetics.Options{Dt: cfg.Dt, PinConstants: cfg.PinConstants})
	if err != nil {
		return nil, err
	}

	return &Experiment{cfg: cfg, net: net, engine: engine}, nil
}

func applyOverrides(net *network.Network, cfg *config.Config) error {
	if len(cfg.RateConstants) > 0 {
		idx, vals := SortedPairs(cfg.RateConstants)
		if err := net.SetRateConstants(idx, vals); err != nil {
			return fmt.Errorf("rate_constants: %w", err)
		}
	}
	if len(cfg.Concentrations) > 0 {
		idx, vals := SortedPairs(cfg.Concentrations)
		if err := net.SetConcentrations(idx, vals); err != nil {
			return fmt.Errorf("concentrations: %w", err)
		}
	}
	return nil
}

// SortedPairs splits an index->value map into parallel slices ordered by index.
func SortedPairs(m map[int]float64) ([]int, []float64) {
	idx := make([]int, 0, len(m))
	for k := range m {
		idx = append(idx, k)
	}
	sort.Ints(idx)
	vals := make([]float64, len(idx))
	for i, k := range idx {
		vals[i] = m[k]
	}
	return idx, vals
}

// Run simulates the configured duration and evaluates the default metrics
// over the whole history.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	if err := e.engine.SimulateContext(ctx, e.cfg.Duration); err != nil {
		return nil, err
	}

	h := e.net.History()
	return &Result{
		Steps:   h.Len(),
		EndTime: h.LatestTime(),
		Metrics: metrics.Evaluate(h, metrics.Default(e.net.NumSpecies())...),
		Elapsed: time.Since(start),
	}, nil
}

// Advance extends the history by duration without evaluating metrics.
func (e *Experiment) Advance(ctx context.Context, duration float64) error {
	return e.engine.SimulateContext(ctx, duration)
}

// Metadata describes the run for storage and export.
func (e *Experiment) Metadata(res *Result) storage.RunMetadata {
	species := make([]string, e.net.NumSpecies())
	for i := range species {
		species[i] = e.net.SpeciesName(i + 1)
	}
	meta := storage.RunMetadata{
		Model:      modelName(e.cfg),
		Dt:         e.cfg.Dt,
		Duration:   e.cfg.Duration,
		Integrator: e.cfg.Integrator,
		Species:    species,
		Reactions:  e.net.NumReactions(),
		Steps:      e.net.History().Len(),
	}
	if res != nil {
		meta.Metrics = res.Metrics
	}
	return meta
}

func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) Network() *network.Network { return e.net }
func (e *Experiment) Engine() *kinetics.Engine  { return e.engine }

// modelName is the built-in model name, or the model file's base name
// without extension.
func modelName(cfg *config.Config) string {
	if cfg.ModelFile == "" {
		return cfg.Model
	}
	base := filepath.Base(cfg.ModelFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
