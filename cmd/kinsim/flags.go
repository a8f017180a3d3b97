package main

import (
	"fmt"
	"strconv"

	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/models"
	"github.com/spf13/cobra"
)

// modelArgHelp is shared by every command taking a [model|file] argument.
const modelArgHelp = `The argument is a built-in model name (see "kinsim models") or the path
of a model description file. Built-in names win: a file called "decay" in
the working directory is read only when given as "./decay".`

// simFlags are the settings shared by every command that builds an
// experiment. They override the config file only when given explicitly.
type simFlags struct {
	configFile   string
	preset       string
	dt           float64
	duration     float64
	integrator   string
	tolerance    float64
	absTolerance float64
	maxSubsteps  int
	pinConstants bool
	rates        map[string]string
	concs        map[string]string
	plotSpecies  []int
}

func addSimFlags(cmd *cobra.Command, f *simFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.preset, "preset", "", "use preset configuration")
	fs.Float64Var(&f.dt, "dt", config.DefaultDt, "spacing of recorded time points")
	fs.Float64Var(&f.duration, "time", config.DefaultDuration, "duration")
	fs.StringVar(&f.integrator, "integrator", config.DefaultIntegrator, "integrator (rk45, rk4, euler)")
	fs.Float64Var(&f.tolerance, "tolerance", config.DefaultTolerance, "rk45 relative tolerance")
	fs.Float64Var(&f.absTolerance, "abs-tolerance", config.DefaultAbsTol, "rk45 absolute tolerance")
	fs.IntVar(&f.maxSubsteps, "max-substeps", config.DefaultMaxSubsteps, "rk45 substeps allowed per recording interval")
	fs.BoolVar(&f.pinConstants, "pin-constants", true, "hold constant species exactly at their value")
	fs.StringToStringVar(&f.rates, "k", nil, "rate constant overrides, reaction=value")
	fs.StringToStringVar(&f.concs, "conc", nil, "concentration overrides, species=value")
	fs.IntSliceVar(&f.plotSpecies, "species", nil, "species summed in plots")
}

// resolveConfig layers defaults, preset, config file, the model argument
// and explicit flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string, f *simFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()

	model := cfg.Model
	if len(args) > 0 {
		model = args[0]
	}

	if f.preset != "" {
		p := config.GetPreset(model, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets(model))
		}
		cfg = p
	}

	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		if _, err := models.Get(args[0]); err == nil {
			cfg.Model, cfg.ModelFile = args[0], ""
		} else {
			cfg.ModelFile = args[0]
		}
	}

	fs := cmd.Flags()
	if fs.Changed("dt") {
		cfg.Dt = f.dt
	}
	if fs.Changed("time") {
		cfg.Duration = f.duration
	}
	if fs.Changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if fs.Changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if fs.Changed("abs-tolerance") {
		cfg.AbsTolerance = f.absTolerance
	}
	if fs.Changed("max-substeps") {
		cfg.MaxSubsteps = f.maxSubsteps
	}
	if fs.Changed("pin-constants") {
		cfg.PinConstants = f.pinConstants
	}
	if fs.Changed("species") {
		cfg.PlotSpecies = f.plotSpecies
	}

	var err error
	if cfg.RateConstants, err = mergeOverrides(cfg.RateConstants, f.rates); err != nil {
		return nil, fmt.Errorf("--k: %w", err)
	}
	if cfg.Concentrations, err = mergeOverrides(cfg.Concentrations, f.concs); err != nil {
		return nil, fmt.Errorf("--conc: %w", err)
	}

	return cfg, cfg.Validate()
}

func mergeOverrides(base map[int]float64, flags map[string]string) (map[int]float64, error) {
	if len(flags) == 0 {
		return base, nil
	}
	out := make(map[int]float64, len(base)+len(flags))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range flags {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", k, err)
		}
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", v, err)
		}
		out[idx] = val
	}
	return out, nil
}
