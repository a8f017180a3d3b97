package config

import "sort"

var Presets = map[string]map[string]*Config{
	"decay": {
		"fast": {
			Model: "decay", Integrator: "rk45", Dt: 0.01, Duration: 5.0,
			RateConstants: map[int]float64{1: 5.0},
		},
		"slow": {
			Model: "decay", Integrator: "rk45", Dt: 0.1, Duration: 50.0,
			RateConstants: map[int]float64{1: 0.1},
		},
	},
	"reversible": {
		"equilibrium": {
			Model: "reversible", Integrator: "rk45", Dt: 0.05, Duration: 20.0,
		},
		"product_start": {
			Model: "reversible", Integrator: "rk45", Dt: 0.05, Duration: 20.0,
			Concentrations: map[int]float64{1: 0.0, 2: 1.0},
		},
	},
	"dimerization": {
		"dilute": {
			Model: "dimerization", Integrator: "rk45", Dt: 0.1, Duration: 50.0,
			Concentrations: map[int]float64{1: 0.1},
		},
	},
	"michaelis_menten": {
		"saturated": {
			Model: "michaelis_menten", Integrator: "rk45", Dt: 0.05, Duration: 30.0,
			Concentrations: map[int]float64{2: 10.0},
		},
		"substrate_limited": {
			Model: "michaelis_menten", Integrator: "rk45", Dt: 0.05, Duration: 30.0,
			Concentrations: map[int]float64{2: 0.1},
		},
	},
	"lotka_volterra": {
		"cycle": {
			Model: "lotka_volterra", Integrator: "rk45", Dt: 0.01, Duration: 30.0,
			PlotSpecies: []int{2, 3},
		},
		"coarse": {
			Model: "lotka_volterra", Integrator: "rk4", Dt: 0.05, Duration: 30.0,
			PlotSpecies: []int{2, 3},
		},
	},
	"zero_order": {
		"fill": {
			Model: "zero_order", Integrator: "euler", Dt: 0.1, Duration: 60.0,
		},
	},
}

// GetPreset returns a copy of the preset with unset numeric fields taken
// from DefaultConfig, or nil when it does not exist.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Model = p.Model
	cfg.Integrator = p.Integrator
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	cfg.RateConstants = copyMap(p.RateConstants)
	cfg.Concentrations = copyMap(p.Concentrations)
	cfg.PlotSpecies = append([]int(nil), p.PlotSpecies...)
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyMap(m map[int]float64) map[int]float64 {
	if m == nil {
		return nil
	}
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
