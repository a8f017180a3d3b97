package experiment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/dynamo"
	"github.com/san-kum/kinsim/internal/integrators"
	"github.com/san-kum/kinsim/internal/modelfile"
	"github.com/san-kum/kinsim/internal/models"
	"github.com/san-kum/kinsim/internal/network"
)

type Registry struct {
	integrators map[string]func(*config.Config) dynamo.SpanIntegrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(*config.Config) dynamo.SpanIntegrator),
	}

	r.integrators["rk45"] = func(cfg *config.Config) dynamo.SpanIntegrator {
		return integrators.NewRK45WithTolerance(cfg.Tolerance, cfg.AbsTolerance, cfg.MaxSubsteps)
	}
	r.integrators["rk4"] = func(*config.Config) dynamo.SpanIntegrator { return integrators.NewRK4() }
	r.integrators["euler"] = func(*config.Config) dynamo.SpanIntegrator { return integrators.NewEuler() }

	return r
}

// GetModel builds a fresh network from a built-in model name or, failing
// that, from a model file path.
func (r *Registry) GetModel(source string) (*network.Network, error) {
	if src, err := models.Get(source); err == nil {
		return modelfile.Parse(strings.NewReader(src))
	}
	net, err := modelfile.ParseFile(source)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", source, err)
	}
	return net, nil
}

func (r *Registry) GetIntegrator(name string, cfg *config.Config) (dynamo.SpanIntegrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListModels() []string {
	return models.List()
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
