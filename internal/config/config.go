package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel       = "decay"
	DefaultIntegrator  = "rk45"
	DefaultDt          = 0.01
	DefaultDuration    = 10.0
	DefaultTolerance   = 1e-6
	DefaultAbsTol      = 1e-9
	DefaultMaxSubsteps = 10000
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Model          string          `yaml:"model" validate:"required_without=ModelFile"`
	ModelFile      string          `yaml:"model_file,omitempty"`
	Integrator     string          `yaml:"integrator" validate:"oneof=rk45 rk4 euler"`
	Dt             float64         `yaml:"dt" validate:"gt=0"`
	Duration       float64         `yaml:"duration" validate:"gt=0"`
	Tolerance      float64         `yaml:"tolerance" validate:"gt=0"`
	AbsTolerance   float64         `yaml:"abs_tolerance" validate:"gt=0"`
	MaxSubsteps    int             `yaml:"max_substeps" validate:"gt=0"`
	PinConstants   bool            `yaml:"pin_constants"`
	RateConstants  map[int]float64 `yaml:"rate_constants,omitempty" validate:"dive,keys,gt=0,endkeys"`
	Concentrations map[int]float64 `yaml:"concentrations,omitempty" validate:"dive,keys,gt=0,endkeys"`
	PlotSpecies    []int           `yaml:"plot_species,omitempty" validate:"dive,gt=0"`
}

var validate = validator.New()

func DefaultConfig() *Config {
	return &Config{
		Model:        DefaultModel,
		Integrator:   DefaultIntegrator,
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		Tolerance:    DefaultTolerance,
		AbsTolerance: DefaultAbsTol,
		MaxSubsteps:  DefaultMaxSubsteps,
		PinConstants: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting a run could not start with. Species
// and reaction indices must be positive since index 0 is reserved.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s fails %q (got %v)", ErrInvalid, yamlName(fe.StructField()), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// yamlName maps a struct field, possibly indexed like RateConstants[0],
// to its yaml key.
func yamlName(field string) string {
	name, index, _ := strings.Cut(field, "[")
	if index != "" {
		index = "[" + index
	}
	f, ok := reflect.TypeOf(Config{}).FieldByName(name)
	if !ok {
		return field
	}
	key, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	return key + index
}

// ModelSource names where the network comes from, preferring model_file.
func (c *Config) ModelSource() string {
	if c.ModelFile != "" {
		return c.ModelFile
	}
	return c.Model
}
