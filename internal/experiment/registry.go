package experiment

import (
	"fmt"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

// StabilitySpeed is the speed above which a step counts as unstable.
const StabilitySpeed = 500.0

type factory func(*config.Config) (dynamo.Model, error)

type Registry struct {
	models map[physics.Kind]factory
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[physics.Kind]factory)}

	r.models[physics.KindSingleSpring] = func(c *config.Config) (dynamo.Model, error) {
		return physics.NewSingleSpring(c.SingleSpringParams())
	}
	r.models[physics.KindChain] = func(c *config.Config) (dynamo.Model, error) {
		return physics.NewChain(c.ChainParams())
	}
	r.models[physics.KindLattice] = func(c *config.Config) (dynamo.Model, error) {
		return physics.NewLattice(c.LatticeParams())
	}
	r.models[physics.KindGrid] = func(c *config.Config) (dynamo.Model, error) {
		return physics.NewGrid(c.GridParams())
	}

	return r
}

// GetModel builds the model of the given kind from cfg's parameters.
func (r *Registry) GetModel(kind physics.Kind, cfg *config.Config) (dynamo.Model, error) {
	fn, ok := r.models[kind]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", kind)
	}
	return fn(cfg)
}

// Build builds the model named by cfg.Model.
func (r *Registry) Build(cfg *config.Config) (dynamo.Model, error) {
	kind, err := cfg.Kind()
	if err != nil {
		return nil, err
	}
	return r.GetModel(kind, cfg)
}

// Builder adapts the registry for a sim.Session; every kind is built from
// cfg's parameters.
func (r *Registry) Builder(cfg *config.Config) sim.Builder {
	return func(kind physics.Kind) (dynamo.Model, error) {
		return r.GetModel(kind, cfg)
	}
}

// ListModels returns the registered model names in menu order.
func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for _, k := range physics.Kinds {
		if _, ok := r.models[k]; ok {
			names = append(names, k.String())
		}
	}
	return names
}

// DefaultDt is the stable timestep for kind at its default parameters.
func (r *Registry) DefaultDt(kind physics.Kind) float64 {
	return kind.DefaultDt()
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewStability(StabilitySpeed),
		metrics.NewDegenerateSprings(),
	}
}
