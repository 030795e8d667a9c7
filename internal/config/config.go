package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

const (
	DefaultModel       = "single_spring"
	DefaultIterations  = 1
	DefaultSteps       = 2000
	DefaultSampleEvery = 10
)

// Config is the YAML run configuration. Dt 0 selects the model's default
// timestep.
type Config struct {
	Model        string             `yaml:"model"`
	Dt           float64            `yaml:"dt"`
	Iterations   int                `yaml:"iterations"`
	Steps        int                `yaml:"steps"`
	SampleEvery  int                `yaml:"sample_every"`
	Gravity      []float64          `yaml:"gravity,flow"`
	SingleSpring SingleSpringConfig `yaml:"single_spring"`
	Chain        ChainConfig        `yaml:"chain"`
	Lattice      LatticeConfig      `yaml:"lattice"`
	Grid         GridConfig         `yaml:"grid"`
}

type SingleSpringConfig struct {
	Mass         float64 `yaml:"mass"`
	Stiffness    float64 `yaml:"stiffness"`
	RestLength   float64 `yaml:"rest_length"`
	DampingRatio float64 `yaml:"damping_ratio"`
	PullStep     float64 `yaml:"pull_step"`
	PullLimit    float64 `yaml:"pull_limit"`
	AirDrag      float64 `yaml:"air_drag"`
}

type ChainConfig struct {
	Count        int     `yaml:"count"`
	Mass         float64 `yaml:"mass"`
	Stiffness    float64 `yaml:"stiffness"`
	RestLength   float64 `yaml:"rest_length"`
	DampingRatio float64 `yaml:"damping_ratio"`
	AirDrag      float64 `yaml:"air_drag"`
}

type LatticeConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Length           int     `yaml:"length"`
	Spacing          float64 `yaml:"spacing"`
	Mass             float64 `yaml:"mass"`
	Stiffness        float64 `yaml:"stiffness"`
	DampingRatio     float64 `yaml:"damping_ratio"`
	ThresholdFactor  float64 `yaml:"threshold_factor"`
	Tilt             float64 `yaml:"tilt"`
	Lift             float64 `yaml:"lift"`
	GroundHeight     float64 `yaml:"ground_height"`
	PenaltyStiffness float64 `yaml:"penalty_stiffness"`
	AirDrag          float64 `yaml:"air_drag"`
}

type GridConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Spacing         float64 `yaml:"spacing"`
	Mass            float64 `yaml:"mass"`
	Stiffness       float64 `yaml:"stiffness"`
	DampingRatio    float64 `yaml:"damping_ratio"`
	ThresholdFactor float64 `yaml:"threshold_factor"`
	AirDrag         float64 `yaml:"air_drag"`
}

func DefaultConfig() *Config {
	s := physics.DefaultSingleSpringParams()
	c := physics.DefaultChainParams()
	l := physics.DefaultLatticeParams()
	g := physics.DefaultGridParams()
	gravity := dynamo.StandardGravity

	return &Config{
		Model:       DefaultModel,
		Iterations:  DefaultIterations,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Gravity:     []float64{gravity[0], gravity[1], gravity[2]},
		SingleSpring: SingleSpringConfig{
			Mass: s.Mass, Stiffness: s.Stiffness, RestLength: s.RestLength,
			DampingRatio: s.DampingRatio, PullStep: s.PullStep, PullLimit: s.PullLimit,
			AirDrag: s.Env.AirDrag,
		},
		Chain: ChainConfig{
			Count: c.Count, Mass: c.Mass, Stiffness: c.Stiffness, RestLength: c.RestLength,
			DampingRatio: c.DampingRatio, AirDrag: c.Env.AirDrag,
		},
		Lattice: LatticeConfig{
			Width: l.Width, Height: l.Height, Length: l.Length, Spacing: l.Spacing,
			Mass: l.Mass, Stiffness: l.Stiffness, DampingRatio: l.DampingRatio,
			ThresholdFactor: l.ThresholdFactor, Tilt: l.Tilt, Lift: l.Lift,
			GroundHeight: l.GroundHeight, PenaltyStiffness: l.PenaltyStiffness,
			AirDrag: l.Env.AirDrag,
		},
		Grid: GridConfig{
			Width: g.Width, Height: g.Height, Spacing: g.Spacing, Mass: g.Mass,
			Stiffness: g.Stiffness, DampingRatio: g.DampingRatio,
			ThresholdFactor: g.ThresholdFactor, AirDrag: g.Env.AirDrag,
		},
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

// Kind resolves the configured model name.
func (c *Config) Kind() (physics.Kind, error) {
	return physics.ParseKind(c.Model)
}

// TimeStep returns Dt, or the model's default when Dt is unset.
func (c *Config) TimeStep() float64 {
	if c.Dt != 0 {
		return c.Dt
	}
	if k, err := c.Kind(); err == nil {
		return k.DefaultDt()
	}
	return physics.KindChain.DefaultDt()
}

func (c *Config) Validate() error {
	k, err := c.Kind()
	if err != nil {
		return err
	}
	if c.Dt != 0 {
		if err := dynamo.CheckTimestep(c.Dt); err != nil {
			return err
		}
	}
	if c.Iterations < 1 || c.Iterations > 100 {
		return fmt.Errorf("iterations must be in [1, 100], got %d", c.Iterations)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample_every must be non-negative, got %d", c.SampleEvery)
	}
	if len(c.Gravity) != 3 {
		return fmt.Errorf("gravity must have 3 components, got %d", len(c.Gravity))
	}

	switch k {
	case physics.KindSingleSpring:
		return c.SingleSpringParams().Validate()
	case physics.KindChain:
		return c.ChainParams().Validate()
	case physics.KindLattice:
		return c.LatticeParams().Validate()
	case physics.KindGrid:
		return c.GridParams().Validate()
	}
	return nil
}

func (c *Config) env(drag float64) physics.Environment {
	var g dynamo.Vec3
	copy(g[:], c.Gravity)
	return physics.Environment{Gravity: g, AirDrag: drag}
}

func (c *Config) SingleSpringParams() physics.SingleSpringParams {
	s := c.SingleSpring
	return physics.SingleSpringParams{
		Mass: s.Mass, Stiffness: s.Stiffness, RestLength: s.RestLength,
		DampingRatio: s.DampingRatio, PullStep: s.PullStep, PullLimit: s.PullLimit,
		Env: c.env(s.AirDrag),
	}
}

func (c *Config) ChainParams() physics.ChainParams {
	ch := c.Chain
	return physics.ChainParams{
		Count: ch.Count, Mass: ch.Mass, Stiffness: ch.Stiffness, RestLength: ch.RestLength,
		DampingRatio: ch.DampingRatio, Env: c.env(ch.AirDrag),
	}
}

func (c *Config) LatticeParams() physics.LatticeParams {
	l := c.Lattice
	return physics.LatticeParams{
		Width: l.Width, Height: l.Height, Length: l.Length, Spacing: l.Spacing,
		Mass: l.Mass, Stiffness: l.Stiffness, DampingRatio: l.DampingRatio,
		ThresholdFactor: l.ThresholdFactor, Tilt: l.Tilt, Lift: l.Lift,
		GroundHeight: l.GroundHeight, PenaltyStiffness: l.PenaltyStiffness,
		Env: c.env(l.AirDrag),
	}
}

func (c *Config) GridParams() physics.GridParams {
	g := c.Grid
	return physics.GridParams{
		Width: g.Width, Height: g.Height, Spacing: g.Spacing, Mass: g.Mass,
		Stiffness: g.Stiffness, DampingRatio: g.DampingRatio,
		ThresholdFactor: g.ThresholdFactor, Env: c.env(g.AirDrag),
	}
}
