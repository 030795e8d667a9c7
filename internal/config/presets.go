package config

import "sort"

// Preset is a named tweak applied on top of DefaultConfig.
type Preset struct {
	Description string
	apply       func(*Config)
}

var Presets = map[string]map[string]Preset{
	"single_spring": {
		"short_pull": {"released after a 1 unit pull", func(c *Config) {
			c.SingleSpring.PullLimit = -6
		}},
		"undamped": {"no spring damping, oscillates indefinitely", func(c *Config) {
			c.SingleSpring.DampingRatio = 0
			c.Steps = 5000
		}},
		"stiff": {"4x stiffness at a finer timestep", func(c *Config) {
			c.SingleSpring.Stiffness = 60
			c.Dt = 0.005
		}},
	},
	"chain": {
		"long": {"30 links", func(c *Config) {
			c.Chain.Count = 30
			c.Dt = 0.0005
			c.Steps = 10000
		}},
		"overdamped": {"links damped at critical", func(c *Config) {
			c.Chain.DampingRatio = 1
		}},
		"free": {"undamped chain without air drag", func(c *Config) {
			c.Chain.DampingRatio = 0
			c.Chain.AirDrag = 0
		}},
	},
	"lattice": {
		"soft": {"wobbly jelly", func(c *Config) {
			c.Lattice.Stiffness = 500
			c.Lattice.DampingRatio = 0.2
		}},
		"flat": {"unrotated block dropped onto a face", func(c *Config) {
			c.Lattice.Tilt = 0
		}},
		"small": {"3x3x3 block close to the ground", func(c *Config) {
			c.Lattice.Width, c.Lattice.Height, c.Lattice.Length = 3, 3, 3
			c.Lattice.GroundHeight = -2
			c.Steps = 20000
		}},
	},
	"grid": {
		"large": {"30x16 cloth", func(c *Config) {
			c.Grid.Width, c.Grid.Height = 30, 16
			c.Dt = 0.0005
		}},
		"stiff": {"4x stiffness at a finer timestep", func(c *Config) {
			c.Grid.Stiffness = 400
			c.Dt = 0.0005
		}},
		"structural": {"no shear or bend springs", func(c *Config) {
			c.Grid.ThresholdFactor = 1
		}},
	},
}

// GetPreset returns a fresh config for model with the named preset applied,
// or nil when either is unknown.
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
	cfg.Model = model
	p.apply(cfg)
	return cfg
}

// ListPresets returns the preset names for model in sorted order.
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
