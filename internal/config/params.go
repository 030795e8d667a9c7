package config

import (
	"fmt"
	"math"
	"sort"
)

// param addresses one numeric field of a Config by its dotted YAML path.
type param struct {
	float func(*Config) *float64
	int   func(*Config) *int
}

var params = map[string]param{
	"dt": {float: func(c *Config) *float64 { return &c.Dt }},

	"single_spring.mass":          {float: func(c *Config) *float64 { return &c.SingleSpring.Mass }},
	"single_spring.stiffness":     {float: func(c *Config) *float64 { return &c.SingleSpring.Stiffness }},
	"single_spring.rest_length":   {float: func(c *Config) *float64 { return &c.SingleSpring.RestLength }},
	"single_spring.damping_ratio": {float: func(c *Config) *float64 { return &c.SingleSpring.DampingRatio }},
	"single_spring.pull_step":     {float: func(c *Config) *float64 { return &c.SingleSpring.PullStep }},
	"single_spring.pull_limit":    {float: func(c *Config) *float64 { return &c.SingleSpring.PullLimit }},
	"single_spring.air_drag":      {float: func(c *Config) *float64 { return &c.SingleSpring.AirDrag }},

	"chain.count":         {int: func(c *Config) *int { return &c.Chain.Count }},
	"chain.mass":          {float: func(c *Config) *float64 { return &c.Chain.Mass }},
	"chain.stiffness":     {float: func(c *Config) *float64 { return &c.Chain.Stiffness }},
	"chain.rest_length":   {float: func(c *Config) *float64 { return &c.Chain.RestLength }},
	"chain.damping_ratio": {float: func(c *Config) *float64 { return &c.Chain.DampingRatio }},
	"chain.air_drag":      {float: func(c *Config) *float64 { return &c.Chain.AirDrag }},

	"lattice.width":             {int: func(c *Config) *int { return &c.Lattice.Width }},
	"lattice.height":            {int: func(c *Config) *int { return &c.Lattice.Height }},
	"lattice.length":            {int: func(c *Config) *int { return &c.Lattice.Length }},
	"lattice.spacing":           {float: func(c *Config) *float64 { return &c.Lattice.Spacing }},
	"lattice.mass":              {float: func(c *Config) *float64 { return &c.Lattice.Mass }},
	"lattice.stiffness":         {float: func(c *Config) *float64 { return &c.Lattice.Stiffness }},
	"lattice.damping_ratio":     {float: func(c *Config) *float64 { return &c.Lattice.DampingRatio }},
	"lattice.threshold_factor":  {float: func(c *Config) *float64 { return &c.Lattice.ThresholdFactor }},
	"lattice.tilt":              {float: func(c *Config) *float64 { return &c.Lattice.Tilt }},
	"lattice.lift":              {float: func(c *Config) *float64 { return &c.Lattice.Lift }},
	"lattice.ground_height":     {float: func(c *Config) *float64 { return &c.Lattice.GroundHeight }},
	"lattice.penalty_stiffness": {float: func(c *Config) *float64 { return &c.Lattice.PenaltyStiffness }},
	"lattice.air_drag":          {float: func(c *Config) *float64 { return &c.Lattice.AirDrag }},

	"grid.width":            {int: func(c *Config) *int { return &c.Grid.Width }},
	"grid.height":           {int: func(c *Config) *int { return &c.Grid.Height }},
	"grid.spacing":          {float: func(c *Config) *float64 { return &c.Grid.Spacing }},
	"grid.mass":             {float: func(c *Config) *float64 { return &c.Grid.Mass }},
	"grid.stiffness":        {float: func(c *Config) *float64 { return &c.Grid.Stiffness }},
	"grid.damping_ratio":    {float: func(c *Config) *float64 { return &c.Grid.DampingRatio }},
	"grid.threshold_factor": {float: func(c *Config) *float64 { return &c.Grid.ThresholdFactor }},
	"grid.air_drag":         {float: func(c *Config) *float64 { return &c.Grid.AirDrag }},
}

// Set assigns a numeric parameter by its dotted path, for example
// "chain.stiffness". Integer parameters are rounded.
func (c *Config) Set(name string, v float64) error {
	p, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	if p.int != nil {
		*p.int(c) = int(math.Round(v))
		return nil
	}
	*p.float(c) = v
	return nil
}

func (c *Config) Get(name string) (float64, error) {
	p, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter: %s", name)
	}
	if p.int != nil {
		return float64(*p.int(c)), nil
	}
	return *p.float(c), nil
}

// Apply sets every parameter in values.
func (c *Config) Apply(values map[string]float64) error {
	for name, v := range values {
		if err := c.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Gravity = append([]float64(nil), c.Gravity...)
	return &out
}

// ParamNames lists the settable parameters in sorted order.
func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
