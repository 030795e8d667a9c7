package sim

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springsim/internal/dynamo"
)

// DivergentGain is the energy gain, on the dynamo.EnergyDrift scale, past
// which a finite run still counts as blown up.
const DivergentGain = 100.0

// SweepResult summarises one candidate timestep.
type SweepResult struct {
	Dt         float64
	StepsTaken int
	Drift      float64
	MaxSpeed   float64
	Stable     bool
}

// Sweep runs one independent model per timestep concurrently, each for the
// same simulated duration. Every model stays single-threaded; build must
// return a new instance on each call.
func Sweep(ctx context.Context, build func() (dynamo.Model, error), dts []float64, duration float64) ([]SweepResult, error) {
	results := make([]SweepResult, len(dts))
	g, ctx := errgroup.WithContext(ctx)

	for i, dt := range dts {
		g.Go(func() error {
			if err := dynamo.CheckTimestep(dt); err != nil {
				return err
			}
			m, err := build()
			if err != nil {
				return err
			}
			r, err := sweepOne(ctx, m, dt, duration)
			results[i] = r
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func sweepOne(ctx context.Context, m dynamo.Model, dt, duration float64) (SweepResult, error) {
	r := SweepResult{Dt: dt, Stable: true}
	m.Reset()
	e0, hasEnergy := energyOf(m)
	steps := int(duration/dt + 0.5)
	v := m.View()

	for i := 0; i < steps; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return r, err
			}
		}
		if err := m.Step(dt); err != nil {
			return r, err
		}
		r.StepsTaken++

		if !Finite(v) {
			r.Stable = false
			r.Drift = math.Inf(1)
			return r, nil
		}
		if hasEnergy {
			e, _ := energyOf(m)
			r.Drift = math.Max(r.Drift, dynamo.EnergyDrift(e0, e))
			if dynamo.EnergyGain(e0, e) > DivergentGain {
				r.Stable = false
			}
		}
	}

	for i := 0; i < v.MassCount(); i++ {
		r.MaxSpeed = math.Max(r.MaxSpeed, v.Velocity(i).Len())
	}
	return r, nil
}
