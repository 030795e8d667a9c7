package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func chainBuilder() (dynamo.Model, error) { return physics.New(physics.KindChain) }

func TestSweep(t *testing.T) {
	dts := []float64{0.002, 0.001, 1}
	results, err := Sweep(context.Background(), chainBuilder, dts, 0.5)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != len(dts) {
		t.Fatalf("expected %d results, got %d", len(dts), len(results))
	}
	for i, r := range results {
		if r.Dt != dts[i] {
			t.Errorf("expected result %d for dt %g, got %g", i, dts[i], r.Dt)
		}
	}
	if !results[0].Stable || !results[1].Stable {
		t.Error("expected small timesteps to be stable")
	}
	if results[1].StepsTaken != 500 {
		t.Errorf("expected 500 steps, got %d", results[1].StepsTaken)
	}
}

func TestSweepDivergent(t *testing.T) {
	results, err := Sweep(context.Background(), chainBuilder, []float64{1}, 1000)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if results[0].Stable {
		t.Error("expected dt=1 to diverge")
	}
}

func TestSweepInvalidTimestep(t *testing.T) {
	_, err := Sweep(context.Background(), chainBuilder, []float64{0.001, 0}, 0.1)
	if !errors.Is(err, dynamo.ErrInvalidTimestep) {
		t.Errorf("expected ErrInvalidTimestep, got %v", err)
	}
}

func TestSweepFlagsEnergyBlowUp(t *testing.T) {
	grid := func() (dynamo.Model, error) { return physics.New(physics.KindGrid) }
	results, err := Sweep(context.Background(), grid, []float64{0.001, 0.01}, 1)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !results[0].Stable {
		t.Errorf("expected dt=0.001 to be stable, drift %g", results[0].Drift)
	}
	if results[0].Drift <= 0 {
		t.Error("expected falling cloth to report drift")
	}
	if results[1].Stable {
		t.Errorf("expected dt=0.01 to blow up, drift %g", results[1].Drift)
	}
	if results[1].Drift <= DivergentGain {
		t.Errorf("expected drift above %g, got %g", DivergentGain, results[1].Drift)
	}
}
