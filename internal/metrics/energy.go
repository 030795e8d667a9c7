package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Energy is the mean total mechanical energy over all observed steps.
// Models that do not implement dynamo.Hamiltonian are ignored.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(m dynamo.Model, t float64) {
	h, ok := m.(dynamo.Hamiltonian)
	if !ok {
		return
	}
	e.totalEnergy += h.Energy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest deviation from the first observed energy, see
// dynamo.EnergyDrift.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(m dynamo.Model, t float64) {
	h, ok := m.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy()
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	e.maxDrift = math.Max(e.maxDrift, dynamo.EnergyDrift(e.initialEnergy, energy))
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
