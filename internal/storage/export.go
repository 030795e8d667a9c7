package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/springsim/internal/sim"
)

type ExportData struct {
	Model       string             `json:"model"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Times       []float64          `json:"times"`
	Energies    []float64          `json:"energies,omitempty"`
	Positions   [][][3]float64     `json:"positions"`
	Metrics     map[string]float64 `json:"metrics"`
}

func newExportData(dt float64, result *sim.Result) ExportData {
	data := ExportData{
		Model:       result.Model,
		Dt:          dt,
		Steps:       result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Times:       result.Times,
		Energies:    result.Energies,
		Positions:   make([][][3]float64, len(result.Frames)),
		Metrics:     result.Metrics,
	}
	for i, f := range result.Frames {
		row := make([][3]float64, len(f.Positions))
		for j, p := range f.Positions {
			row[j] = p
		}
		data.Positions[i] = row
	}
	return data
}

// WriteJSON encodes result as indented JSON.
func WriteJSON(w io.Writer, dt float64, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExportData(dt, result))
}

func ExportJSON(path string, dt float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, dt, result)
}
