package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	positionsFile = "positions.csv"
)

// Store archives finished runs on disk. Archives are write-once records for
// plotting and analysis; they are never loaded back into a model.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	SampleEvery int                `json:"sample_every"`
	Masses      int                `json:"masses"`
	Springs     int                `json:"springs"`
	Frames      int                `json:"frames"`
	EnergyDrift float64            `json:"energy_drift"`
	Unstable    bool               `json:"unstable"`
	Metrics     map[string]float64 `json:"metrics"`
}

// RunInfo describes the run being saved.
type RunInfo struct {
	Dt          float64
	SampleEvery int
	Springs     int
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", result.Model, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	masses := 0
	if len(result.Frames) > 0 {
		masses = len(result.Frames[0].Positions)
	}

	meta := RunMetadata{
		ID:          runID,
		Model:       result.Model,
		Timestamp:   now,
		Dt:          info.Dt,
		Steps:       result.StepsTaken,
		SampleEvery: info.SampleEvery,
		Masses:      masses,
		Springs:     info.Springs,
		Frames:      len(result.Frames),
		EnergyDrift: result.EnergyDrift,
		Unstable:    result.Unstable(),
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writePositions(filepath.Join(runDir, positionsFile), result, masses); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writePositions writes one row per frame: time, energy, then x,y,z for
// every mass.
func writePositions(path string, result *sim.Result, masses int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time", "energy"}
	for i := 0; i < masses; i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	row := make([]string, 0, len(header))
	for i, frame := range result.Frames {
		row = append(row[:0], format(frame.T))
		if i < len(result.Energies) {
			row = append(row, format(result.Energies[i]))
		} else {
			row = append(row, "")
		}
		for _, p := range frame.Positions {
			row = append(row, format(p.X()), format(p.Y()), format(p.Z()))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads back the sampled positions and energies of a run.
// Energies is empty when the model reported none.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, positionsFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, []float64{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	energies := make([]float64, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) < 2 || (len(record)-2)%3 != 0 {
			return nil, nil, fmt.Errorf("%s row %d: malformed record", positionsFile, i+1)
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", positionsFile, i+1, err)
		}
		if record[1] != "" {
			e, err := strconv.ParseFloat(record[1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s row %d: %w", positionsFile, i+1, err)
			}
			energies = append(energies, e)
		}

		positions := make([]dynamo.Vec3, 0, (len(record)-2)/3)
		for j := 2; j < len(record); j += 3 {
			var p dynamo.Vec3
			for k := 0; k < 3; k++ {
				v, err := strconv.ParseFloat(record[j+k], 64)
				if err != nil {
					return nil, nil, fmt.Errorf("%s row %d: %w", positionsFile, i+1, err)
				}
				p[k] = v
			}
			positions = append(positions, p)
		}
		frames = append(frames, sim.Frame{T: t, Positions: positions})
	}

	return frames, energies, nil
}
