package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "single_spring" {
		t.Errorf("expected model single_spring, got %s", cfg.Model)
	}
	if cfg.TimeStep() != 0.015 {
		t.Errorf("expected default dt 0.015, got %g", cfg.TimeStep())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
	if cfg.ChainParams() != physics.DefaultChainParams() {
		t.Errorf("expected chain params to match defaults, got %+v", cfg.ChainParams())
	}
	if cfg.LatticeParams() != physics.DefaultLatticeParams() {
		t.Errorf("expected lattice params to match defaults, got %+v", cfg.LatticeParams())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte(`model: cloth
dt: 0.0005
gravity: [0, -1.62, 0]
grid:
  width: 6
  air_drag: 0
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	k, _ := cfg.Kind()
	if k != physics.KindGrid {
		t.Errorf("expected grid, got %v", k)
	}
	p := cfg.GridParams()
	if p.Width != 6 || p.Height != 8 {
		t.Errorf("expected 6x8 grid, got %dx%d", p.Width, p.Height)
	}
	if p.Env.Gravity != (dynamo.Vec3{0, -1.62, 0}) {
		t.Errorf("expected lunar gravity, got %v", p.Env.Gravity)
	}
	if p.Env.AirDrag != 0 {
		t.Errorf("expected no drag, got %f", p.Env.AirDrag)
	}
	if cfg.TimeStep() != 0.0005 {
		t.Errorf("expected dt 0.0005, got %g", cfg.TimeStep())
	}
}

func TestSaveLoadPreservesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("lattice", "soft")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.LatticeParams() != cfg.LatticeParams() {
		t.Errorf("expected %+v, got %+v", cfg.LatticeParams(), loaded.LatticeParams())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"unknown model", func(c *Config) { c.Model = "pendulum3d" }, nil},
		{"negative dt", func(c *Config) { c.Dt = -1 }, dynamo.ErrInvalidTimestep},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, nil},
		{"too many iterations", func(c *Config) { c.Iterations = 101 }, nil},
		{"short gravity", func(c *Config) { c.Gravity = []float64{0, -9.81} }, nil},
		{"bad chain", func(c *Config) { c.Model = "chain"; c.Chain.Count = 1 }, dynamo.ErrInvalidTopology},
		{"bad lattice", func(c *Config) { c.Model = "jelly"; c.Lattice.Mass = 0 }, dynamo.ErrInvalidTopology},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("chain", "long")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Model != "chain" {
		t.Errorf("expected model chain, got %s", cfg.Model)
	}
	if cfg.Chain.Count != 30 {
		t.Errorf("expected 30 links, got %d", cfg.Chain.Count)
	}
	if DefaultConfig().Chain.Count != 11 {
		t.Error("expected preset not to modify defaults")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("chain", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "long"); cfg != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for model := range Presets {
		for _, name := range ListPresets(model) {
			if err := GetPreset(model, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", model, name, err)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("grid")
	want := []string{"large", "stiff", "structural"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}
