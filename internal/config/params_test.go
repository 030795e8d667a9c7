package config

import "testing"

func TestSetGet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"chain.stiffness", 1234, 1234},
		{"lattice.damping_ratio", 0.25, 0.25},
		{"grid.width", 7.6, 8},
		{"dt", 0.002, 0.002},
	}
	for _, tt := range tests {
		if err := cfg.Set(tt.name, tt.value); err != nil {
			t.Fatalf("set %s: %v", tt.name, err)
		}
		got, err := cfg.Get(tt.name)
		if err != nil {
			t.Fatalf("get %s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: expected %g, got %g", tt.name, tt.want, got)
		}
	}
	if cfg.Grid.Width != 8 {
		t.Errorf("expected grid width 8, got %d", cfg.Grid.Width)
	}
}

func TestSetUnknown(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("chain.color", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestParamNamesCoverYAML(t *testing.T) {
	cfg := DefaultConfig()
	for _, name := range ParamNames() {
		if _, err := cfg.Get(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	c := cfg.Clone()
	c.Gravity[1] = 0
	c.Chain.Count = 99

	if cfg.Gravity[1] == 0 {
		t.Error("clone shares gravity")
	}
	if cfg.Chain.Count == 99 {
		t.Error("clone shares chain section")
	}
}
