package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func newSession(t *testing.T, kind physics.Kind) *Session {
	t.Helper()
	s, err := NewSession(kind, nil, quiet())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestSessionSelect(t *testing.T) {
	s := newSession(t, physics.KindSingleSpring)
	s.Play()

	if err := s.Select(physics.KindLattice); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s.Playing() {
		t.Error("expected select to pause")
	}
	if s.Controls().Dt != physics.KindLattice.DefaultDt() {
		t.Errorf("expected dt %g, got %g", physics.KindLattice.DefaultDt(), s.Controls().Dt)
	}
	if s.Model().Name() != "lattice" {
		t.Errorf("expected lattice, got %s", s.Model().Name())
	}
}

func TestSessionSelectError(t *testing.T) {
	build := func(k physics.Kind) (dynamo.Model, error) {
		if k == physics.KindGrid {
			return nil, dynamo.ErrInvalidTopology
		}
		return physics.New(k)
	}
	s, err := NewSession(physics.KindChain, build, quiet())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Select(physics.KindGrid); !errors.Is(err, dynamo.ErrInvalidTopology) {
		t.Errorf("expected ErrInvalidTopology, got %v", err)
	}
	if s.Kind() != physics.KindChain {
		t.Errorf("expected previous model to stay active, got %v", s.Kind())
	}
}

func TestSessionFrame(t *testing.T) {
	s := newSession(t, physics.KindChain)
	s.SetIterations(5)

	if err := s.Frame(); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if s.Steps() != 0 {
		t.Errorf("expected paused frame to do nothing, got %d steps", s.Steps())
	}

	s.Toggle()
	if err := s.Frame(); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if s.Steps() != 5 {
		t.Errorf("expected 5 steps, got %d", s.Steps())
	}

	s.Pause()
	if err := s.StepOnce(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s.Steps() != 6 {
		t.Errorf("expected 6 steps, got %d", s.Steps())
	}

	s.Reset()
	if s.Steps() != 0 || s.Time() != 0 {
		t.Errorf("expected reset counters, got %d steps at t=%f", s.Steps(), s.Time())
	}
	if got := s.Model().View().Position(10); got != (dynamo.Vec3{15, 0, 0}) {
		t.Errorf("expected initial position, got %v", got)
	}
}

func TestSessionControls(t *testing.T) {
	s := newSession(t, physics.KindGrid)

	tests := []struct {
		in, want int
	}{
		{0, MinIterations},
		{-3, MinIterations},
		{50, 50},
		{1000, MaxIterations},
	}
	for _, tt := range tests {
		s.SetIterations(tt.in)
		if got := s.Controls().Iterations; got != tt.want {
			t.Errorf("SetIterations(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}

	if err := s.SetDt(-1); !errors.Is(err, dynamo.ErrInvalidTimestep) {
		t.Errorf("expected ErrInvalidTimestep, got %v", err)
	}
	if s.Controls().Dt != physics.KindGrid.DefaultDt() {
		t.Errorf("expected dt unchanged, got %g", s.Controls().Dt)
	}
	if err := s.SetDt(0.002); err != nil {
		t.Fatalf("set dt: %v", err)
	}
	if err := s.Controls().Validate(); err != nil {
		t.Errorf("expected valid controls, got %v", err)
	}
}

func TestSessionPausesOnDivergence(t *testing.T) {
	s := newSession(t, physics.KindChain)
	if err := s.SetDt(1); err != nil {
		t.Fatal(err)
	}
	s.SetIterations(MaxIterations)
	s.Play()

	var err error
	for i := 0; i < 20 && err == nil; i++ {
		err = s.Frame()
	}
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
	if s.Playing() {
		t.Error("expected divergence to pause the session")
	}
}
