package gui

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

// newHeadless builds an App without opening a window or loading a font.
func newHeadless(t *testing.T, kind physics.Kind) *App {
	t.Helper()
	logger := log.New(io.Discard)
	s, err := sim.NewSession(kind, nil, logger)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return &App{Session: s, ShowPanel: true, logger: logger}
}

func TestPressTimestepKeys(t *testing.T) {
	a := newHeadless(t, physics.KindSingleSpring)
	dt := a.Session.Controls().Dt

	a.press(rl.KeyLeftBracket)
	if got := a.Session.Controls().Dt; got != dt/2 {
		t.Errorf("expected dt %g after [, got %g", dt/2, got)
	}

	a.press(rl.KeyRightBracket)
	a.press(rl.KeyRightBracket)
	if got := a.Session.Controls().Dt; got != dt*2 {
		t.Errorf("expected dt %g after ]], got %g", dt*2, got)
	}
	if a.Status != "" {
		t.Errorf("expected no status, got %q", a.Status)
	}
}

func TestPressControls(t *testing.T) {
	a := newHeadless(t, physics.KindChain)

	a.press(rl.KeySpace)
	if !a.Session.Playing() {
		t.Error("expected space to start playback")
	}

	n := a.Session.Controls().Iterations
	a.press(rl.KeyUp)
	if a.Session.Controls().Iterations <= n {
		t.Errorf("expected iterations above %d, got %d", n, a.Session.Controls().Iterations)
	}

	a.press(rl.KeyP)
	if a.ShowPanel {
		t.Error("expected P to hide the panel")
	}

	a.press(rl.KeyS)
	if a.Session.Steps() != 1 {
		t.Errorf("expected one step, got %d", a.Session.Steps())
	}
	if len(a.Telemetry) != 1 {
		t.Errorf("expected one telemetry sample, got %d", len(a.Telemetry))
	}

	a.press(rl.KeyR)
	if a.Session.Steps() != 0 || len(a.Telemetry) != 0 {
		t.Error("expected reset to clear steps and telemetry")
	}
}

func TestPressSelectsModel(t *testing.T) {
	a := newHeadless(t, physics.KindChain)

	a.press(rl.KeyThree)
	if a.Session.Kind() != physics.KindLattice {
		t.Errorf("expected lattice, got %s", a.Session.Kind())
	}
	if a.orbit.distance <= 0 {
		t.Error("expected camera to be framed on the new model")
	}
}
