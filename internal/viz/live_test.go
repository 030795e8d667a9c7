package viz

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

func newLive(t *testing.T, kind physics.Kind) Live {
	t.Helper()
	s, err := sim.NewSession(kind, nil, log.New(io.Discard))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return NewLive(s)
}

func press(l Live, key string) (Live, tea.Cmd) {
	var msg tea.KeyMsg
	if key == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, cmd := l.Update(msg)
	return m.(Live), cmd
}

func TestLivePlayPause(t *testing.T) {
	l := newLive(t, physics.KindSingleSpring)
	l, _ = press(l, " ")
	if !l.session.Playing() {
		t.Fatal("expected playing after space")
	}

	m, cmd := l.Update(TickMsg{})
	l = m.(Live)
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
	if l.session.Steps() == 0 {
		t.Error("expected a frame to advance the session")
	}
	if len(l.energy) != 1 {
		t.Errorf("expected one energy sample, got %d", len(l.energy))
	}

	l, _ = press(l, " ")
	steps := l.session.Steps()
	m, _ = l.Update(TickMsg{})
	l = m.(Live)
	if l.session.Steps() != steps {
		t.Error("paused session advanced on tick")
	}
}

func TestLiveStepAndReset(t *testing.T) {
	l := newLive(t, physics.KindChain)
	l, _ = press(l, "s")
	if l.session.Steps() != 1 {
		t.Fatalf("expected 1 step, got %d", l.session.Steps())
	}
	l, _ = press(l, "r")
	if l.session.Steps() != 0 || l.session.Time() != 0 {
		t.Error("expected reset to clear the clock")
	}
	if len(l.energy) != 0 {
		t.Error("expected reset to clear the energy history")
	}
}

func TestLiveSelectModel(t *testing.T) {
	l := newLive(t, physics.KindSingleSpring)
	l, _ = press(l, "3")
	if l.session.Kind() != physics.KindLattice {
		t.Errorf("expected lattice, got %s", l.session.Kind())
	}
	l, _ = press(l, "4")
	if l.session.Kind() != physics.KindGrid {
		t.Errorf("expected grid, got %s", l.session.Kind())
	}
}

func TestLiveControls(t *testing.T) {
	l := newLive(t, physics.KindChain)
	dt := l.session.Controls().Dt

	l, _ = press(l, "]")
	if got := l.session.Controls().Dt; got != 2*dt {
		t.Errorf("expected dt %g, got %g", 2*dt, got)
	}
	l, _ = press(l, "[")
	if got := l.session.Controls().Dt; got != dt {
		t.Errorf("expected dt %g, got %g", dt, got)
	}

	l, _ = press(l, "+")
	if got := l.session.Controls().Iterations; got != 2 {
		t.Errorf("expected 2 iterations, got %d", got)
	}
	for i := 0; i < 200; i++ {
		l, _ = press(l, "+")
	}
	if got := l.session.Controls().Iterations; got != sim.MaxIterations {
		t.Errorf("expected clamp at %d, got %d", sim.MaxIterations, got)
	}
}

func TestLiveCameraKeys(t *testing.T) {
	l := newLive(t, physics.KindGrid)
	yaw := l.camera.Yaw
	l, _ = press(l, "y")
	if l.camera.Yaw == yaw {
		t.Error("expected yaw to change")
	}
	l, _ = press(l, "v")
	if l.camera.Yaw != yaw {
		t.Error("expected view reset")
	}

	theme := l.theme.Name
	l, _ = press(l, "t")
	if l.theme.Name == theme {
		t.Error("expected theme to change")
	}
}

func TestLiveQuit(t *testing.T) {
	l := newLive(t, physics.KindSingleSpring)
	_, cmd := press(l, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestLiveView(t *testing.T) {
	l := newLive(t, physics.KindSingleSpring)
	out := l.View()
	if !strings.Contains(out, "MASS ON SPRING") {
		t.Error("expected model title in view")
	}
	l, _ = press(l, "?")
	if !strings.Contains(l.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}

func TestMenuLaunch(t *testing.T) {
	open := func(k physics.Kind) (*sim.Session, error) {
		return sim.NewSession(k, nil, log.New(io.Discard))
	}
	m := NewMenu(open)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})

	live, ok := next.(Live)
	if !ok {
		t.Fatalf("expected Live, got %T", next)
	}
	if cmd == nil {
		t.Error("expected tick command")
	}
	if live.session.Kind() != physics.KindChain {
		t.Errorf("expected chain, got %s", live.session.Kind())
	}
}
