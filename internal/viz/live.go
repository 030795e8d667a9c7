package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

const (
	canvasWidth     = 72
	canvasHeight    = 26
	historyCapacity = 300
	frameInterval   = time.Second / 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Live is the terminal host: it renders the session's model as a braille
// wireframe and maps keys onto session controls.
type Live struct {
	session  *sim.Session
	camera   *Camera
	canvas   *Canvas
	theme    Theme
	styles   styles
	energy   []float64
	status   string
	failed   bool
	showHelp bool
}

func NewLive(session *sim.Session) Live {
	l := Live{
		session: session,
		camera:  NewCamera(),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		energy:  make([]float64, 0, historyCapacity),
	}
	l.setTheme(Themes[0])
	l.refit()
	return l
}

func (l *Live) setTheme(t Theme) {
	l.theme = t
	l.styles = newStyles(t)
}

func (l *Live) refit() {
	l.camera.Fit(SceneBounds(l.session.Model()))
	l.energy = l.energy[:0]
}

func (l Live) Init() tea.Cmd {
	return tick()
}

func (l Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		l.handleKey(msg.String())
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return l, tea.Quit
		}
	case TickMsg:
		l.advance()
		return l, tick()
	}
	return l, nil
}

func (l *Live) handleKey(key string) {
	s := l.session
	switch key {
	case " ":
		s.Toggle()
		l.failed = false
	case "s":
		l.report(s.StepOnce())
		l.record()
	case "r":
		s.Reset()
		l.energy = l.energy[:0]
		l.failed = false
	case "1", "2", "3", "4":
		k := physics.Kinds[int(key[0]-'1')]
		if err := s.Select(k); err != nil {
			l.report(err)
			return
		}
		l.failed = false
		l.refit()
	case "+":
		n := s.Controls().Iterations
		s.SetIterations(n + max(1, n/10))
	case "-":
		n := s.Controls().Iterations
		s.SetIterations(n - max(1, n/10))
	case "[":
		l.report(s.SetDt(s.Controls().Dt / 2))
	case "]":
		l.report(s.SetDt(s.Controls().Dt * 2))
	case "x":
		l.camera.RotateX(0.1)
	case "X":
		l.camera.RotateX(-0.1)
	case "y":
		l.camera.RotateY(0.1)
	case "Y":
		l.camera.RotateY(-0.1)
	case "z":
		l.camera.RotateZ(0.1)
	case "Z":
		l.camera.RotateZ(-0.1)
	case "=":
		l.camera.ZoomIn()
	case "_":
		l.camera.ZoomOut()
	case "v":
		l.camera.ResetView()
	case "t":
		l.setTheme(NextTheme(l.theme.Name))
	case "?":
		l.showHelp = !l.showHelp
	}
}

func (l *Live) advance() {
	if !l.session.Playing() {
		return
	}
	l.report(l.session.Frame())
	l.record()
}

func (l *Live) report(err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, dynamo.ErrUnstable):
		l.status = "diverged: lower dt or reset"
	default:
		l.status = err.Error()
	}
	l.failed = true
}

func (l *Live) record() {
	h, ok := l.session.Model().(dynamo.Hamiltonian)
	if !ok {
		return
	}
	if len(l.energy) == historyCapacity {
		copy(l.energy, l.energy[1:])
		l.energy = l.energy[:historyCapacity-1]
	}
	l.energy = append(l.energy, h.Energy())
}

func (l Live) View() string {
	l.canvas.Clear()
	Render(l.canvas, l.session.Model(), l.camera)
	canvasView := l.styles.canvas.Render(l.canvas.String())

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, l.styles.panel.Render(l.panel()))
	if l.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func (l Live) panel() string {
	st, s := l.styles, l.session
	ctl := s.Controls()
	v := s.Model().View()

	var b strings.Builder
	b.WriteString(st.title.Render(strings.ToUpper(s.Kind().Title())) + "\n")

	switch {
	case l.failed:
		b.WriteString(st.errText.Render(l.status))
	case ctl.Playing:
		b.WriteString(st.running.Render("▶ RUNNING"))
	default:
		b.WriteString(st.paused.Render("⏸ PAUSED"))
	}
	b.WriteString("\n\n")

	if len(l.energy) > 1 {
		chart := asciigraph.Plot(l.energy, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("energy"))
		b.WriteString(st.graph.Render(chart) + "\n")
	}

	b.WriteString(st.row("time", fmt.Sprintf("%.3fs", s.Time())))
	b.WriteString(st.row("steps", fmt.Sprintf("%d", s.Steps())))
	if len(l.energy) > 0 {
		b.WriteString(st.row("energy", fmt.Sprintf("%.3f J", l.energy[len(l.energy)-1])))
	}
	b.WriteString(st.row("dt", fmt.Sprintf("%g", ctl.Dt)))
	b.WriteString(st.row("iterations", fmt.Sprintf("%d ", ctl.Iterations)+
		st.bar(float64(ctl.Iterations)/float64(sim.MaxIterations), 12)))
	b.WriteString(st.row("masses", fmt.Sprintf("%d", v.MassCount())))
	b.WriteString(st.row("springs", fmt.Sprintf("%d", v.SpringCount())))
	b.WriteString(st.row("theme", l.theme.Name))

	b.WriteString(st.help.Render("SPC:play S:step R:reset 1-4:model\n+/-:iter [/]:dt T:theme ?:help Q:quit"))
	return b.String()
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    play / pause               ║
║  S        single step                ║
║  R        reset model                ║
║  1-4      spring, chain, jelly, cloth║
║  + / -    iterations per frame       ║
║  [ / ]    halve / double dt          ║
║  x y z    rotate (shift reverses)    ║
║  = / _    zoom in / out              ║
║  V        reset view                 ║
║  T        cycle themes               ║
║  ?        toggle this help           ║
║  Q        quit                       ║
╚══════════════════════════════════════╝`
