package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

var modelInfo = map[physics.Kind]string{
	physics.KindSingleSpring: "pulled down, then released to oscillate",
	physics.KindChain:        "serial pendulum swinging under gravity",
	physics.KindLattice:      "proximity-wired block dropped on the ground",
	physics.KindGrid:         "sheet hung from two corners",
}

// SessionOpener starts a session on the chosen model.
type SessionOpener func(physics.Kind) (*sim.Session, error)

// Menu lists the models and hands over to a Live view on selection.
type Menu struct {
	open   SessionOpener
	cursor int
	err    error
	styles styles
}

func NewMenu(open SessionOpener) Menu {
	return Menu{open: open, styles: newStyles(Themes[0])}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = (m.cursor + len(physics.Kinds) - 1) % len(physics.Kinds)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(physics.Kinds)
	case "1", "2", "3", "4":
		m.cursor = int(key.String()[0] - '1')
		return m.launch()
	case "enter", " ":
		return m.launch()
	}
	return m, nil
}

func (m Menu) launch() (tea.Model, tea.Cmd) {
	s, err := m.open(physics.Kinds[m.cursor])
	if err != nil {
		m.err = err
		return m, nil
	}
	live := NewLive(s)
	return live, live.Init()
}

func (m Menu) View() string {
	st := m.styles
	var b strings.Builder
	b.WriteString(st.title.Render("SPRINGSIM") + "\n")
	for i, k := range physics.Kinds {
		line := fmt.Sprintf("%d  %-16s %s", i+1, k.Title(), modelInfo[k])
		if i == m.cursor {
			b.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n" + st.errText.Render(m.err.Error()) + "\n")
	}
	b.WriteString(st.help.Render("↑↓:move enter:open q:quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
