package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/pathsim/internal/config"
	"github.com/san-kum/pathsim/internal/logging"
	"github.com/sirupsen/logrus"
)

var presetInfo = map[string]string{
	"ward":     "hospital ward, 50x75",
	"lobby":    "wide entrance hall",
	"corridor": "long narrow corridor",
	"atrium":   "open square atrium",
}

const (
	stateMenu = iota
	stateLive
)

// picker lists the floor presets and hands the chosen one to the viewer.
type picker struct {
	state, cursor int
	presets       []string
	base          *config.Config
	log           logrus.FieldLogger
	width, height int
	live          Model
}

// NewPresetPicker starts on a preset menu. Overrides from base (seed, log
// level) are kept when a preset is chosen.
func NewPresetPicker(base *config.Config, log logrus.FieldLogger) tea.Model {
	if log == nil {
		log = logging.Discard()
	}
	return picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		base:    base,
		log:     log,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.start()
		}
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(m.presets[m.cursor])
	if m.base != nil {
		cfg.Seed = m.base.Seed
		cfg.LogLevel = m.base.LogLevel
	}
	m.log.WithField("preset", cfg.Preset).Info("preset selected")

	m.live = NewModel(cfg, m.log)
	m.state = stateLive
	cmds := []tea.Cmd{m.live.Init()}
	if m.width > 0 {
		w, h := m.width, m.height
		cmds = append(cmds, func() tea.Msg { return tea.WindowSizeMsg{Width: w, Height: h} })
	}
	return m, tea.Batch(cmds...)
}

func (m picker) View() string {
	if m.state == stateLive {
		return m.live.View()
	}
	th := CurrentTheme
	muted := lipgloss.NewStyle().Foreground(th.Muted)
	hint := lipgloss.NewStyle().Foreground(th.Title).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("PATHSIM", th.Title, th.TitleEnd) + "\n")
	b.WriteString("    " + muted.Render("synthetic pedestrian paths") + "\n")
	b.WriteString("    " + muted.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		cfg := config.Presets[name]
		desc := fmt.Sprintf("%-22s %d paths", presetInfo[name], cfg.Animation.Paths)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				hint.Render("▸"),
				lipgloss.NewStyle().Foreground(th.Text).Bold(true).Render(fmt.Sprintf("%-10s", name)),
				lipgloss.NewStyle().Foreground(th.TitleEnd).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", muted.Render(fmt.Sprintf("%-10s", name)), muted.Render(desc)))
		}
	}
	b.WriteString("\n    " + hint.Render("j/k") + muted.Render(" navigate  ") +
		hint.Render("enter") + muted.Render(" walk  ") +
		hint.Render("q") + muted.Render(" quit") + "\n")
	return b.String()
}
