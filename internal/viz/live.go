package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pathsim/internal/anim"
	"github.com/san-kum/pathsim/internal/config"
	"github.com/san-kum/pathsim/internal/logging"
	"github.com/san-kum/pathsim/internal/metrics"
	"github.com/san-kum/pathsim/internal/walk"
	"github.com/sirupsen/logrus"
)

const (
	defaultCols = 60
	defaultRows = 22
	minCols     = 16
	minRows     = 6
	panelWidth  = 42
	speedStep   = 5
	legendMax   = 10
)

// GIFPath is where the viewer writes recordings.
var GIFPath = "pathsim.gif"

// frameMsg carries a scheduled animation frame back into Update.
type frameMsg struct {
	frame anim.Frame
}

// Model is the terminal path viewer. Every PathSet change goes through
// reload, which bumps the frame generation so ticks already in flight are
// dropped by the animator.
type Model struct {
	cfg    *config.Config
	gen    *walk.Generator
	anim   *anim.Animator
	canvas *Canvas
	log    logrus.FieldLogger

	speed      float64
	count      int
	paused     bool
	pending    anim.Frame
	hasPending bool
	sized      bool

	stats     map[string]float64
	steps     []float64
	walkTimes []float64

	recording *Recording
	notice    string
	showHelp  bool
	help      help.Model
}

// NewModel loads the first PathSet for cfg. A nil log discards output.
func NewModel(cfg *config.Config, log logrus.FieldLogger) Model {
	if log == nil {
		log = logging.Discard()
	}
	m := Model{
		cfg:    cfg,
		gen:    cfg.Generator(),
		anim:   anim.New(cfg.Bounds()),
		canvas: NewCanvas(fitCanvas(cfg.Bounds(), defaultCols, defaultRows)),
		log:    log,
		speed:  anim.ClampSpeed(cfg.Animation.Speed),
		count:  cfg.Animation.Paths,
		help:   help.New(),
	}
	m.pending, m.hasPending = m.reload(), true
	return m
}

func (m Model) Init() tea.Cmd {
	if !m.hasPending {
		return nil
	}
	return deliver(m.pending)
}

func deliver(f anim.Frame) tea.Cmd {
	return func() tea.Msg { return frameMsg{frame: f} }
}

func (m Model) schedule(f anim.Frame) tea.Cmd {
	return tea.Tick(anim.Interval(m.speed), func(time.Time) tea.Msg { return frameMsg{frame: f} })
}

// Update handles input events and advances playback.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height)
	case frameMsg:
		return m.onFrame(msg.frame)
	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m Model) onFrame(f anim.Frame) (tea.Model, tea.Cmd) {
	fresh := f.Generation == m.anim.Generation() && m.anim.State() == anim.Animating
	if !fresh {
		return m, nil
	}
	if m.paused {
		m.pending, m.hasPending = f, true
		return m, nil
	}
	m.hasPending = false

	next, ok := m.anim.Step(f, m.canvas)
	if m.recording != nil {
		m.recording.Capture(m.canvas, anim.Interval(m.speed))
	}
	if !ok {
		m.log.WithField("generation", f.Generation).Debug("animation complete")
		return m, nil
	}
	return m, m.schedule(next)
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.recording != nil {
			m.stopRecording()
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Regenerate):
		return m, m.restart(m.reload())
	case key.Matches(msg, keys.Faster):
		return m.setSpeed(m.speed + speedStep)
	case key.Matches(msg, keys.Slower):
		return m.setSpeed(m.speed - speedStep)
	case key.Matches(msg, keys.More):
		return m.setCount(m.count + 1)
	case key.Matches(msg, keys.Fewer):
		return m.setCount(m.count - 1)
	case key.Matches(msg, keys.Pause):
		m.paused = !m.paused
		if !m.paused && m.hasPending {
			m.hasPending = false
			return m, deliver(m.pending)
		}
	case key.Matches(msg, keys.Back):
		return m.scrub(-1)
	case key.Matches(msg, keys.Forward):
		return m.scrub(1)
	case key.Matches(msg, keys.Theme):
		NextTheme()
	case key.Matches(msg, keys.Record):
		if m.recording != nil {
			m.stopRecording()
		} else {
			m.recording = NewRecording()
			m.notice = "recording"
		}
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

// restart dispatches the first frame of a fresh PathSet, or parks it while
// paused.
func (m *Model) restart(f anim.Frame) tea.Cmd {
	if m.paused {
		m.anim.Draw(m.canvas)
		m.pending, m.hasPending = f, true
		return nil
	}
	m.hasPending = false
	return deliver(f)
}

func (m Model) setSpeed(speed float64) (tea.Model, tea.Cmd) {
	speed = anim.ClampSpeed(speed)
	if speed == m.speed {
		return m, nil
	}
	m.speed = speed
	return m, m.restart(m.reload())
}

func (m Model) setCount(n int) (tea.Model, tea.Cmd) {
	n = max(1, min(n, config.MaxPaths))
	if n == m.count {
		return m, nil
	}
	m.count = n
	return m, m.restart(m.reload())
}

func (m Model) scrub(dir int) (tea.Model, tea.Cmd) {
	if m.anim.State() == anim.Idle {
		return m, nil
	}
	f := m.anim.Seek(m.anim.Cursor() + dir)
	return m, m.restart(f)
}

// resize fits the canvas to the terminal. The first size message replays the
// loaded PathSet on the new canvas; later ones regenerate.
func (m Model) resize(w, h int) (tea.Model, tea.Cmd) {
	m.help.Width = w
	cols, rows := fitCanvas(m.cfg.Bounds(), w-panelWidth-6, h-6)
	if cols == m.canvas.Width && rows == m.canvas.Height && m.sized {
		return m, nil
	}
	m.canvas.Resize(cols, rows)
	if !m.sized {
		m.sized = true
		return m, m.restart(m.anim.Load(m.anim.Paths()))
	}
	return m, m.restart(m.reload())
}

// reload generates a new PathSet and loads it into the animator.
func (m *Model) reload() anim.Frame {
	paths := m.gen.GenerateMultiplePaths(m.count)
	f := m.anim.Load(paths)

	m.stats = metrics.Evaluate(paths)
	m.steps = make([]float64, 0, len(paths))
	m.walkTimes = make([]float64, 0, len(paths))
	for _, p := range paths {
		st := metrics.Stats(p)
		m.steps = append(m.steps, float64(st.Steps))
		m.walkTimes = append(m.walkTimes, st.WalkTime.Seconds())
	}

	m.log.WithFields(logrus.Fields{
		"generation": f.Generation,
		"paths":      len(paths),
		"max_len":    paths.MaxLen(),
		"speed":      m.speed,
	}).Debug("path set loaded")
	return f
}

func (m *Model) stopRecording() {
	rec := m.recording
	m.recording = nil
	if err := rec.Save(GIFPath); err != nil {
		m.notice = "gif: " + err.Error()
		m.log.WithError(err).Warn("gif not saved")
		return
	}
	m.notice = fmt.Sprintf("saved %s (%d frames)", GIFPath, rec.Len())
	m.log.WithFields(logrus.Fields{"path": GIFPath, "frames": rec.Len()}).Info("gif saved")
}

// fitCanvas returns the largest cols x rows within the limits whose
// sub-pixel aspect matches the floor.
func fitCanvas(b walk.FloorBounds, maxCols, maxRows int) (int, int) {
	maxCols = max(maxCols, minCols)
	maxRows = max(maxRows, minRows)
	if !b.Valid() {
		return maxCols, maxRows
	}
	ratio := float64(b.Width) / float64(b.Length)
	cols, rows := maxCols, maxRows
	if float64(2*cols)/float64(4*rows) > ratio {
		cols = max(int(ratio*float64(4*rows)/2), 1)
	} else {
		rows = max(int(float64(2*cols)/(4*ratio)), 1)
	}
	return cols, rows
}

func (m Model) status() (string, lipgloss.Color) {
	switch {
	case m.paused:
		return "PAUSED", CurrentTheme.Paused
	case m.anim.State() == anim.Complete:
		return "COMPLETE", CurrentTheme.Done
	case m.anim.State() == anim.Animating:
		return "WALKING", CurrentTheme.Playing
	}
	return "IDLE", CurrentTheme.Muted
}

// View renders the canvas and the side panel.
func (m Model) View() string {
	th := CurrentTheme
	label := labelStyle.Foreground(th.Muted)
	value := valueStyle.Foreground(th.Text)
	muted := lipgloss.NewStyle().Foreground(th.Muted)
	row := func(k, v string) string { return label.Render(k) + value.Render(v) + "\n" }

	canvasView := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Render(strings.TrimSuffix(m.canvas.Render(), "\n"))

	var s strings.Builder
	s.WriteString(GradientText("PATHSIM", th.Title, th.TitleEnd) + "\n")
	floor := m.cfg.Bounds()
	preset := m.cfg.Preset
	if preset == "" {
		preset = "custom"
	}
	s.WriteString(muted.Render(fmt.Sprintf("%s floor %dx%d", preset, floor.Width, floor.Length)) + "\n\n")

	status, color := m.status()
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(color).Render(status))
	if m.recording != nil {
		s.WriteString("  " + lipgloss.NewStyle().Bold(true).Foreground(th.Done).Render(fmt.Sprintf("● REC %d", m.recording.Len())))
	}
	s.WriteString("\n\n")

	s.WriteString(row("Paths", fmt.Sprintf("%d", m.count)))
	s.WriteString(row("Speed", fmt.Sprintf("%.0f (%s/frame)", m.speed, anim.Interval(m.speed))))
	s.WriteString(row("Cursor", fmt.Sprintf("%d / %d", m.anim.Cursor(), m.anim.MaxLen())))
	s.WriteString(label.Render("Progress") + ProgressBar(m.anim.Progress(), 20) + "\n")
	s.WriteString(row("Seed", fmt.Sprintf("%d", m.gen.Seed())))
	s.WriteString("\n" + Separator(panelWidth-4) + "\n\n")

	s.WriteString(row("Mean steps", fmt.Sprintf("%.1f", m.stats["steps"])))
	s.WriteString(row("Mean length", fmt.Sprintf("%.1f", m.stats["path_length"])))
	s.WriteString(row("Straight", fmt.Sprintf("%.2f", m.stats["straightness"])))
	s.WriteString(row("Walk time", fmt.Sprintf("%.1fs", m.stats["walk_time"])))
	s.WriteString(label.Render("Times") + SparklineChart(m.walkTimes, 20) + "\n")

	if len(m.steps) > 1 {
		chart := asciigraph.Plot(m.steps, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("steps per path"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Text).Render(chart) + "\n")
	}

	s.WriteString("\n")
	for i, c := range m.anim.Colors() {
		if i == legendMax {
			s.WriteString(muted.Render(fmt.Sprintf("+%d more", len(m.anim.Colors())-legendMax)) + "\n")
			break
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		s.WriteString(fmt.Sprintf("%s %s\n", dot, muted.Render(fmt.Sprintf("path %d: %.0f steps", i+1, m.steps[i]))))
	}

	if m.notice != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Paused).Render(m.notice) + "\n")
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(th.Border).
		Padding(0, 2).
		Width(panelWidth).
		Render(s.String())

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel)
	return view + "\n" + m.help.View(keys)
}
