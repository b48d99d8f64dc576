package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/harddisk-md/internal/collision"
	"github.com/san-kum/harddisk-md/internal/metrics"
)

const (
	canvasWidth  = 70
	canvasHeight = 24
)

type tickMsg time.Time

// Model drives an interactive terminal view of a running collision.System:
// each tick pulls one Frame snapshot from the engine, maps it onto a
// Braille canvas and renders it beside a stats/histogram panel.
type Model struct {
	sys    *collision.System
	canvas *Canvas

	snap Snapshot

	energyHistory []float64
	showHelp      bool
}

// Snapshot mirrors collision.Snapshot; keeping a local copy means View
// never reaches back into the engine mid-render.
type Snapshot = collision.Snapshot

func NewModel(sys *collision.System) Model {
	return Model{
		sys:           sys,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		energyHistory: make([]float64, 0, 600),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sys.Stop()
			return m, tea.Quit
		case " ":
			m.sys.TogglePause()
		case "a":
			m.sys.AddParticle()
		case "o":
			m.sys.RemoveOverlaps()
		case "]":
			m.sys.AdjustWallSpeed(0.1)
		case "[":
			m.sys.AdjustWallSpeed(-0.1)
		case "+", "=":
			m.sys.Histogram().SetScale(m.sys.Histogram().Scale() * 1.25)
		case "-", "_":
			m.sys.Histogram().SetScale(m.sys.Histogram().Scale() * 0.8)
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case tickMsg:
		snap, ok := m.sys.Tick()
		if !ok {
			return m, tea.Quit
		}
		m.snap = snap
		m.energyHistory = append(m.energyHistory, snap.AvgKineticEnergy)
		if len(m.energyHistory) > 600 {
			m.energyHistory = m.energyHistory[1:]
		}
		m.draw()
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

// project maps a box-space coordinate in [0, side] to sub-pixel canvas
// coordinates.
func (m *Model) project(x, y float64) (int, int) {
	if m.snap.Side <= 0 {
		return 0, 0
	}
	cw, ch := canvasWidth*2, canvasHeight*4
	px := round(x / m.snap.Side * float64(cw-1))
	py := round((1 - y/m.snap.Side) * float64(ch-1))
	return clampInt(px, 0, cw-1), clampInt(py, 0, ch-1)
}

func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := canvasWidth*2, canvasHeight*4
	m.canvas.DrawRect(0, 0, cw-1, ch-1)

	for _, pt := range m.snap.TracerPath {
		x, y := m.project(pt.X, pt.Y)
		m.canvas.Set(x, y)
	}

	for _, p := range m.snap.Particles {
		cx, cy := m.project(p.X, p.Y)
		r := round(p.Radius / m.snap.Side * float64(cw))
		m.canvas.DrawDisk(cx, cy, r)
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("HARD DISK GAS") + "\n")

	status := statusRunning.Render("RUNNING")
	if m.snap.Paused {
		status = statusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("avg KE"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	if len(m.snap.HistogramCounts) > 1 {
		speeds := make([]float64, len(m.snap.HistogramCounts))
		for i, c := range m.snap.HistogramCounts {
			speeds[i] = float64(c)
		}
		chart := asciigraph.Plot(speeds, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("speed histogram"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	n := len(m.snap.Particles)
	temp := metrics.Temperature(m.snap.AvgKineticEnergy)
	area := m.snap.Side * m.snap.Side
	pressure := 0.0
	packing := 0.0
	if area > 0 {
		pressure = metrics.Pressure(m.snap.AvgKineticEnergy, n, area)
		sum := 0.0
		for _, p := range m.snap.Particles {
			sum += math.Pi * p.Radius * p.Radius
		}
		packing = sum / area
	}

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", m.snap.Time)))
	s.WriteString(row("Particles", fmt.Sprintf("%d", n)))
	s.WriteString(row("Collisions", fmt.Sprintf("%d", m.snap.CollisionsTotal)))
	s.WriteString(row("Queue size", fmt.Sprintf("%d", m.snap.QueueSize)))
	s.WriteString(row("Wall speed", fmt.Sprintf("%.3f", m.snap.WallSpeed)))
	s.WriteString(row("Avg KE", fmt.Sprintf("%.3e", m.snap.AvgKineticEnergy)))
	s.WriteString(row("Temperature", fmt.Sprintf("%.1fK", temp)))
	s.WriteString(row("Pressure", fmt.Sprintf("%.3e", pressure)))
	s.WriteString(row("Packing", fmt.Sprintf("%.3f", packing)))
	s.WriteString(row("Tracer pts", fmt.Sprintf("%d", len(m.snap.TracerPath))))

	s.WriteString(helpStyle.Render("\n─────────────────────\nSpace:Pause A:Add O:DeOverlap\n[ ]:WallSpeed +/-:HistScale Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
