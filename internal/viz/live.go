package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/internal/scene"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
)

type TickMsg time.Time

// counters live behind a pointer so event listeners keep writing into
// the same cells while bubbletea copies the model around.
type counters struct {
	collisions  int
	outOfBounds int
}

// Model drives a scene under bubbletea: one simulation frame per tick,
// a braille canvas on the left and live stats on the right.
type Model struct {
	scn      *scene.Scene
	built    *scene.Built
	counts   *counters
	canvas   *Canvas
	viewport Viewport

	dt            float64
	elapsed       float64
	running       bool
	energyHistory []float64
}

func NewModel(scn *scene.Scene) (Model, error) {
	built, counts, err := buildInstrumented(scn)
	if err != nil {
		return Model{}, err
	}

	canvas := NewCanvas(canvasWidth, canvasHeight)
	return Model{
		scn:           scn,
		built:         built,
		counts:        counts,
		canvas:        canvas,
		viewport:      frame(scn, canvas),
		dt:            1.0 / scn.FrameRate,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}, nil
}

func buildInstrumented(scn *scene.Scene) (*scene.Built, *counters, error) {
	built, err := scn.Build()
	if err != nil {
		return nil, nil, err
	}
	counts := &counters{}
	built.World.Events.Subscribe(quill.COLLISION_ENTER, func(quill.Event) { counts.collisions++ })
	built.World.Events.Subscribe(quill.OUT_OF_BOUNDS, func(quill.Event) { counts.outOfBounds++ })
	return built, counts, nil
}

// frame picks the world region to render: declared bounds when the
// scene has them, a region around the origin otherwise.
func frame(scn *scene.Scene, c *Canvas) Viewport {
	if scn.Bounds != nil {
		return FitViewport(scn.Bounds.Min, scn.Bounds.Max, c)
	}
	return FitViewport(mgl64.Vec2{-20, -15}, mgl64.Vec2{20, 15}, c)
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done() {
				m.running = !m.running
			}
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.built.World.Step(m.dt)
	for _, sys := range m.built.Systems {
		sys.Update(m.dt)
	}
	m.built.World.RemoveMarked()
	m.elapsed += m.dt

	m.energyHistory = append(m.energyHistory, m.built.World.Stats().KineticEnergy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	if m.done() {
		m.running = false
	}
}

func (m *Model) reset() {
	built, counts, err := buildInstrumented(m.scn)
	if err != nil {
		return
	}
	m.built = built
	m.counts = counts
	m.elapsed = 0
	m.running = true
	m.energyHistory = m.energyHistory[:0]
}

func (m Model) done() bool {
	return m.elapsed >= m.scn.Duration
}

func (m Model) status() string {
	switch {
	case m.done():
		return "DONE"
	case m.running:
		return "RUNNING"
	}
	return "PAUSED"
}

func (m Model) View() string {
	m.canvas.Clear()
	DrawWorld(m.canvas, m.viewport, m.built.World)
	for _, sys := range m.built.Systems {
		DrawParticles(m.canvas, m.viewport, sys.Particles())
	}
	canvasView := canvasStyle.Render(m.canvas.String())

	stats := m.built.World.Stats()
	particles := 0
	for _, sys := range m.built.Systems {
		particles += sys.Len()
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scn.Name)) + "\n")
	s.WriteString(statusStyle.Render(m.status()) + "\n\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs / %.0fs", m.elapsed, m.scn.Duration)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d (%d awake, %d asleep)", stats.Bodies, stats.Awake, stats.Sleeping)) + "\n")
	s.WriteString(labelStyle.Render("Contacts") + valueStyle.Render(fmt.Sprintf("%d", stats.Contacts)) + "\n")
	s.WriteString(labelStyle.Render("Collisions") + valueStyle.Render(fmt.Sprintf("%d", m.counts.collisions)) + "\n")
	s.WriteString(labelStyle.Render("Escapes") + valueStyle.Render(fmt.Sprintf("%d", m.counts.outOfBounds)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", particles)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f", stats.KineticEnergy)) + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("space: pause  r: reset  q: quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
