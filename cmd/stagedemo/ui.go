package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/frameforge/stage/plugin"
	"github.com/frameforge/stage/resource"
	"github.com/frameforge/stage/stage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// frameSurface collects one frame's rendered lines in draw order.
type frameSurface struct {
	lines []string
}

func (f *frameSurface) Draw(_ resource.Identity, content string) {
	f.lines = append(f.lines, content)
}

func (f *frameSurface) reset() {
	f.lines = f.lines[:0]
}

type tickMsg time.Time

type demoModel struct {
	st        *stage.Stage
	resolvers []plugin.Resolver
	log       *zap.Logger
	surface   *frameSurface
	lastErr   error
	interval  time.Duration
	width     int
	hidden    bool
	jumpHP    bool
	frame     uint64
}

func newDemoModel(st *stage.Stage, resolvers []plugin.Resolver, log *zap.Logger, fps int) *demoModel {
	if fps <= 0 {
		fps = 10
	}

	width := 72
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	return &demoModel{
		st:        st,
		resolvers: resolvers,
		log:       log,
		surface:   &frameSurface{},
		interval:  time.Second / time.Duration(fps),
		width:     width,
	}
}

func (m *demoModel) Init() tea.Cmd {
	return m.tick()
}

func (m *demoModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "h":
			m.hidden = !m.hidden
		case "j":
			m.jumpHP = true
		}
		return m, nil

	case tickMsg:
		m.runFrame()
		return m, m.tick()
	}
	return m, nil
}

// runFrame is the per-frame driver: mutate, build, draw, poll.
func (m *demoModel) runFrame() {
	m.frame++
	st := m.st
	st.BeginFrame()

	hp := 0.5 + 0.5*math.Sin(float64(m.frame)/20)
	hpGauge := newGauge("hp_bar", min(40, m.width-20))
	hpGauge.percent = hp
	m.lastErr = st.Place("hp_bar", hpGauge, 5)

	mpGauge := newGauge("mp_bar", min(40, m.width-20))
	mpGauge.percent = 0.5 + 0.5*math.Cos(float64(m.frame)/35)
	if err := st.Place("mp_bar", mpGauge, 6); err != nil {
		m.lastErr = err
	}

	if err := st.Place("status", &panelResource{
		name:    "status",
		content: fmt.Sprintf("frame %d", m.frame),
		width:   min(30, m.width-4),
	}, 1); err != nil {
		m.lastErr = err
	}

	title := &labelResource{name: "title", text: "stage demo"}
	if err := st.Place("title", title, 0); err != nil {
		m.lastErr = err
	}

	hidden := resource.ID("status", "Panel")
	if err := st.Store().SetDisplay(hidden, resource.DisplayInfo{
		AllowDisplay: true,
		ForceHidden:  m.hidden,
	}); err != nil {
		m.lastErr = err
	}

	// The clock is an external kind: until its handler has resolved
	// the miss, this lookup fails and raises a bus event.
	clock := resource.ID("wall_clock", externalClockKind)
	if _, err := st.Lookup(clock); err == nil {
		if err := st.Activate(clock); err != nil {
			m.lastErr = err
		}
	}

	st.Queue().Seal()
	if m.jumpHP {
		st.Queue().RequestJump(resource.ID("hp_bar", "Gauge"))
		m.jumpHP = false
	}

	m.surface.reset()
	st.Draw(m.surface)
	st.EndFrame()

	ctx := context.Background()
	for _, r := range m.resolvers {
		if err := plugin.Poll(ctx, st.Bus(), r, m.log); err != nil {
			m.lastErr = err
		}
	}
}

func (m *demoModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("frameforge stage"))
	b.WriteString("\n\n")

	for _, line := range m.surface.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	stats := m.st.Stats()
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"frames %d · drawn %d · hidden %d · misses %d · queue %s",
		stats.Frames, stats.Drawn, stats.SkippedHidden, stats.MissesRaised,
		m.st.Queue().State())))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("h: toggle panel · j: jump hp_bar · q: quit"))

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.lastErr.Error()))
	}

	return b.String()
}
