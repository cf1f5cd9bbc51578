package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/frameforge/stage/event"
	"github.com/frameforge/stage/resource"
	"github.com/frameforge/stage/stage"
)

const externalClockKind = "Clock"

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// gaugeResource renders a percentage bar through a bubbles progress
// model.
type gaugeResource struct {
	bar     progress.Model
	name    string
	percent float64
}

func newGauge(name string, width int) *gaugeResource {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = width
	return &gaugeResource{bar: bar, name: name}
}

func (g *gaugeResource) Kind() string { return "Gauge" }

func (g *gaugeResource) Draw(s resource.Surface) {
	s.Draw(resource.ID(g.name, g.Kind()),
		fmt.Sprintf("%s %s", labelStyle.Render(g.name), g.bar.ViewAs(g.percent)))
}

// labelResource is a styled one-line text.
type labelResource struct {
	name string
	text string
}

func (l *labelResource) Kind() string { return "Label" }

func (l *labelResource) Draw(s resource.Surface) {
	s.Draw(resource.ID(l.name, l.Kind()), labelStyle.Render(l.text))
}

// panelResource frames its content in a bordered box.
type panelResource struct {
	name    string
	content string
	width   int
}

func (p *panelResource) Kind() string { return "Panel" }

func (p *panelResource) Draw(s resource.Surface) {
	s.Draw(resource.ID(p.name, p.Kind()),
		panelStyle.Width(p.width).Render(p.content))
}

// clockResource is the demo's "external" kind: the core never creates
// one, only the clock resolver does, after a lookup miss.
type clockResource struct {
	name string
}

func (c *clockResource) Kind() string { return externalClockKind }

func (c *clockResource) Draw(s resource.Surface) {
	s.Draw(resource.ID(c.name, c.Kind()),
		clockStyle.Render(time.Now().Format("15:04:05")))
}

// clockResolver is a native external handler: it answers lookup
// misses for the Clock kind by registering the missing resource.
type clockResolver struct {
	st *stage.Stage
}

func newClockResolver(st *stage.Stage) *clockResolver {
	return &clockResolver{st: st}
}

func (c *clockResolver) Handles(kind string) bool { return kind == externalClockKind }

func (c *clockResolver) Resolve(_ context.Context, id resource.Identity) (event.State, error) {
	if err := c.st.Store().Register(id.Name, &clockResource{name: id.Name}); err != nil {
		return event.StateFailed, nil
	}
	return event.StateResolved, nil
}
