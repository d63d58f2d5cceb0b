package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/teslashibe/go-behavior/pkg/behavior"
	"github.com/teslashibe/go-behavior/pkg/catalog"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)
	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func span(lo, hi float64) string {
	if lo == 0 && hi == 0 {
		return "-"
	}
	if lo == hi {
		return fmt.Sprintf("%.2f", lo)
	}
	return fmt.Sprintf("%.2f-%.2f", lo, hi)
}

// renderCatalog draws every list of c as a table.
func renderCatalog(c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Animation catalog"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s, %d lists", c.Source(), len(c.Names()))))
	b.WriteString("\n")

	for _, name := range c.Names() {
		entries, err := c.List(name)
		if err != nil {
			continue
		}
		t := newTable("name", "p", "speed", "magnitude", "duration")
		for _, e := range entries {
			t.Row(
				e.Name,
				fmt.Sprintf("%.2f", e.Probability),
				span(e.SpeedMin, e.SpeedMax),
				span(e.MagnitudeMin, e.MagnitudeMax),
				span(e.DurationMin, e.DurationMax),
			)
		}
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(name))
		b.WriteString("\n")
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}

func rate(r behavior.SamplingRate) string {
	return fmt.Sprintf("%g/%g", r.PipelineRate, r.DetectRate)
}

// listName marks a profile list that c does not define.
func listName(c *catalog.Catalog, name string) string {
	if c.Has(name) {
		return name
	}
	return name + mutedStyle.Render(" (missing)")
}

// renderProfiles draws what each activity state applies on entry, against the lists of c.
func renderProfiles(c *catalog.Catalog) string {
	t := newTable("state", "lookat", "eyecontact", "gaze", "wideangle", "realsense", "gestures", "expressions")
	for _, s := range behavior.AllActivityStates {
		p := behavior.ProfileOf(s)
		t.Row(
			s.String(),
			p.LookAt.String(),
			p.EyeContact.String(),
			p.Gaze.String(),
			rate(p.Rates[behavior.ChannelWideAngle]),
			rate(p.Rates[behavior.ChannelRealSense]),
			listName(c, p.Gestures),
			listName(c, p.Expressions),
		)
	}
	return titleStyle.Render("State profiles") + "\n" + t.String() + "\n"
}

// renderSnapshot summarizes a running engine.
func renderSnapshot(s behavior.Snapshot) string {
	t := newTable("field", "value")
	t.Row("state", s.State.String())
	t.Row("lookat", s.LookAt.String())
	t.Row("eyecontact", s.EyeContact.String())
	t.Row("mirroring", s.Mirroring.String())
	t.Row("gaze", s.Gaze.String())
	t.Row("ticks", fmt.Sprint(s.Ticks))
	t.Row("faces", fmt.Sprint(s.Faces))
	t.Row("saliencies", fmt.Sprint(s.Saliencies))
	t.Row("gestures", s.Gestures)
	t.Row("expressions", s.Expressions)
	t.Row("catalog", s.Catalog)
	return t.String() + "\n"
}
