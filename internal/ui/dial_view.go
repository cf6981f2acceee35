package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sundial/internal/dial"
	"github.com/litescript/ls-sundial/internal/state"
)

const (
	glyphHourMark   = '●'
	glyphGnomon     = '▲'
	glyphFocus      = '◆'
	glyphEllipse    = '·'
	glyphCenter     = '+'
	glyphFocusPoint = 'x'

	colorEllipse  = "60"
	colorHourMark = "252"
	colorGnomon   = "46"
	colorFocused  = "229"
	colorLabel    = "244"
)

// Character cells are roughly twice as tall as wide; stretch x to keep the
// ellipse round on screen.
const cellAspect = 2.0

// DialViewModel renders the dial face with the gnomon position for the
// selected date, next to a live position panel.
type DialViewModel struct {
	width  int
	height int

	dial  *dial.Dial
	marks []dial.GnomonMark

	date         time.Time
	gnomonOffset float64
	gnomonErr    error

	focusHour int // highlighted hour mark
	snapshot  state.Snapshot
}

// NewDialViewModel creates the dial view focused on today.
func NewDialViewModel(d *dial.Dial, marks []dial.GnomonMark) DialViewModel {
	m := DialViewModel{
		dial:      d,
		marks:     marks,
		date:      time.Now().UTC().Truncate(24 * time.Hour),
		focusHour: 12,
	}
	m.refreshGnomon()
	return m
}

// SetSize updates the viewport size.
func (m DialViewModel) SetSize(width, height int) DialViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new snapshot.
func (m DialViewModel) UpdateData(snapshot state.Snapshot) DialViewModel {
	m.snapshot = snapshot
	return m
}

// Update handles key messages: date navigation and hour focus.
func (m DialViewModel) Update(msg tea.KeyMsg) DialViewModel {
	switch msg.String() {
	case "left", "h":
		m.date = m.date.AddDate(0, 0, -1)
		m.refreshGnomon()
	case "right", "l":
		m.date = m.date.AddDate(0, 0, 1)
		m.refreshGnomon()
	case "p":
		m.date = m.date.AddDate(0, -1, 0)
		m.refreshGnomon()
	case "n":
		m.date = m.date.AddDate(0, 1, 0)
		m.refreshGnomon()
	case "t":
		m.date = time.Now().UTC().Truncate(24 * time.Hour)
		m.refreshGnomon()
	case "up", "k":
		m.focusHour = (m.focusHour + 1) % 24
	case "down", "j":
		m.focusHour = (m.focusHour + 23) % 24
	}
	return m
}

func (m *DialViewModel) refreshGnomon() {
	off, err := m.dial.GnomonOffsetForDate(m.date.Month(), m.date.Day())
	m.gnomonOffset, m.gnomonErr = off, err
}

// View renders the dial face and the position panel side by side.
func (m DialViewModel) View() string {
	if m.width < 40 || m.height < 12 {
		return "Dial view requires a larger terminal"
	}

	panelWidth := 34
	faceWidth := m.width - panelWidth - 1
	face := m.renderFace(faceWidth, m.height)
	panel := m.renderPanel(panelWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, face, " ", panel)
}

// renderFace draws the ellipse, hour marks, and gnomon onto a rune canvas.
func (m DialViewModel) renderFace(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := range canvas {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := range canvas[y] {
			canvas[y][x] = ' '
		}
	}

	a, b := m.dial.SemiAxes()
	axisRatio := b / a

	// Unit-frame y extent, padded so the gnomon can wander past the
	// ellipse on solstices.
	maxY := math.Max(axisRatio, m.maxGnomonUnit()) + 0.15

	// Horizontal cells per unit x, aspect-corrected but clamped so the
	// rim and its labels stay on the canvas.
	xScale := math.Min(float64(height-1)/(2*maxY)*cellAspect, float64(width-1)/2/1.3)

	plot := func(ux, uy float64, r rune, c lipgloss.Color) (int, int) {
		x := int(float64(width-1)/2 + ux*xScale)
		y := int((1 - (uy/maxY+1)/2) * float64(height-1))
		if x >= 0 && x < width && y >= 0 && y < height {
			canvas[y][x] = r
			colors[y][x] = c
		}
		return x, y
	}

	// Ellipse outline.
	for deg := 0; deg < 360; deg += 2 {
		t := float64(deg) * math.Pi / 180
		plot(math.Cos(t), axisRatio*math.Sin(t), glyphEllipse, colorEllipse)
	}
	plot(0, 0, glyphCenter, colorHourMark)
	west, east := m.dial.Foci()
	plot(west/a, 0, glyphFocusPoint, colorEllipse)
	plot(east/a, 0, glyphFocusPoint, colorEllipse)

	// Hour marks with labels.
	for _, hp := range m.dial.HourPoints() {
		glyph, color := glyphHourMark, lipgloss.Color(colorHourMark)
		if hp.Hour == m.focusHour {
			glyph, color = glyphFocus, lipgloss.Color(colorFocused)
		}
		x, y := plot(hp.UnitX, hp.UnitY, glyph, color)
		label := fmt.Sprintf("%d", hp.Hour)
		lx := x + 1
		if hp.UnitX < 0 {
			lx = x - len(label) - 1
		}
		for i, r := range label {
			if lx+i >= 0 && lx+i < width && y >= 0 && y < height {
				canvas[y][lx+i] = r
				colors[y][lx+i] = colorLabel
			}
		}
	}

	// Gnomon for the selected date.
	plot(0, m.gnomonOffset/a, glyphGnomon, colorGnomon)

	var sb strings.Builder
	for y := range canvas {
		for x := range canvas[y] {
			if canvas[y][x] == ' ' {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(colors[y][x]).
				Render(string(canvas[y][x])))
		}
		if y < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// maxGnomonUnit returns the largest gnomon excursion in the unit frame,
// from the precomputed calendar marks.
func (m DialViewModel) maxGnomonUnit() float64 {
	a, _ := m.dial.SemiAxes()
	max := 0.0
	for _, mk := range m.marks {
		if v := math.Abs(mk.Offset) / a; v > max {
			max = v
		}
	}
	return max
}

var (
	panelTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("178"))
	panelKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	panelVal   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	panelWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

func (m DialViewModel) renderPanel(width int) string {
	var b strings.Builder
	row := func(key, val string) {
		b.WriteString(fmt.Sprintf("%s %s\n",
			panelKey.Render(fmt.Sprintf("%-12s", key)), panelVal.Render(val)))
	}

	b.WriteString(panelTitle.Render("Gnomon") + "\n")
	row("Date", m.date.Format("Jan 2"))
	if m.gnomonErr != nil {
		b.WriteString(panelWarn.Render(m.gnomonErr.Error()) + "\n")
	} else {
		row("Offset", fmt.Sprintf("%+.3f m north", m.gnomonOffset))
	}
	hp := m.dial.HourPoints()[m.focusHour]
	row("Hour mark", fmt.Sprintf("%d:00 @ %.1f°", hp.Hour, hp.Bearing))

	b.WriteString("\n" + panelTitle.Render("Sun") + "\n")
	sky := m.snapshot.Sky
	if sky == nil {
		b.WriteString(panelKey.Render("waiting for first frame...") + "\n")
	} else {
		row("Engine", sky.Engine.String())
		row("Zenith", fmt.Sprintf("%.3f°", sky.Sun.Zenith))
		row("Azimuth", fmt.Sprintf("%.3f°", sky.Sun.Azimuth))
		row("Elevation", fmt.Sprintf("%.3f°", sky.Sun.Elevation))
		row("EOT", fmt.Sprintf("%+.2f min", sky.EquationOfTime))
		if sky.RiseSetNote != "" {
			b.WriteString(panelWarn.Render(sky.RiseSetNote) + "\n")
		} else {
			row("Sunrise", formatHours(sky.Sunrise))
			row("Sunset", formatHours(sky.Sunset))
		}
		if sky.Irradiance.DirectNormal > 0 {
			row("DNI", fmt.Sprintf("%.0f W/m²", sky.Irradiance.DirectNormal))
		}
		if sky.Moon != nil {
			b.WriteString("\n" + panelTitle.Render("Moon") + "\n")
			row("Zenith", fmt.Sprintf("%.3f°", sky.Moon.Zenith))
			row("Azimuth", fmt.Sprintf("%.3f°", sky.Moon.Azimuth))
			if sky.EclipseNote != "" {
				b.WriteString(panelWarn.Render(sky.EclipseNote) + "\n")
			}
		}
	}

	// Recent events, newest last.
	if len(m.snapshot.Events) > 0 {
		b.WriteString("\n" + panelTitle.Render("Events") + "\n")
		events := m.snapshot.Events
		if len(events) > 4 {
			events = events[len(events)-4:]
		}
		for _, e := range events {
			b.WriteString(panelKey.Render(e.Timestamp.Format("15:04")) + " " +
				panelVal.Render(string(e.Type)) + "\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

// formatHours renders fractional hours UT as hh:mm.
func formatHours(h float64) string {
	if math.IsNaN(h) {
		return "-"
	}
	hh := int(h)
	mm := int(math.Round((h - float64(hh)) * 60))
	if mm == 60 {
		hh, mm = hh+1, 0
	}
	return fmt.Sprintf("%02d:%02d UT", hh%24, mm)
}
