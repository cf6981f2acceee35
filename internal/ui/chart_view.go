package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sundial/internal/dial"
)

// ChartModel renders the equation-of-time correction chart: the daily
// curve plus the significant values a dial builder engraves.
type ChartModel struct {
	width  int
	height int
	corr   dial.Corrections
}

// NewChartModel creates the chart view from a precomputed chart.
func NewChartModel(corr dial.Corrections) ChartModel {
	return ChartModel{corr: corr}
}

// SetSize updates the viewport size.
func (m ChartModel) SetSize(width, height int) ChartModel {
	m.width = width
	m.height = height
	return m
}

var (
	chartCurve = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	chartZero  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	chartMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
)

// View renders the chart and the significant-value table side by side.
func (m ChartModel) View() string {
	if m.width < 50 || m.height < 10 || len(m.corr.Daily) == 0 {
		return "Correction chart requires a larger terminal"
	}

	tableWidth := 24
	plotWidth := m.width - tableWidth - 1
	plot := m.renderPlot(plotWidth, m.height)
	table := m.renderTable(tableWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, plot, " ", table)
}

func (m ChartModel) renderPlot(width, height int) string {
	lo, hi := m.corr.Daily[0], m.corr.Daily[0]
	for _, v := range m.corr.Daily {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	canvas := make([][]rune, height)
	for y := range canvas {
		canvas[y] = make([]rune, width)
		for x := range canvas[y] {
			canvas[y][x] = ' '
		}
	}

	// Zero line, when zero is inside the range.
	zeroRow := -1
	if lo <= 0 && hi >= 0 {
		zeroRow = int((hi / span) * float64(height-1))
		for x := 0; x < width; x++ {
			canvas[zeroRow][x] = '─'
		}
	}

	// Daily curve, one column per sampled day.
	n := len(m.corr.Daily)
	for x := 0; x < width; x++ {
		v := m.corr.Daily[x*(n-1)/(width-1)]
		y := int(((hi - v) / span) * float64(height-1))
		canvas[y][x] = '•'
	}

	var b strings.Builder
	for y := range canvas {
		for x := range canvas[y] {
			switch canvas[y][x] {
			case '•':
				b.WriteString(chartCurve.Render("•"))
			case '─':
				b.WriteString(chartZero.Render("─"))
			default:
				b.WriteByte(' ')
			}
		}
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m ChartModel) renderTable(width int) string {
	var b strings.Builder
	b.WriteString(chartMark.Render("Correction (min)") + "\n")
	for _, v := range m.corr.Significant {
		b.WriteString(fmt.Sprintf("%-7s %+7.2f\n",
			fmt.Sprintf("%s %d", v.Month.String()[:3], v.Day), v.Minutes))
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
