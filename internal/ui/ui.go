// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sundial/internal/dial"
	"github.com/litescript/ls-sundial/internal/state"
	"github.com/litescript/ls-sundial/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDial ViewMode = iota
	ViewChart
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// SkyUpdateMsg signals a freshly computed sky frame.
	SkyUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a compute error.
	ErrorMsg struct {
		Error error
	}
)

const tickInterval = time.Second

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager
	dial  *dial.Dial

	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string

	dialView DialViewModel
	chart    ChartModel

	snapshot state.Snapshot
}

// New creates the root UI model. The gnomon marks and correction chart
// are computed once by the caller; everything else refreshes live.
func New(stateMgr *state.Manager, d *dial.Dial, marks []dial.GnomonMark, corr dial.Corrections) Model {
	return Model{
		state:    stateMgr,
		dial:     d,
		viewMode: ViewDial,
		dialView: NewDialViewModel(d, marks),
		chart:    NewChartModel(corr),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "d":
			m.viewMode = ViewDial
		case "2", "c":
			m.viewMode = ViewChart
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		default:
			if m.viewMode == ViewDial {
				m.dialView = m.dialView.Update(msg)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes 2 lines, footer 2.
		contentHeight := msg.Height - 4
		m.dialView = m.dialView.SetSize(msg.Width, contentHeight)
		m.chart = m.chart.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.state.Snapshot()
		m.dialView = m.dialView.UpdateData(m.snapshot)

	case SkyUpdateMsg:
		m.snapshot = msg.Snapshot
		m.dialView = m.dialView.UpdateData(m.snapshot)
		m.statusMsg = ""

	case ErrorMsg:
		m.statusMsg = fmt.Sprintf("Compute failed: %v", msg.Error)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.viewMode {
	case ViewChart:
		b.WriteString(m.chart.View())
	default:
		b.WriteString(m.dialView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

var (
	appTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("178"))
	headerDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m Model) renderHeader() string {
	title := appTitleStyle.Render("ls-sundial")
	ver := headerDim.Render("v" + version.Version)

	a, b := m.dial.SemiAxes()
	site := headerDim.Render(fmt.Sprintf("%.1fm x %.1fm dial", 2*a, 2*b))

	clock := headerDim.Render(time.Now().UTC().Format("15:04:05 UTC"))
	line := fmt.Sprintf("%s %s | %s | %s", title, ver, site, clock)
	if m.statusMsg != "" {
		line += " | " + statusStyle.Render(m.statusMsg)
	}
	return line
}

func (m Model) renderFooter() string {
	keys := "[1] dial  [2] chart  [tab] switch  [←/→] day  [p/n] month  [t] today  [q] quit"
	return footerStyle.Render(keys)
}
