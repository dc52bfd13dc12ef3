package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/OldStager01/latency-dashboard/internal/chart"
	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/evaluator"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

// Backend is the request/response core the terminal dashboard drives.
type Backend interface {
	Bounds() dashboard.Bounds
	Table() (*models.Table, error)
	Render(ctx context.Context, sel models.Selection) (*models.ViewModel, error)
	Export(ctx context.Context, w io.Writer, vm *models.ViewModel) error
	Reload(ctx context.Context) (*models.Table, error)
}

// DefaultStep is how far one key press moves a threshold, in microseconds.
const DefaultStep = 50

var (
	controlStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// period is a date range preset relative to the newest row of the table.
type period struct {
	label string
	days  int // 0 means the whole table
}

var periods = []period{
	{label: "all"},
	{label: "last day", days: 1},
	{label: "last 7 days", days: 7},
	{label: "last 30 days", days: 30},
}

type exportedMsg struct {
	path string
	rows int
	err  error
}

type reloadedMsg struct {
	table *models.Table
	err   error
}

type Model struct {
	backend    Backend
	keys       KeyMap
	help       help.Model
	exportPath string
	step       float64

	servers      []string
	serverIdx    int
	periodIdx    int
	minThreshold float64
	maxThreshold float64
	last         time.Time

	vm     *models.ViewModel
	err    error
	notice string

	width  int
	height int
}

func New(backend Backend, exportPath string) *Model {
	bounds := backend.Bounds()
	m := &Model{
		backend:      backend,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		exportPath:   exportPath,
		step:         DefaultStep,
		minThreshold: bounds.DefaultMin,
		maxThreshold: bounds.DefaultMax,
		width:        100,
		height:       30,
	}
	m.syncTable()
	m.evaluate()
	return m
}

func (m *Model) syncTable() {
	table, err := m.backend.Table()
	if err != nil {
		m.err = err
		return
	}

	current := m.Server()
	m.servers = table.Servers
	m.serverIdx = 0
	for i, s := range m.servers {
		if s == current {
			m.serverIdx = i
		}
	}
	if _, last, ok := table.Span(); ok {
		m.last = last
	}
}

// Server is the selected server column.
func (m *Model) Server() string {
	if len(m.servers) == 0 {
		return ""
	}
	return m.servers[m.serverIdx]
}

// Selection builds the selection shown on screen.
func (m *Model) Selection() models.Selection {
	sel := models.Selection{
		Server:       m.Server(),
		MinThreshold: m.minThreshold,
		MaxThreshold: m.maxThreshold,
	}
	if p := periods[m.periodIdx]; p.days > 0 && !m.last.IsZero() {
		r := models.NewDateRange(m.last.AddDate(0, 0, 1-p.days), m.last)
		sel.Range = &r
	}
	return sel
}

func (m *Model) ViewModel() *models.ViewModel {
	return m.vm
}

func (m *Model) evaluate() {
	if len(m.servers) == 0 {
		return
	}
	vm, err := m.backend.Render(context.Background(), m.Selection())
	if err != nil {
		m.err = err
		return
	}
	m.vm, m.err = vm, nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case exportedMsg:
		if msg.err != nil {
			m.notice = ""
			m.err = msg.err
		} else {
			m.notice = fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path)
		}
		return m, nil

	case reloadedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("reload failed, keeping previous data: %w", msg.err)
			return m, nil
		}
		m.notice = fmt.Sprintf("Reloaded %d rows", msg.table.Len())
		m.syncTable()
		m.evaluate()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	bounds := m.backend.Bounds()

	switch {
	case key.Matches(msg, k.ForceQuit), key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, k.PrevServer):
		if n := len(m.servers); n > 0 {
			m.serverIdx = (m.serverIdx - 1 + n) % n
		}

	case key.Matches(msg, k.NextServer):
		if n := len(m.servers); n > 0 {
			m.serverIdx = (m.serverIdx + 1) % n
		}

	// The handles never cross, like the slider they stand in for
	case key.Matches(msg, k.MinDown):
		m.minThreshold = max(bounds.Min, m.minThreshold-m.step)
	case key.Matches(msg, k.MinUp):
		m.minThreshold = min(m.maxThreshold, m.minThreshold+m.step)
	case key.Matches(msg, k.MaxDown):
		m.maxThreshold = max(m.minThreshold, m.maxThreshold-m.step)
	case key.Matches(msg, k.MaxUp):
		m.maxThreshold = min(bounds.Max, m.maxThreshold+m.step)

	case key.Matches(msg, k.Period):
		m.periodIdx = (m.periodIdx + 1) % len(periods)

	case key.Matches(msg, k.Export):
		return m, m.exportCmd()

	case key.Matches(msg, k.Reload):
		m.notice = "Reloading..."
		return m, m.reloadCmd()

	default:
		return m, nil
	}

	m.notice = ""
	m.evaluate()
	return m, nil
}

func (m *Model) exportCmd() tea.Cmd {
	vm, backend, path := m.vm, m.backend, m.exportPath
	return func() tea.Msg {
		if vm == nil {
			return exportedMsg{err: fmt.Errorf("nothing to export")}
		}
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{err: fmt.Errorf("failed to create %s: %w", path, err)}
		}
		if err := backend.Export(context.Background(), f, vm); err != nil {
			f.Close()
			return exportedMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path, rows: vm.Rows}
	}
}

func (m *Model) reloadCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		table, err := backend.Reload(context.Background())
		return reloadedMsg{table: table, err: err}
	}
}

func (m *Model) View() string {
	sections := []string{m.renderControls()}

	if m.vm != nil {
		minT, maxT := m.vm.Selection.MinThreshold, m.vm.Selection.MaxThreshold
		classify := func(v float64) models.Status { return evaluator.Classify(v, minT, maxT) }
		chartHeight := max(4, m.height-8)
		sections = append(sections,
			chart.Terminal(m.vm.Chart, m.width-2, chartHeight, classify),
			chart.StatusStyle(m.vm.Status).Render(m.vm.StatusText),
		)
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render("error: "+m.err.Error()))
	} else if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderControls() string {
	server := "-"
	if len(m.servers) > 0 {
		server = fmt.Sprintf("%s (%d/%d)", m.Server(), m.serverIdx+1, len(m.servers))
	}
	rangeLabel := periods[m.periodIdx].label
	if sel := m.Selection(); sel.Range != nil {
		rangeLabel += " " + sel.Range.String()
	}
	return controlStyle.Render(fmt.Sprintf("Servidor: %s   Período: %s   Min: %g µs   Max: %g µs",
		server, rangeLabel, m.minThreshold, m.maxThreshold))
}

// Run starts the full-screen dashboard. Log output is silenced while the
// terminal is in use.
func Run(backend Backend, exportPath string) error {
	logger.Silence()
	if _, err := tea.NewProgram(New(backend, exportPath), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal dashboard failed: %w", err)
	}
	return nil
}
