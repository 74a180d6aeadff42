// Package tui is a terminal teleop for the camera mount. Keys are mapped to commands, and the
// expected tilt and pan angles are charted as they change.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/sim"
)

const (
	headerHeight = 2
	statusHeight = 3
	footerHeight = 7
	maxLogs      = 5
	borderSize   = 2

	refreshInterval = 250 * time.Millisecond
)

const (
	tiltDataSet = "tilt"
	panDataSet  = "pan"
)

var axisColors = map[string]string{
	tiltDataSet: "208",
	panDataSet:  "51",
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Sender sends commands and reports the expected board state
type Sender interface {
	Send(context.Context, bigfootbot.Command) (sim.Snapshot, error)
	State() sim.Snapshot
}

// Model is the bubbletea model for the teleop
type Model struct {
	ctx    context.Context
	sender Sender
	keymap map[string]bigfootbot.Command
	logger *zap.Logger

	chart    *streamlinechart.Model
	state    sim.Snapshot
	width    int
	height   int
	logs     []string
	quitting bool
}

type sentMsg struct {
	cmd   bigfootbot.Command
	state sim.Snapshot
	err   error
}

type refreshMsg sim.Snapshot

// New creates the teleop Model. ctx bounds every send.
func New(ctx context.Context, sender Sender, keymap map[string]bigfootbot.Command, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	chart := streamlinechart.New(80, 12,
		streamlinechart.WithYRange(0, 180),
	)
	for _, name := range []string{tiltDataSet, panDataSet} {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[name]))
		chart.SetDataSetStyles(name, runes.ThinLineStyle, style)
	}

	return Model{
		ctx:    ctx,
		sender: sender,
		keymap: keymap,
		logger: logger,
		chart:  &chart,
		state:  sender.State(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if msg.Type == tea.KeySpace {
			key = " "
		}

		switch key {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

		cmd, ok := m.keymap[key]
		if !ok {
			return m, nil
		}
		return m, m.send(cmd)

	case sentMsg:
		if msg.err != nil {
			m.logger.Error("error sending command", zap.Stringer("command", msg.cmd), zap.Error(msg.err))
			m.addLog(errorStyle.Render(fmt.Sprintf("%s: %v", msg.cmd, msg.err)))
			return m, nil
		}

		m.logger.Info("sent command", zap.Stringer("command", msg.cmd), zap.Stringer("state", msg.state))
		m.addLog(fmt.Sprintf("%-3s %s", msg.cmd.Code(), msg.cmd))
		m.setState(msg.state)
		return m, nil

	case refreshMsg:
		m.setState(sim.Snapshot(msg))
		return m, tea.Tick(refreshInterval, func(time.Time) tea.Msg {
			return refreshMsg(m.sender.State())
		})
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "Teleop stopped.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("BigfootBot Teleop"))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(renderStatus(m.state))
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
	if m.width > 4 {
		logStyle = logStyle.Width(m.width - 4)
	}

	logLines := statusStyle.Render(m.keyHelp())
	if len(m.logs) > 0 {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

// State returns the last known board state
func (m Model) State() sim.Snapshot {
	return m.state
}

// Logs returns the most recent log lines, oldest first
func (m Model) Logs() []string {
	return m.logs
}

func (m Model) send(cmd bigfootbot.Command) tea.Cmd {
	return func() tea.Msg {
		state, err := m.sender.Send(m.ctx, cmd)
		return sentMsg{cmd: cmd, state: state, err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg(m.sender.State())
	}
}

func (m *Model) setState(state sim.Snapshot) {
	changed := state.Tilt != m.state.Tilt || state.Pan != m.state.Pan
	m.state = state
	if !changed {
		return
	}

	m.chart.PushDataSet(tiltDataSet, float64(state.Tilt.Angle))
	m.chart.PushDataSet(panDataSet, float64(state.Pan.Angle))
	m.chart.DrawAll()
}

func (m *Model) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *Model) resizeChart() {
	width := m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height := m.height - headerHeight - statusHeight - footerHeight - borderSize
	if height < 8 {
		height = 8
	}
	m.chart.Resize(width, height)
}

func (m Model) keyHelp() string {
	keys := make([]string, 0, len(m.keymap))
	for k := range m.keymap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var items []string
	for _, k := range keys {
		name := k
		if k == " " {
			name = "space"
		}
		items = append(items, fmt.Sprintf("%s=%s", name, m.keymap[k]))
	}
	return strings.Join(items, "  ") + "\nctrl+c to quit"
}

func renderStatus(s sim.Snapshot) string {
	item := func(label string, active bool, value string) string {
		style := statusStyle
		if active {
			style = activeStyle
		}
		return label + " " + style.Render(value)
	}

	return strings.Join([]string{
		"tilt " + s.Tilt.String(),
		"pan " + s.Pan.String(),
		item("buzzer", s.BuzzerActive(), onOff(s.BuzzerActive())),
		item("light", s.LightActive(), onOff(s.LightActive())),
		item("actuator", s.ActuatorDirection() != "stopped", s.ActuatorDirection()),
	}, "   ")
}

func renderLegend() string {
	var items []string
	for _, name := range []string{tiltDataSet, panDataSet} {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[name])).Bold(true)
		items = append(items, style.Render("━━")+" "+name)
	}
	return strings.Join(items, "  ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Run starts the teleop and blocks until the user quits or ctx is done
func Run(ctx context.Context, sender Sender, keymap map[string]bigfootbot.Command, logger *zap.Logger) error {
	p := tea.NewProgram(New(ctx, sender, keymap, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running teleop: %w", err)
	}
	return nil
}
