package viz

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/novacore/internal/config"
	"github.com/san-kum/novacore/internal/experiment"
	"github.com/san-kum/novacore/internal/loop"
	"github.com/san-kum/novacore/internal/telemetry"
)

const (
	defaultSpeed = 20
	maxSpeed     = 10_000
)

// Model is the dashboard state. Each parameter edit replaces cfg with a
// fresh copy and re-runs the simulation.
type Model struct {
	cfg    *config.Config
	log    *slog.Logger
	cursor int

	editing bool
	editBuf string

	result           *experiment.Result
	co2, o2          []float64
	temp, hum        []float64
	err              error
	playHead         int
	speed            int
	paused, logScale bool

	exportPath    string
	status        string
	width, height int
}

func NewModel(cfg *config.Config, log *slog.Logger) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	m := Model{
		cfg:        cfg.Clone(),
		log:        log,
		speed:      defaultSpeed,
		logScale:   cfg.Display.LogScale,
		exportPath: telemetry.Filename,
		width:      120,
		height:     40,
	}
	m.rerun()
	return m
}

// rerun simulates the current parameters and restarts playback.
func (m *Model) rerun() {
	result, err := experiment.Run(context.Background(), m.cfg.Params(), m.log)
	m.playHead = 0
	if err != nil {
		m.result, m.err = nil, err
		m.co2, m.o2, m.temp, m.hum = nil, nil, nil, nil
		return
	}
	tr := result.Trajectory
	m.result, m.err = result, nil
	m.co2, m.o2, m.temp, m.hum = tr.CO2(), tr.O2(), tr.Temp(), tr.Humidity()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg), nil
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case TickMsg:
		m.advance()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	name := config.ParamNames[m.cursor]
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(config.ParamNames)-1 {
			m.cursor++
		}
	case "left", "h":
		m.nudge(name, -1)
	case "right", "l":
		m.nudge(name, 1)
	case "enter":
		v, _ := m.cfg.Get(name)
		m.editing, m.editBuf = true, strconv.FormatFloat(v, 'g', -1, 64)
	case " ":
		m.paused = !m.paused
	case "r":
		m.playHead, m.paused = 0, false
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "L":
		m.logScale = !m.logScale
	case "e":
		m.export()
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		v, err := strconv.ParseFloat(m.editBuf, 64)
		if err != nil {
			m.status = fmt.Sprintf("not a number: %q", m.editBuf)
		} else {
			m.setParam(config.ParamNames[m.cursor], v)
		}
		m.editing, m.editBuf = false, ""
	case "esc":
		m.editing, m.editBuf = false, ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 {
			c := s[0]
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
				m.editBuf += s
			}
		}
	}
	return m
}

func (m *Model) nudge(name string, dir float64) {
	v, _ := m.cfg.Get(name)
	m.setParam(name, config.Snap(name, v+dir*config.Ranges[name].Step))
}

func (m *Model) setParam(name string, v float64) {
	v = config.Clamp(name, v)
	if cur, _ := m.cfg.Get(name); cur == v {
		return
	}
	cfg := m.cfg.Clone()
	if err := cfg.Set(name, v); err != nil {
		m.status = err.Error()
		return
	}
	m.cfg = cfg
	m.status = ""
	m.rerun()
}

func (m *Model) export() {
	if m.result == nil {
		m.status = "nothing to export"
		return
	}
	f, err := os.Create(m.exportPath)
	if err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	defer f.Close()

	if err := telemetry.WriteCSV(f, m.result.Trajectory); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	m.status = "exported " + m.exportPath
	m.log.Info("telemetry exported", "run", m.result.ID, "path", m.exportPath)
}

// Params returns the parameters the dashboard is currently showing.
func (m Model) Params() loop.Params { return m.cfg.Params() }

// RunInteractive starts the dashboard on the alternate screen.
func RunInteractive(cfg *config.Config, log *slog.Logger) error {
	_, err := tea.NewProgram(NewModel(cfg, log), tea.WithAltScreen()).Run()
	return err
}
