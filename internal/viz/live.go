package viz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/novacore/internal/config"
	"github.com/san-kum/novacore/internal/plot"
)

const (
	frameRate   = 30
	chartHeight = 8
	panelWidth  = 36
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// advance moves the play head by speed rows, stopping on the last row.
func (m *Model) advance() {
	if m.paused || len(m.co2) == 0 {
		return
	}
	m.playHead = min(m.playHead+m.speed, len(m.co2)-1)
}

func (m Model) View() string {
	left := panelStyle.Width(panelWidth).Render(m.viewParams())
	right := m.viewPlayback()
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right) + "\n"
}

func (m Model) viewParams() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("NOVACORE") + "\n")
	b.WriteString(subtleStyle.Render("closed-loop life support") + "\n")
	b.WriteString(subtleStyle.Render("────────────────────────") + "\n\n")

	for i, name := range config.ParamNames {
		v, _ := m.cfg.Get(name)
		val := fmt.Sprintf("%10s", strconv.FormatFloat(v, 'g', 6, 64))
		if m.editing && i == m.cursor {
			val = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.cursor {
			fmt.Fprintf(&b, "%s %s %s\n", cursorStyle.Render("▸"),
				activeName.Render(fmt.Sprintf("%-20s", name)), activeValue.Render(val))
		} else {
			fmt.Fprintf(&b, "  %s %s\n",
				inactiveName.Render(fmt.Sprintf("%-20s", name)), inactiveValue.Render(val))
		}
	}

	b.WriteString("\n" + keyHints("j/k", "select", "h/l", "adjust") + "\n")
	b.WriteString(keyHints("enter", "type value") + "\n")
	return b.String()
}

func (m Model) viewPlayback() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
		return b.String()
	}

	n := len(m.co2)
	k := m.playHead + 1
	t := float64(m.playHead) * m.result.Params.Dt / 60

	state := statusRunning.Render("▶ PLAYING")
	if m.paused {
		state = statusPaused.Render("⏸ PAUSED")
	}
	fmt.Fprintf(&b, "%s  %s  t = %.1f min  speed ×%d\n", state,
		subtleStyle.Render("run "+m.result.ID[:8]), t, m.speed)
	b.WriteString(progressBar(float64(k)/float64(n), m.chartWidth()) + "\n\n")

	opts := plot.Options{Height: chartHeight, Width: m.chartWidth(), LogScale: m.logScale}
	b.WriteString(plot.GasChart(m.co2[:k], m.o2[:k], opts) + "\n\n")
	b.WriteString(plot.EnvironmentChart(m.temp[:k], m.hum[:k], opts) + "\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		tile("CO₂ (mol)", fmt.Sprintf("%.6f", m.co2[m.playHead])),
		tile("O₂ (mol)", fmt.Sprintf("%.3f", m.o2[m.playHead])),
		tile("Temp (°C)", fmt.Sprintf("%.2f", m.temp[m.playHead])),
		tile("Humidity (a.u.)", fmt.Sprintf("%.3f", m.hum[m.playHead])),
	) + "\n")

	if m.status != "" {
		b.WriteString(subtleStyle.Render(m.status) + "\n")
	}
	b.WriteString(keyHints("space", "pause", "r", "restart", "+/-", "speed", "L", "log", "e", "export", "q", "quit"))
	return b.String()
}

func (m Model) chartWidth() int {
	return max(m.width-panelWidth-16, 20)
}
