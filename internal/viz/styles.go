package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00cccc"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeName     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	activeValue    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	inactiveName   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	inactiveValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	statusRunning  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	statusPaused   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
	tileLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	tileValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1).
			Width(18)

	barHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	barMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	barLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func progressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if percent > 0.8 {
		return barHigh.Render(bar)
	} else if percent > 0.4 {
		return barMid.Render(bar)
	}
	return barLow.Render(bar)
}

func tile(label, value string) string {
	return tileStyle.Render(tileLabelStyle.Render(label) + "\n" + tileValueStyle.Render(value))
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(keyStyle.Render(pairs[i]))
		b.WriteString(subtleStyle.Render(" " + pairs[i+1]))
	}
	return b.String()
}
