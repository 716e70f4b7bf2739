package viz

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/novacore/internal/config"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DurationMin = 10
	return NewModel(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestNewModelSimulates(t *testing.T) {
	m := testModel(t)

	if m.err != nil {
		t.Fatalf("initial run failed: %v", m.err)
	}
	if len(m.co2) != 600 {
		t.Errorf("expected 600 rows, got %d", len(m.co2))
	}
	if m.playHead != 0 {
		t.Errorf("play head should start at 0, got %d", m.playHead)
	}
}

func TestAdjustReruns(t *testing.T) {
	m := testModel(t)
	firstID := m.result.ID

	// cursor starts on duration_min; one step is 5 minutes
	m = press(m, "l")
	if got, _ := m.cfg.Get("duration_min"); got != 15 {
		t.Errorf("duration_min = %g, want 15", got)
	}
	if len(m.co2) != 900 {
		t.Errorf("expected 900 rows after edit, got %d", len(m.co2))
	}
	if m.result.ID == firstID {
		t.Error("edit did not produce a new run")
	}

	m = press(m, "h", "h")
	if got, _ := m.cfg.Get("duration_min"); got != 10 {
		t.Errorf("duration_min = %g, want clamped to 10", got)
	}
}

func TestNudgeStaysOnGrid(t *testing.T) {
	m := testModel(t)
	m = press(m, "j", "j")
	if name := config.ParamNames[m.cursor]; name != "scrub_efficiency" {
		t.Fatalf("cursor on %s, want scrub_efficiency", name)
	}

	m = press(m, "l")
	if got := m.Params().ScrubEfficiency; got != 0.35 {
		t.Errorf("scrub = %v, want 0.35", got)
	}

	m = press(m, "l", "l", "l", "l", "h")
	if got := m.Params().ScrubEfficiency; got != 0.5 {
		t.Errorf("scrub = %v, want 0.5", got)
	}
}

func TestEditDoesNotMutateOriginalConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewModel(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	press(m, "j", "l")

	if cfg.Gas.MetabolicRate != config.DefaultConfig().Gas.MetabolicRate {
		t.Error("dashboard edit leaked into caller's config")
	}
}

func TestCursorBounds(t *testing.T) {
	m := testModel(t)

	m = press(m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.cursor)
	}

	for range config.ParamNames {
		m = press(m, "j")
	}
	if m.cursor != len(config.ParamNames)-1 {
		t.Errorf("cursor = %d, want last row", m.cursor)
	}
}

func TestTypedValue(t *testing.T) {
	m := testModel(t)
	m = press(m, "j", "j") // scrub_efficiency

	m = press(m, "enter")
	if !m.editing {
		t.Fatal("enter should start editing")
	}
	m = press(m, "backspace", "backspace", "backspace", "backspace", "backspace")
	m = press(m, "0", ".", "2", "5", "enter")

	if m.editing {
		t.Error("enter should finish editing")
	}
	if got, _ := m.cfg.Get("scrub_efficiency"); got != 0.25 {
		t.Errorf("scrub_efficiency = %g, want 0.25", got)
	}
	if m.Params().ScrubEfficiency != 0.25 {
		t.Errorf("params not updated: %+v", m.Params())
	}
}

func TestTypedValueClamped(t *testing.T) {
	m := testModel(t)
	m = press(m, "j", "j", "enter")
	m.editBuf = ""
	m = press(m, "5", "enter")

	if got, _ := m.cfg.Get("scrub_efficiency"); got != config.Ranges["scrub_efficiency"].Max {
		t.Errorf("scrub_efficiency = %g, want range max", got)
	}
}

func TestEditEscape(t *testing.T) {
	m := testModel(t)
	m = press(m, "enter", "9", "esc")

	if m.editing {
		t.Error("esc should cancel editing")
	}
	if got, _ := m.cfg.Get("duration_min"); got != 10 {
		t.Errorf("esc applied the edit: duration_min = %g", got)
	}
}

func TestPlayback(t *testing.T) {
	m := testModel(t)

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule another tick")
	}
	if m.playHead != defaultSpeed {
		t.Errorf("play head = %d, want %d", m.playHead, defaultSpeed)
	}

	m = press(m, " ")
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.playHead != defaultSpeed {
		t.Error("paused playback advanced")
	}

	m = press(m, "r")
	if m.playHead != 0 || m.paused {
		t.Errorf("restart: play head %d, paused %v", m.playHead, m.paused)
	}

	m.speed = maxSpeed
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.playHead != len(m.co2)-1 {
		t.Errorf("play head should stop on last row, got %d", m.playHead)
	}
}

func TestSpeedBounds(t *testing.T) {
	m := testModel(t)

	for i := 0; i < 20; i++ {
		m = press(m, "-")
	}
	if m.speed != 1 {
		t.Errorf("speed = %d, want 1", m.speed)
	}

	for i := 0; i < 20; i++ {
		m = press(m, "+")
	}
	if m.speed != maxSpeed {
		t.Errorf("speed = %d, want %d", m.speed, maxSpeed)
	}
}

func TestToggleLogScale(t *testing.T) {
	m := testModel(t)
	before := m.logScale

	m = press(m, "L")
	if m.logScale == before {
		t.Error("L should toggle log scale")
	}
}

func TestExport(t *testing.T) {
	m := testModel(t)
	m.exportPath = filepath.Join(t.TempDir(), "telemetry.csv")

	m = press(m, "e")
	if !strings.HasPrefix(m.status, "exported") {
		t.Fatalf("status = %q", m.status)
	}

	f, err := os.Open(m.exportPath)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) != 601 {
		t.Errorf("expected header plus 600 rows, got %d", len(records))
	}
}

func TestQuit(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestView(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	m = next.(Model)

	out := m.View()
	for _, want := range []string{"NOVACORE", "metabolic_rate", "CO₂ (mol)", "Humidity (a.u.)", "PLAYING"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
