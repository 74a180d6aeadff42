package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/controller"
	"github.com/bigfootbot/bigfootbot/sim"
)

type bufferLink struct {
	bytes.Buffer
}

func (*bufferLink) Close() error { return nil }

func newTestModel(t *testing.T) (Model, *bufferLink) {
	t.Helper()

	cfg := controller.DefaultConfig()
	link := &bufferLink{}
	c, err := controller.NewWithLink(link, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keymap, err := cfg.ResolveKeymap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return New(context.Background(), c, keymap, zaptest.NewLogger(t)), link
}

// press sends a key to the model and runs the resulting command, if any
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()

	next, cmd := m.Update(key)
	m = next.(Model)
	if cmd == nil {
		return m
	}

	next, _ = m.Update(cmd())
	return next.(Model)
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name          string
		keys          []tea.KeyMsg
		expectedWire  string
		expectedState string
	}{
		{
			"TiltUp",
			[]tea.KeyMsg{runeKey("w"), runeKey("w")},
			"1\n1\n",
			"tilt=4° pan=- buzzer=off light=off actuator=stopped(0)",
		},
		{
			"QuickLookLeft",
			[]tea.KeyMsg{runeKey("q")},
			"3\n",
			"tilt=- pan=132° buzzer=off light=off actuator=stopped(0)",
		},
		{
			"LightAndBuzzer",
			[]tea.KeyMsg{runeKey("l"), runeKey("b"), runeKey("n")},
			"10\n7\n8\n",
			"tilt=- pan=- buzzer=off light=on actuator=stopped(0)",
		},
		{
			"ActuatorArrows",
			[]tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeyDown}},
			"12\n13\n",
			"tilt=- pan=- buzzer=off light=off actuator=down(255)",
		},
		{
			"ActuatorStop",
			[]tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeySpace, Runes: []rune{' '}}},
			"12\n14\n",
			"tilt=- pan=- buzzer=off light=off actuator=stopped(0)",
		},
		{
			"UnmappedKey",
			[]tea.KeyMsg{runeKey("z")},
			"",
			"tilt=- pan=- buzzer=off light=off actuator=stopped(0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, link := newTestModel(t)
			for _, k := range tt.keys {
				m = press(t, m, k)
			}

			if link.String() != tt.expectedWire {
				t.Errorf("expected wire=%q, got=%q", tt.expectedWire, link.String())
			}
			if m.State().String() != tt.expectedState {
				t.Errorf("expected state=%q, got=%q", tt.expectedState, m.State().String())
			}
		})
	}
}

func TestLogs(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < maxLogs+2; i++ {
		m = press(t, m, runeKey("d"))
	}

	logs := m.Logs()
	if len(logs) != maxLogs {
		t.Fatalf("expected %d logs, got %d", maxLogs, len(logs))
	}
	if !strings.Contains(logs[0], "pan-right") {
		t.Errorf("unexpected log line %q", logs[0])
	}
}

type failingSender struct{}

func (failingSender) Send(context.Context, bigfootbot.Command) (sim.Snapshot, error) {
	return sim.Snapshot{}, errors.New("unplugged")
}

func (failingSender) State() sim.Snapshot { return sim.Snapshot{} }

func TestSendError(t *testing.T) {
	keymap := map[string]bigfootbot.Command{"w": bigfootbot.CommandTiltUp}
	m := New(context.Background(), failingSender{}, keymap, zaptest.NewLogger(t))

	m = press(t, m, runeKey("w"))

	logs := m.Logs()
	if len(logs) != 1 || !strings.Contains(logs[0], "unplugged") {
		t.Errorf("expected the error to be logged, got %q", logs)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !strings.Contains(next.View(), "stopped") {
		t.Errorf("unexpected view %q", next.View())
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	view := m.View()
	for _, expected := range []string{"BigfootBot Teleop", "[100x40]", "tilt -", "w=tilt", "space=actuator"} {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q", expected)
		}
	}

	m = press(t, m, runeKey("x"))
	if !strings.Contains(m.View(), "tilt 75°") {
		t.Error("expected view to show the new tilt angle")
	}
}

func TestRefresh(t *testing.T) {
	m, _ := newTestModel(t)

	msg := m.Init()()
	next, cmd := m.Update(msg)
	if cmd == nil {
		t.Error("expected refresh to schedule another")
	}
	if next.(Model).State().String() != m.State().String() {
		t.Error("refresh should not change an idle state")
	}
}
