package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/firmware/device"
	"github.com/bigfootbot/bigfootbot/sim"
)

type recordingController struct {
	calls []string
	ticks int
	input []byte
}

func (r *recordingController) TiltNeutral()  { r.calls = append(r.calls, "TiltNeutral") }
func (r *recordingController) TiltUp()       { r.calls = append(r.calls, "TiltUp") }
func (r *recordingController) TiltDown()     { r.calls = append(r.calls, "TiltDown") }
func (r *recordingController) LookLeft()     { r.calls = append(r.calls, "LookLeft") }
func (r *recordingController) LookRight()    { r.calls = append(r.calls, "LookRight") }
func (r *recordingController) PanLeft()      { r.calls = append(r.calls, "PanLeft") }
func (r *recordingController) PanRight()     { r.calls = append(r.calls, "PanRight") }
func (r *recordingController) PanNeutral()   { r.calls = append(r.calls, "PanNeutral") }
func (r *recordingController) BuzzerOn()     { r.calls = append(r.calls, "BuzzerOn") }
func (r *recordingController) BuzzerOff()    { r.calls = append(r.calls, "BuzzerOff") }
func (r *recordingController) LightOn()      { r.calls = append(r.calls, "LightOn") }
func (r *recordingController) LightOff()     { r.calls = append(r.calls, "LightOff") }
func (r *recordingController) ActuatorUp()   { r.calls = append(r.calls, "ActuatorUp") }
func (r *recordingController) ActuatorDown() { r.calls = append(r.calls, "ActuatorDown") }
func (r *recordingController) ActuatorStop() { r.calls = append(r.calls, "ActuatorStop") }
func (r *recordingController) Tick(time.Time) {
	r.ticks++
}

func (r *recordingController) ReadByte() (byte, error) {
	if len(r.input) == 0 {
		return 0, errors.New("empty")
	}
	b := r.input[0]
	r.input = r.input[1:]
	return b, nil
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{"0", "TiltNeutral"},
		{"1", "TiltUp"},
		{"2", "TiltDown"},
		{"3", "LookLeft"},
		{"4", "LookRight"},
		{"5", "PanLeft"},
		{"6", "PanRight"},
		{"7", "BuzzerOn"},
		{"8", "BuzzerOff"},
		{"9", "LightOff"},
		{"10", "LightOn"},
		{"11", "PanNeutral"},
		{"12", "ActuatorUp"},
		{"13", "ActuatorDown"},
		{"14", "ActuatorStop"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c := &recordingController{}
			if !Dispatch(c, tt.line) {
				t.Fatalf("expected %q to be recognized", tt.line)
			}
			if len(c.calls) != 1 || c.calls[0] != tt.expected {
				t.Errorf("expected exactly [%s], got %v", tt.expected, c.calls)
			}
		})
	}
}

func TestDispatchUnknown(t *testing.T) {
	for _, line := range []string{"99", "", "15", "1 ", "01", "tilt-up", "\r"} {
		c := &recordingController{}
		if Dispatch(c, line) {
			t.Errorf("expected %q to be ignored", line)
		}
		if len(c.calls) != 0 {
			t.Errorf("expected no calls for %q, got %v", line, c.calls)
		}
	}
}

func TestCommandTableComplete(t *testing.T) {
	for _, code := range bigfootbot.Commands() {
		cmd, ok := Lookup(code)
		if !ok {
			t.Errorf("missing table entry for %v", code)
			continue
		}
		if cmd.Code != code {
			t.Errorf("table entry for %v has code %v", code, cmd.Code)
		}
	}
	if _, ok := Lookup(bigfootbot.CommandUnknown); ok {
		t.Error("unknown command should not have a table entry")
	}
}

func runLines(t *testing.T, cfg device.CalibrationConfig, input string) (*device.Device, *sim.Board) {
	t.Helper()

	serial := sim.NewSerial()
	serial.PollInterval = time.Millisecond
	board := sim.NewBoard(serial)
	d, err := device.New(board.Hardware(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _ = serial.Write([]byte(input))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, &d, 0)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for serial.Buffered() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if serial.Buffered() > 0 {
		t.Fatalf("timed out with %d bytes unread", serial.Buffered())
	}
	return &d, board
}

func TestRun(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedTilt  int
		expectedPan   int
		expectedState string
	}{
		{
			"TiltNeutralResets",
			"1\n1\n0\n",
			75, 0,
			"tilt=75° pan=- buzzer=off light=off actuator=stopped(0)",
		},
		{
			"TiltUpFromZero",
			"1\n1\n1\n",
			6, 0,
			"tilt=6° pan=- buzzer=off light=off actuator=stopped(0)",
		},
		{
			"PanNeutralResets",
			"5\n5\n11\n",
			0, 72,
			"tilt=- pan=72° buzzer=off light=off actuator=stopped(0)",
		},
		{
			"QuickLookIsIdempotent",
			"11\n3\n3\n3\n",
			0, 132,
			"tilt=- pan=132° buzzer=off light=off actuator=stopped(0)",
		},
		{
			"BuzzerOnThenOff",
			"7\n8\n",
			0, 0,
			"tilt=- pan=- buzzer=off light=off actuator=stopped(0)",
		},
		{
			"BuzzerOnly",
			"7\n",
			0, 0,
			"tilt=- pan=- buzzer=on light=off actuator=stopped(0)",
		},
		{
			"LightOn",
			"10\n",
			0, 0,
			"tilt=- pan=- buzzer=off light=on actuator=stopped(0)",
		},
		{
			"ActuatorUp",
			"12\n",
			0, 0,
			"tilt=- pan=- buzzer=off light=off actuator=up(255)",
		},
		{
			"ActuatorUpThenStop",
			"12\n14\n",
			0, 0,
			"tilt=- pan=- buzzer=off light=off actuator=stopped(0)",
		},
		{
			"UnknownIgnored",
			"99\nhello\n\n",
			0, 0,
			"tilt=- pan=- buzzer=off light=off actuator=stopped(0)",
		},
		{
			"CarriageReturnNotStripped",
			"7\r\n",
			0, 0,
			"tilt=- pan=- buzzer=off light=off actuator=stopped(0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, board := runLines(t, device.DefaultCalibrationConfig(), tt.input)

			tilt, pan := d.Angles()
			if tilt != tt.expectedTilt || pan != tt.expectedPan {
				t.Errorf("expected angles %d/%d, got %d/%d", tt.expectedTilt, tt.expectedPan, tilt, pan)
			}
			if got := board.Snapshot().String(); got != tt.expectedState {
				t.Errorf("expected=%q, got=%q", tt.expectedState, got)
			}
		})
	}
}

func TestRunUnknownWritesNothing(t *testing.T) {
	_, board := runLines(t, device.DefaultCalibrationConfig(), "99\n")

	// buzzer and light are written once by device.New
	if board.Writes() != 2 {
		t.Errorf("expected only the startup writes, got %d", board.Writes())
	}
}

func TestRunActuatorSequence(t *testing.T) {
	_, board := runLines(t, device.DefaultCalibrationConfig(), "12\n")
	s := board.Snapshot()
	if s.ActuatorSpeed != 255 || s.ActuatorMove1 != bigfootbot.High || s.ActuatorMove2 != bigfootbot.Low {
		t.Errorf("unexpected actuator state after 12: %s", s)
	}

	_, board = runLines(t, device.DefaultCalibrationConfig(), "12\n14\n")
	s = board.Snapshot()
	if s.ActuatorSpeed != 0 || s.ActuatorMove1 != bigfootbot.Low || s.ActuatorMove2 != bigfootbot.Low {
		t.Errorf("unexpected actuator state after 14: %s", s)
	}
}

func TestRunTicksWhenIdle(t *testing.T) {
	c := &recordingController{input: []byte("7\n")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, c, 0)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if strings.Join(c.calls, ",") != "BuzzerOn" {
		t.Errorf("unexpected calls %v", c.calls)
	}
	if c.ticks == 0 {
		t.Error("expected Tick to be called while idle")
	}
}

func TestRunLineTimeout(t *testing.T) {
	c := &recordingController{input: []byte("10")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, c, 5*time.Millisecond)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if strings.Join(c.calls, ",") != "LightOn" {
		t.Errorf("expected the partial line to be dispatched, got %v", c.calls)
	}
}
