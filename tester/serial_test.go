package main_test

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/controller"
)

// These tests drive a real board. The firmware does not answer, so watch the mount while they run.
const envTestPort = "BFB_TEST_PORT"

func newHardwareController(t *testing.T) *controller.Controller {
	t.Helper()

	port := os.Getenv(envTestPort)
	if port == "" {
		t.Skipf("%s is not set", envTestPort)
	}

	cfg := controller.DefaultConfig()
	cfg.SerialPort = port

	c, err := controller.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error opening serial connection: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestSerial(t *testing.T) {
	tests := []struct {
		name     string
		commands []bigfootbot.Command
		expected string
	}{
		{
			"Neutral",
			[]bigfootbot.Command{bigfootbot.CommandTiltNeutral, bigfootbot.CommandPanNeutral},
			"tilt=75° pan=72° buzzer=off light=off actuator=stopped(0)",
		},
		{
			"QuickLook",
			[]bigfootbot.Command{bigfootbot.CommandLookLeft, bigfootbot.CommandLookRight, bigfootbot.CommandPanNeutral},
			"tilt=75° pan=72° buzzer=off light=off actuator=stopped(0)",
		},
		{
			"Light",
			[]bigfootbot.Command{bigfootbot.CommandLightOn, bigfootbot.CommandLightOff},
			"tilt=75° pan=72° buzzer=off light=off actuator=stopped(0)",
		},
		{
			"BuzzerChirp",
			[]bigfootbot.Command{bigfootbot.CommandBuzzerOn, bigfootbot.CommandBuzzerOff},
			"tilt=75° pan=72° buzzer=off light=off actuator=stopped(0)",
		},
		{
			"ActuatorNudge",
			[]bigfootbot.Command{bigfootbot.CommandActuatorUp, bigfootbot.CommandActuatorStop, bigfootbot.CommandActuatorDown, bigfootbot.CommandActuatorStop},
			"tilt=75° pan=72° buzzer=off light=off actuator=stopped(0)",
		},
	}

	c := newHardwareController(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var state string
			for _, cmd := range tt.commands {
				s, err := c.Send(context.Background(), cmd)
				if err != nil {
					t.Fatalf("unexpected error sending %s: %v", cmd, err)
				}
				state = s.String()
				time.Sleep(500 * time.Millisecond)
			}

			if state != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, state)
			}
		})
	}
}
