package controller

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bigfootbot/bigfootbot"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
serial_port: /dev/ttyUSB0
baud_rate: 19200
startup_delay: 500ms
keymap:
  j: look-left
calibration:
  look_angle: 45
  return_delay: 2s
  init_neutral: true
`), 0o600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SerialPort != "/dev/ttyUSB0" || cfg.BaudRate != 19200 {
		t.Errorf("unexpected serial settings %q/%d", cfg.SerialPort, cfg.BaudRate)
	}
	if cfg.StartupDelay != 500*time.Millisecond {
		t.Errorf("unexpected startup delay %s", cfg.StartupDelay)
	}
	if cfg.Calibration.LookAngle != 45 || cfg.Calibration.ReturnDelay != 2*time.Second || !cfg.Calibration.InitNeutral {
		t.Errorf("unexpected calibration %+v", cfg.Calibration)
	}
	if cfg.Calibration.TiltNeutral != 75 {
		t.Errorf("expected default tilt neutral, got %d", cfg.Calibration.TiltNeutral)
	}

	keymap, err := cfg.ResolveKeymap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keymap["j"] != bigfootbot.CommandLookLeft {
		t.Errorf("expected j to map to look-left, got %v", keymap["j"])
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("baud_rate: [fast"), 0o600)
	_, err = LoadConfig(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSerialPort: "/dev/ttyACM1",
		EnvBaudRate:   "115200",
		EnvLogFile:    "/tmp/bfb.log",
	}

	cfg := DefaultConfig()
	err := cfg.ApplyEnv(func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SerialPort != "/dev/ttyACM1" || cfg.BaudRate != 115200 || cfg.LogFile != "/tmp/bfb.log" {
		t.Errorf("unexpected config %+v", cfg)
	}

	env[EnvBaudRate] = "fast"
	err = cfg.ApplyEnv(func(k string) string { return env[k] })
	if err == nil {
		t.Error("expected error for invalid baud rate")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
		invalid bool
	}{
		{"Default", func(*Config) {}, nil, false},
		{"ZeroBaud", func(c *Config) { c.BaudRate = 0 }, nil, true},
		{"InvertedLimits", func(c *Config) { c.Calibration.MinAngle = 100; c.Calibration.MaxAngle = 10 }, nil, true},
		{"UnknownKeymapCommand", func(c *Config) { c.Keymap["z"] = "dance" }, ErrUnknownCommand, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.invalid != (err != nil) {
				t.Fatalf("expected invalid=%t, got err=%v", tt.invalid, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigKeymapIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keymap["w"] = "tilt-down"

	if DefaultKeymap["w"] != bigfootbot.CommandTiltUp.String() {
		t.Error("modifying a config changed DefaultKeymap")
	}
}
