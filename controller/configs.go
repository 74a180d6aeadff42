package controller

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/firmware/device"
)

const (
	EnvConfig     = "BFB_CONFIG"
	EnvSerialPort = "BFB_SERIAL_PORT"
	EnvBaudRate   = "BFB_BAUD_RATE"
	EnvLogFile    = "BFB_LOG_FILE"

	// defaultStartupDelay covers the bootloader that runs when opening the port resets the board
	defaultStartupDelay = 2 * time.Second
)

// Config has the host-side settings for talking to the firmware
type Config struct {
	SerialPort string `yaml:"serial_port"`
	BaudRate   int    `yaml:"baud_rate"`

	// StartupDelay is waited after opening a real serial port before the first command is sent
	StartupDelay time.Duration `yaml:"startup_delay"`

	LogFile string `yaml:"log_file"`

	// Keymap binds a key, as named by the terminal UI, to a command name or code
	Keymap map[string]string `yaml:"keymap"`

	// Calibration must match the firmware so the mirrored state is accurate
	Calibration device.CalibrationConfig `yaml:"calibration"`
}

// DefaultKeymap is used when a config does not set one
var DefaultKeymap = map[string]string{
	"w":    bigfootbot.CommandTiltUp.String(),
	"s":    bigfootbot.CommandTiltDown.String(),
	"a":    bigfootbot.CommandPanLeft.String(),
	"d":    bigfootbot.CommandPanRight.String(),
	"q":    bigfootbot.CommandLookLeft.String(),
	"e":    bigfootbot.CommandLookRight.String(),
	"x":    bigfootbot.CommandTiltNeutral.String(),
	"c":    bigfootbot.CommandPanNeutral.String(),
	"b":    bigfootbot.CommandBuzzerOn.String(),
	"n":    bigfootbot.CommandBuzzerOff.String(),
	"l":    bigfootbot.CommandLightOn.String(),
	"k":    bigfootbot.CommandLightOff.String(),
	"up":   bigfootbot.CommandActuatorUp.String(),
	"down": bigfootbot.CommandActuatorDown.String(),
	" ":    bigfootbot.CommandActuatorStop.String(),
}

// DefaultConfig returns a Config with every default filled in and no serial port selected
func DefaultConfig() Config {
	keymap := make(map[string]string, len(DefaultKeymap))
	for k, v := range DefaultKeymap {
		keymap[k] = v
	}

	return Config{
		BaudRate:     bigfootbot.DefaultBaudRate,
		StartupDelay: defaultStartupDelay,
		Keymap:       keymap,
		Calibration:  device.DefaultCalibrationConfig(),
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config: %w", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides values from the environment
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if port := getenv(EnvSerialPort); port != "" {
		c.SerialPort = port
	}
	if baud := getenv(EnvBaudRate); baud != "" {
		b, err := strconv.Atoi(baud)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvBaudRate, baud, err)
		}
		c.BaudRate = b
	}
	if logFile := getenv(EnvLogFile); logFile != "" {
		c.LogFile = logFile
	}
	return nil
}

// Validate checks the Config for values that cannot work
func (c Config) Validate() error {
	var errs []error

	if c.BaudRate <= 0 {
		errs = append(errs, fmt.Errorf("invalid baud rate: %d", c.BaudRate))
	}
	if c.Calibration.MinAngle > c.Calibration.MaxAngle {
		errs = append(errs, fmt.Errorf("min angle %d is larger than max angle %d", c.Calibration.MinAngle, c.Calibration.MaxAngle))
	}
	if _, err := c.ResolveKeymap(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ResolveKeymap parses the Keymap values into commands
func (c Config) ResolveKeymap() (map[string]bigfootbot.Command, error) {
	result := make(map[string]bigfootbot.Command, len(c.Keymap))
	for key, name := range c.Keymap {
		cmd, ok := bigfootbot.LookupCommand(name)
		if !ok {
			return nil, fmt.Errorf("key %q: %w: %q", key, ErrUnknownCommand, name)
		}
		result[key] = cmd
	}
	return result, nil
}
