package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/bigfootbot/bigfootbot/controller"
	"github.com/bigfootbot/bigfootbot/logging"
)

type GlobalOptions struct {
	Config  string `short:"c" long:"config" description:"YAML config file (default: $BFB_CONFIG)"`
	Port    string `short:"p" long:"port" description:"Serial port, or \"none\" to run without hardware (default: first USB port)"`
	Baud    int    `short:"b" long:"baud" description:"Serial baud rate (default: 9600)"`
	LogFile string `long:"log-file" description:"Write JSON logs to this file"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

type Options struct {
	GlobalOptions `group:"Global Options"`

	Send     SendCommand     `command:"send" description:"Send commands by name or code"`
	Ports    PortsCommand    `command:"ports" description:"List USB serial ports"`
	Teleop   TeleopCommand   `command:"teleop" description:"Drive the bot from the keyboard"`
	GUI      GUICommand      `command:"gui" description:"Open the desktop control pad"`
	Serve    ServeCommand    `command:"serve" description:"Serve the HTTP command API"`
	Simulate SimulateCommand `command:"simulate" alias:"sim" description:"Run the firmware against a simulated board, reading commands from stdin"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "BigfootBot - camera mount, buzzer, light and linear actuator over serial"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

// loadConfig merges the config file, environment and flags
func loadConfig() (controller.Config, error) {
	var (
		cfg controller.Config
		err error
	)

	if opts.Config != "" {
		cfg, err = controller.LoadConfig(opts.Config)
		if err == nil {
			err = cfg.ApplyEnv(os.Getenv)
		}
	} else {
		cfg, err = controller.ConfigFromEnv()
	}
	if err != nil {
		return controller.Config{}, err
	}

	if opts.Port != "" {
		cfg.SerialPort = opts.Port
	}
	if opts.Baud != 0 {
		cfg.BaudRate = opts.Baud
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}

	return cfg, nil
}

func newLogger(cfg controller.Config, console bool) *zap.Logger {
	logger := logging.New(logging.Config{
		Console: console,
		File:    cfg.LogFile,
		Verbose: opts.Verbose,
	})
	logging.SetSlogDefault(logger)
	return logger
}

// setup loads the config, builds the logger and opens the Controller
func setup(console bool) (*controller.Controller, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	logger := newLogger(cfg, console)

	c, err := controller.New(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting: %w", err)
	}

	return c, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
