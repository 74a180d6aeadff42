package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/firmware/commands"
	"github.com/bigfootbot/bigfootbot/firmware/device"
	"github.com/bigfootbot/bigfootbot/sim"
)

// SerialPortNone runs the Controller without hardware. Commands are only applied to the mirror.
const SerialPortNone = "none"

// ErrUnknownCommand is returned for input that does not name a command
var ErrUnknownCommand = errors.New("unknown command")

// Controller sends commands to the firmware over a serial link. The firmware never answers, so the
// Controller runs the same commands against a simulated board to track the expected state.
type Controller struct {
	cfg    Config
	link   io.WriteCloser
	logger *zap.Logger

	mtx    sync.Mutex
	board  *sim.Board
	mirror *device.Device
	sent   int
}

// NewFromEnv creates a Controller from the config file in BFB_CONFIG (if any) and environment
// overrides. Without a configured port it uses the first USB serial port.
func NewFromEnv(logger *zap.Logger) (*Controller, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg, logger)
}

// ConfigFromEnv loads the Config used by NewFromEnv
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv(EnvConfig); path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
	}

	err := cfg.ApplyEnv(os.Getenv)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// openLink opens the serial port used by New
var openLink = func(port string, baud int) (io.WriteCloser, error) {
	return OpenSerial(port, baud)
}

// New opens the serial port from cfg and creates the Controller
func New(cfg Config, logger *zap.Logger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.SerialPort == "" {
		ports, err := GetSerialPorts()
		if err != nil {
			return nil, fmt.Errorf("error finding serial port: %w", err)
		}
		cfg.SerialPort = ports[0]
	}

	var link io.WriteCloser = nopLink{}
	if cfg.SerialPort != SerialPortNone {
		port, err := openLink(cfg.SerialPort, cfg.BaudRate)
		if err != nil {
			return nil, err
		}
		link = port

		logger.Info("opened serial port", zap.String("port", cfg.SerialPort), zap.Int("baud", cfg.BaudRate))
		time.Sleep(cfg.StartupDelay)
	}

	return NewWithLink(link, cfg, logger)
}

// NewWithLink creates a Controller that writes commands to link
func NewWithLink(link io.WriteCloser, cfg Config, logger *zap.Logger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	board := sim.NewBoard(nil)
	mirror, err := device.New(board.Hardware(), cfg.Calibration)
	if err != nil {
		return nil, fmt.Errorf("error creating mirror device: %w", err)
	}

	return &Controller{
		cfg:    cfg,
		link:   link,
		logger: logger,
		board:  board,
		mirror: &mirror,
	}, nil
}

// Config returns the Controller's configuration
func (c *Controller) Config() Config {
	return c.cfg
}

// Send writes a command to the firmware and returns the expected state of the board afterwards
func (c *Controller) Send(ctx context.Context, cmd bigfootbot.Command) (sim.Snapshot, error) {
	err := ctx.Err()
	if err != nil {
		return sim.Snapshot{}, err
	}

	line := cmd.Line()
	if line == nil {
		return sim.Snapshot{}, ErrUnknownCommand
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	_, err = c.link.Write(line)
	if err != nil {
		c.logger.Error("error writing command", zap.Stringer("command", cmd), zap.Error(err))
		return sim.Snapshot{}, fmt.Errorf("error writing command %q: %w", cmd.Code(), err)
	}

	c.mirror.Tick(time.Now())
	commands.Dispatch(c.mirror, cmd.Code())
	c.sent++

	snapshot := c.board.Snapshot()
	c.logger.Debug("sent command",
		zap.Stringer("command", cmd),
		zap.String("code", cmd.Code()),
		zap.Stringer("state", snapshot),
	)

	return snapshot, nil
}

// SendLine sends a command given by its code or name
func (c *Controller) SendLine(ctx context.Context, in string) (sim.Snapshot, error) {
	cmd, ok := bigfootbot.LookupCommand(strings.TrimSpace(in))
	if !ok {
		return sim.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownCommand, in)
	}
	return c.Send(ctx, cmd)
}

// State returns the expected state of the board
func (c *Controller) State() sim.Snapshot {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.mirror.Tick(time.Now())
	return c.board.Snapshot()
}

// Angles returns the expected tilt and pan angles
func (c *Controller) Angles() (int, int) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.mirror.Angles()
}

// Sent returns how many commands have been written
func (c *Controller) Sent() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.sent
}

// Run reads commands from in, one or more per line separated by spaces, and sends them. The expected
// state is written to out after each command. It returns when in is exhausted or ctx is done.
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		for _, token := range strings.Fields(scanner.Text()) {
			if token == "help" || token == "?" {
				printHelp(out)
				continue
			}

			state, err := c.SendLine(ctx, token)
			switch {
			case errors.Is(err, ErrUnknownCommand):
				fmt.Fprintf(out, "unknown command %q, type help for a list\n", token)
			case err != nil:
				return err
			default:
				fmt.Fprintln(out, state.String())
			}
		}
	}
	return scanner.Err()
}

// Close closes the serial link
func (c *Controller) Close() error {
	return c.link.Close()
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Available Commands:")
	for _, cmd := range bigfootbot.Commands() {
		fmt.Fprintf(out, "%3s  %-14s %s\n", cmd.Code(), cmd, cmd.Description())
	}
}

type nopLink struct{}

func (nopLink) Write(p []byte) (int, error) { return len(p), nil }
func (nopLink) Close() error                { return nil }
