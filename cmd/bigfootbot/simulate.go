package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bigfootbot/bigfootbot/firmware/commands"
	"github.com/bigfootbot/bigfootbot/firmware/device"
	"github.com/bigfootbot/bigfootbot/sim"
)

type SimulateCommand struct {
	LineTimeout time.Duration `long:"line-timeout" default:"1s" description:"Dispatch a partial line after this much silence"`
	Poll        time.Duration `long:"poll" default:"10ms" description:"How long the simulated UART waits for a byte"`
}

func (c *SimulateCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	return simulate(ctx, os.Stdin, os.Stdout, cfg.Calibration, c.LineTimeout, c.Poll)
}

// watchedDevice prints the board whenever it changes. Tick runs each time the loop goes idle,
// which is right after a line has been handled.
type watchedDevice struct {
	*device.Device
	board *sim.Board
	out   io.Writer
	last  sim.Snapshot
}

func (w *watchedDevice) Tick(now time.Time) {
	w.Device.Tick(now)

	s := w.board.Snapshot()
	if s == w.last {
		return
	}
	w.last = s
	fmt.Fprintln(w.out, s)
}

// simulate runs the firmware command loop on a simulated board until in is exhausted and every
// buffered byte has been handled
func simulate(ctx context.Context, in io.Reader, out io.Writer, cfg device.CalibrationConfig, lineTimeout, poll time.Duration) error {
	serial := sim.NewSerial()
	serial.PollInterval = poll
	board := sim.NewBoard(serial)

	d, err := device.New(board.Hardware(), cfg)
	if err != nil {
		return fmt.Errorf("error creating device: %w", err)
	}

	w := &watchedDevice{Device: &d, board: board, out: out, last: board.Snapshot()}
	fmt.Fprintln(out, w.last)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		commands.Run(runCtx, w, lineTimeout)
	}()

	serial.Feed(in)

	select {
	case <-ctx.Done():
	case <-serial.Done():
		for serial.Buffered() > 0 && ctx.Err() == nil {
			time.Sleep(poll)
		}
		// leave time for a trailing partial line to expire and the last change to print
		time.Sleep(2*lineTimeout + 2*poll)
	}

	cancel()
	<-done
	return nil
}
