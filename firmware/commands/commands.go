package commands

import (
	"context"
	"time"

	"github.com/bigfootbot/bigfootbot"
)

// Command maps one wire code to the action it runs
type Command struct {
	Code bigfootbot.Command
	Run  func(Controller)
}

// Controller is used to control a device
type Controller interface {
	TiltNeutral()
	TiltUp()
	TiltDown()
	LookLeft()
	LookRight()
	PanLeft()
	PanRight()
	PanNeutral()
	BuzzerOn()
	BuzzerOff()
	LightOn()
	LightOff()
	ActuatorUp()
	ActuatorDown()
	ActuatorStop()

	// Tick is called when no input is available
	Tick(time.Time)

	// I/O
	ReadByte() (byte, error)
}

var (
	TiltNeutralCommand = &Command{
		Code: bigfootbot.CommandTiltNeutral,
		Run:  func(c Controller) { c.TiltNeutral() },
	}
	TiltUpCommand = &Command{
		Code: bigfootbot.CommandTiltUp,
		Run:  func(c Controller) { c.TiltUp() },
	}
	TiltDownCommand = &Command{
		Code: bigfootbot.CommandTiltDown,
		Run:  func(c Controller) { c.TiltDown() },
	}
	LookLeftCommand = &Command{
		Code: bigfootbot.CommandLookLeft,
		Run:  func(c Controller) { c.LookLeft() },
	}
	LookRightCommand = &Command{
		Code: bigfootbot.CommandLookRight,
		Run:  func(c Controller) { c.LookRight() },
	}
	PanLeftCommand = &Command{
		Code: bigfootbot.CommandPanLeft,
		Run:  func(c Controller) { c.PanLeft() },
	}
	PanRightCommand = &Command{
		Code: bigfootbot.CommandPanRight,
		Run:  func(c Controller) { c.PanRight() },
	}
	BuzzerOnCommand = &Command{
		Code: bigfootbot.CommandBuzzerOn,
		Run:  func(c Controller) { c.BuzzerOn() },
	}
	BuzzerOffCommand = &Command{
		Code: bigfootbot.CommandBuzzerOff,
		Run:  func(c Controller) { c.BuzzerOff() },
	}
	LightOffCommand = &Command{
		Code: bigfootbot.CommandLightOff,
		Run:  func(c Controller) { c.LightOff() },
	}
	LightOnCommand = &Command{
		Code: bigfootbot.CommandLightOn,
		Run:  func(c Controller) { c.LightOn() },
	}
	PanNeutralCommand = &Command{
		Code: bigfootbot.CommandPanNeutral,
		Run:  func(c Controller) { c.PanNeutral() },
	}
	ActuatorUpCommand = &Command{
		Code: bigfootbot.CommandActuatorUp,
		Run:  func(c Controller) { c.ActuatorUp() },
	}
	ActuatorDownCommand = &Command{
		Code: bigfootbot.CommandActuatorDown,
		Run:  func(c Controller) { c.ActuatorDown() },
	}
	ActuatorStopCommand = &Command{
		Code: bigfootbot.CommandActuatorStop,
		Run:  func(c Controller) { c.ActuatorStop() },
	}
)

var commands = []*Command{
	TiltNeutralCommand,
	TiltUpCommand,
	TiltDownCommand,
	LookLeftCommand,
	LookRightCommand,
	PanLeftCommand,
	PanRightCommand,
	BuzzerOnCommand,
	BuzzerOffCommand,
	LightOffCommand,
	LightOnCommand,
	PanNeutralCommand,
	ActuatorUpCommand,
	ActuatorDownCommand,
	ActuatorStopCommand,
}

var cmdMap = func() map[bigfootbot.Command]*Command {
	m := map[bigfootbot.Command]*Command{}
	for _, cmd := range commands {
		m[cmd.Code] = cmd
	}
	return m
}()

// Lookup returns the table entry for a parsed command
func Lookup(code bigfootbot.Command) (*Command, bool) {
	cmd, ok := cmdMap[code]
	return cmd, ok
}

// Dispatch runs the command for one input line. Unrecognized lines do nothing and return false.
func Dispatch(c Controller, line string) bool {
	cmd, ok := Lookup(bigfootbot.ParseCommand(line))
	if !ok {
		return false
	}
	cmd.Run(c)
	return true
}

// Run reads lines from the Controller and dispatches them until ctx is done. A partial line is
// dispatched once no byte has arrived for lineTimeout, 0 waits for the terminator forever.
func Run(ctx context.Context, c Controller, lineTimeout time.Duration) {
	lr := LineReader{Timeout: lineTimeout}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		b, err := c.ReadByte()
		now := time.Now()
		if err != nil {
			if line, ok := lr.Expire(now); ok {
				Dispatch(c, line)
			}
			c.Tick(now)
			continue
		}

		if line, ok := lr.Add(b, now); ok {
			Dispatch(c, line)
		}
	}
}
