package bigfootbot

const (
	// LineTerminator ends every command sent over the serial line
	LineTerminator = '\n'

	// DefaultBaudRate is the fixed rate of the firmware's UART
	DefaultBaudRate = 9600
)

// Level is a digital pin level. The buzzer and light are active low.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Command is one of the fixed command codes understood by the firmware. The
// numeric value of each command is its code on the wire.
type Command int

const (
	CommandUnknown Command = iota - 1
	CommandTiltNeutral
	CommandTiltUp
	CommandTiltDown
	CommandLookLeft
	CommandLookRight
	CommandPanLeft
	CommandPanRight
	CommandBuzzerOn
	CommandBuzzerOff
	CommandLightOff
	CommandLightOn
	CommandPanNeutral
	CommandActuatorUp
	CommandActuatorDown
	CommandActuatorStop
)

var allCommands = []Command{
	CommandTiltNeutral,
	CommandTiltUp,
	CommandTiltDown,
	CommandLookLeft,
	CommandLookRight,
	CommandPanLeft,
	CommandPanRight,
	CommandBuzzerOn,
	CommandBuzzerOff,
	CommandLightOff,
	CommandLightOn,
	CommandPanNeutral,
	CommandActuatorUp,
	CommandActuatorDown,
	CommandActuatorStop,
}

// Commands returns every known command in code order
func Commands() []Command {
	out := make([]Command, len(allCommands))
	copy(out, allCommands)
	return out
}

// ParseCommand matches a line exactly against the known codes. Anything else,
// including surrounding whitespace or leading zeros, is CommandUnknown.
func ParseCommand(line string) Command {
	switch line {
	case "0":
		return CommandTiltNeutral
	case "1":
		return CommandTiltUp
	case "2":
		return CommandTiltDown
	case "3":
		return CommandLookLeft
	case "4":
		return CommandLookRight
	case "5":
		return CommandPanLeft
	case "6":
		return CommandPanRight
	case "7":
		return CommandBuzzerOn
	case "8":
		return CommandBuzzerOff
	case "9":
		return CommandLightOff
	case "10":
		return CommandLightOn
	case "11":
		return CommandPanNeutral
	case "12":
		return CommandActuatorUp
	case "13":
		return CommandActuatorDown
	case "14":
		return CommandActuatorStop
	default:
		return CommandUnknown
	}
}

// LookupCommand accepts either a wire code ("5") or a command name ("pan-left")
func LookupCommand(s string) (Command, bool) {
	if c := ParseCommand(s); c != CommandUnknown {
		return c, true
	}
	for _, c := range allCommands {
		if c.String() == s {
			return c, true
		}
	}
	return CommandUnknown, false
}

// Code returns the text sent on the wire for this command, without the terminator
func (c Command) Code() string {
	if c < CommandTiltNeutral || c > CommandActuatorStop {
		return ""
	}
	if c < 10 {
		return string(byte(c) + '0')
	}
	return "1" + string(byte(c-10)+'0')
}

// Line returns the full line to write to the serial port for this command
func (c Command) Line() []byte {
	code := c.Code()
	if code == "" {
		return nil
	}
	return append([]byte(code), LineTerminator)
}

func (c Command) String() string {
	switch c {
	case CommandTiltNeutral:
		return "tilt-neutral"
	case CommandTiltUp:
		return "tilt-up"
	case CommandTiltDown:
		return "tilt-down"
	case CommandLookLeft:
		return "look-left"
	case CommandLookRight:
		return "look-right"
	case CommandPanLeft:
		return "pan-left"
	case CommandPanRight:
		return "pan-right"
	case CommandBuzzerOn:
		return "buzzer-on"
	case CommandBuzzerOff:
		return "buzzer-off"
	case CommandLightOff:
		return "light-off"
	case CommandLightOn:
		return "light-on"
	case CommandPanNeutral:
		return "pan-neutral"
	case CommandActuatorUp:
		return "actuator-up"
	case CommandActuatorDown:
		return "actuator-down"
	case CommandActuatorStop:
		return "actuator-stop"
	default:
		return "unknown"
	}
}

// Description is a human readable explanation used by help output and UIs
func (c Command) Description() string {
	switch c {
	case CommandTiltNeutral:
		return "Reset camera tilt to its neutral position."
	case CommandTiltUp:
		return "Tilt camera up by one step."
	case CommandTiltDown:
		return "Tilt camera down by one step."
	case CommandLookLeft:
		return "Quick look to the left of the pan neutral position."
	case CommandLookRight:
		return "Quick look to the right of the pan neutral position."
	case CommandPanLeft:
		return "Pan camera left by one step."
	case CommandPanRight:
		return "Pan camera right by one step."
	case CommandBuzzerOn:
		return "Turn the buzzer on."
	case CommandBuzzerOff:
		return "Turn the buzzer off."
	case CommandLightOff:
		return "Turn the light off."
	case CommandLightOn:
		return "Turn the light on."
	case CommandPanNeutral:
		return "Reset camera pan to its neutral position."
	case CommandActuatorUp:
		return "Drive the linear actuator up at full speed."
	case CommandActuatorDown:
		return "Drive the linear actuator down at full speed."
	case CommandActuatorStop:
		return "Stop the linear actuator."
	default:
		return "Unrecognized command. Ignored by the firmware."
	}
}
