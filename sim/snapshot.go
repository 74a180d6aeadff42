package sim

import (
	"fmt"

	"github.com/bigfootbot/bigfootbot"
)

// ServoState is the last angle written to a servo
type ServoState struct {
	Angle   int  `json:"angle"`
	Written bool `json:"written"`
}

func (s ServoState) String() string {
	if !s.Written {
		return "-"
	}
	return fmt.Sprintf("%d°", s.Angle)
}

// Snapshot is the state of every board output at one point in time
type Snapshot struct {
	Tilt          ServoState       `json:"tilt"`
	Pan           ServoState       `json:"pan"`
	Buzzer        bigfootbot.Level `json:"buzzer"`
	Light         bigfootbot.Level `json:"light"`
	ActuatorSpeed uint8            `json:"actuator_speed"`
	ActuatorMove1 bigfootbot.Level `json:"actuator_move1"`
	ActuatorMove2 bigfootbot.Level `json:"actuator_move2"`
}

// BuzzerActive reports whether the (active low) buzzer is sounding
func (s Snapshot) BuzzerActive() bool {
	return s.Buzzer == bigfootbot.Low
}

// LightActive reports whether the (active low) light is on
func (s Snapshot) LightActive() bool {
	return s.Light == bigfootbot.Low
}

// ActuatorDirection describes the H-bridge direction lines
func (s Snapshot) ActuatorDirection() string {
	switch {
	case s.ActuatorSpeed == 0:
		return "stopped"
	case s.ActuatorMove1 == bigfootbot.High && s.ActuatorMove2 == bigfootbot.Low:
		return "up"
	case s.ActuatorMove1 == bigfootbot.Low && s.ActuatorMove2 == bigfootbot.High:
		return "down"
	default:
		return "brake"
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("tilt=%s pan=%s buzzer=%s light=%s actuator=%s(%d)",
		s.Tilt, s.Pan, onOff(s.BuzzerActive()), onOff(s.LightActive()), s.ActuatorDirection(), s.ActuatorSpeed)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
