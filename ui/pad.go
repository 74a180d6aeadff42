package ui

import (
	"fmt"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/sim"
)

type button struct {
	label string
	cmd   bigfootbot.Command
}

type buttonGroup struct {
	title   string
	buttons []button
}

// padGroups lays out one button for every command
func padGroups() []buttonGroup {
	return []buttonGroup{
		{"Tilt", []button{
			{"Up", bigfootbot.CommandTiltUp},
			{"Neutral", bigfootbot.CommandTiltNeutral},
			{"Down", bigfootbot.CommandTiltDown},
		}},
		{"Pan", []button{
			{"Look Left", bigfootbot.CommandLookLeft},
			{"Left", bigfootbot.CommandPanLeft},
			{"Neutral", bigfootbot.CommandPanNeutral},
			{"Right", bigfootbot.CommandPanRight},
			{"Look Right", bigfootbot.CommandLookRight},
		}},
		{"Buzzer", []button{
			{"On", bigfootbot.CommandBuzzerOn},
			{"Off", bigfootbot.CommandBuzzerOff},
		}},
		{"Light", []button{
			{"On", bigfootbot.CommandLightOn},
			{"Off", bigfootbot.CommandLightOff},
		}},
		{"Actuator", []button{
			{"Up", bigfootbot.CommandActuatorUp},
			{"Stop", bigfootbot.CommandActuatorStop},
			{"Down", bigfootbot.CommandActuatorDown},
		}},
	}
}

type stateLabels struct {
	tilt     string
	pan      string
	buzzer   string
	light    string
	actuator string
}

func labelsFor(s sim.Snapshot) stateLabels {
	return stateLabels{
		tilt:     "Tilt: " + s.Tilt.String(),
		pan:      "Pan: " + s.Pan.String(),
		buzzer:   "Buzzer: " + onOff(s.BuzzerActive()),
		light:    "Light: " + onOff(s.LightActive()),
		actuator: fmt.Sprintf("Actuator: %s (%d)", s.ActuatorDirection(), s.ActuatorSpeed),
	}
}

// actuatorMoving is used to start and stop the actuator run timer
func actuatorMoving(s sim.Snapshot) bool {
	return s.ActuatorSpeed > 0 && s.ActuatorMove1 != s.ActuatorMove2
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
