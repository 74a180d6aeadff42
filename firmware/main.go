//go:build baremetal

package main

import (
	"context"
	"machine"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/firmware/commands"
	"github.com/bigfootbot/bigfootbot/firmware/device"
)

func main() {
	err := machine.Serial.Configure(machine.UARTConfig{BaudRate: bigfootbot.DefaultBaudRate})
	if err != nil {
		panic(err)
	}

	boardCfg := BoardConfig{
		BuzzerPin: machine.D50,
		LightPin:  machine.D51,

		// L298N #1
		ActuatorSpeedPWM: machine.Timer3,
		ActuatorSpeedPin: machine.D2,
		ActuatorMove1Pin: machine.D3,
		ActuatorMove2Pin: machine.D4,

		ServoPWM:     machine.Timer1,
		TiltServoPin: machine.D11,
		PanServoPin:  machine.D12,
	}

	hw, err := NewHardware(boardCfg, machine.Serial)
	if err != nil {
		panic(err)
	}

	calibrationCfg := device.DefaultCalibrationConfig()

	d, err := device.New(hw, calibrationCfg)
	if err != nil {
		panic(err)
	}

	commands.Run(context.Background(), &d, commands.DefaultLineTimeout)
}
