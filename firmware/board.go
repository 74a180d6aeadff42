//go:build baremetal

package main

import (
	"errors"
	"machine"

	"github.com/bigfootbot/bigfootbot/firmware/device"

	"tinygo.org/x/drivers/servo"
)

// analogWritePeriod is roughly the 490Hz used by Arduino's analogWrite
const analogWritePeriod = 1e9 / 490

// BoardConfig has the pin assignment of the controller board
type BoardConfig struct {
	BuzzerPin machine.Pin
	LightPin  machine.Pin

	ActuatorSpeedPWM servo.PWM
	ActuatorSpeedPin machine.Pin
	ActuatorMove1Pin machine.Pin
	ActuatorMove2Pin machine.Pin

	// Both servos share one PWM peripheral
	ServoPWM     servo.PWM
	TiltServoPin machine.Pin
	PanServoPin  machine.Pin
}

// pwmOutput scales the 0-255 duty of analogWrite onto a PWM channel
type pwmOutput struct {
	pwm     servo.PWM
	channel uint8
}

func (p pwmOutput) Set(duty uint8) {
	p.pwm.Set(p.channel, p.pwm.Top()*uint32(duty)/255)
}

// NewHardware configures every pin and returns them for device.New
func NewHardware(cfg BoardConfig, serial device.Serial) (device.Hardware, error) {
	for _, p := range []machine.Pin{cfg.BuzzerPin, cfg.LightPin, cfg.ActuatorMove1Pin, cfg.ActuatorMove2Pin} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	err := cfg.ActuatorSpeedPWM.Configure(machine.PWMConfig{Period: analogWritePeriod})
	if err != nil {
		return device.Hardware{}, errors.New("error configuring actuator PWM: " + err.Error())
	}
	speedChannel, err := cfg.ActuatorSpeedPWM.Channel(cfg.ActuatorSpeedPin)
	if err != nil {
		return device.Hardware{}, errors.New("error getting actuator PWM channel: " + err.Error())
	}

	array, err := servo.NewArray(cfg.ServoPWM)
	if err != nil {
		return device.Hardware{}, errors.New("error creating servo array: " + err.Error())
	}
	tiltServo, err := array.Add(cfg.TiltServoPin)
	if err != nil {
		return device.Hardware{}, errors.New("error adding tilt servo to array: " + err.Error())
	}
	panServo, err := array.Add(cfg.PanServoPin)
	if err != nil {
		return device.Hardware{}, errors.New("error adding pan servo to array: " + err.Error())
	}

	return device.Hardware{
		TiltServo: tiltServo,
		PanServo:  panServo,
		Buzzer:    cfg.BuzzerPin,
		Light:     cfg.LightPin,
		Actuator: device.ActuatorConfig{
			Speed: pwmOutput{pwm: cfg.ActuatorSpeedPWM, channel: speedChannel},
			Move1: cfg.ActuatorMove1Pin,
			Move2: cfg.ActuatorMove2Pin,
		},
		Serial: serial,
	}, nil
}
