package device

import (
	"errors"
	"time"
)

// Device controls the BigfootBot camera mount, buzzer, light and linear actuator. It tracks the
// last commanded angle of each servo axis.
type Device struct {
	tiltServo Servo
	panServo  Servo
	buzzer    Pin
	light     Pin
	actuator  *LinearActuator
	serial    Serial

	calibrationCfg CalibrationConfig

	tiltAngle int
	panAngle  int

	// looking is set by the quick look commands and cleared by any other pan command. lastLook
	// is only refreshed by quick looks, so unrelated commands do not delay the return.
	looking  bool
	lastLook time.Time
}

// New initializes the Device with the provided hardware and configs. It drives the buzzer and
// light to their inactive (HIGH) level.
func New(hw Hardware, calibrationCfg CalibrationConfig) (Device, error) {
	switch {
	case hw.TiltServo == nil || hw.PanServo == nil:
		return Device{}, errors.New("missing servo")
	case hw.Buzzer == nil || hw.Light == nil:
		return Device{}, errors.New("missing buzzer or light pin")
	case hw.Actuator.Speed == nil || hw.Actuator.Move1 == nil || hw.Actuator.Move2 == nil:
		return Device{}, errors.New("missing linear actuator pin")
	}

	d := Device{
		tiltServo:      hw.TiltServo,
		panServo:       hw.PanServo,
		buzzer:         hw.Buzzer,
		light:          hw.Light,
		actuator:       NewLinearActuator(hw.Actuator, calibrationCfg.ActuatorSpeed),
		serial:         hw.Serial,
		calibrationCfg: calibrationCfg,
	}

	d.buzzer.Set(true)
	d.light.Set(true)

	if calibrationCfg.InitNeutral {
		d.tiltAngle = calibrationCfg.TiltNeutral
		d.panAngle = calibrationCfg.PanNeutral
		err := d.tiltServo.SetAngle(d.tiltAngle)
		if err != nil {
			return Device{}, errors.New("error setting tilt angle: " + err.Error())
		}
		err = d.panServo.SetAngle(d.panAngle)
		if err != nil {
			return Device{}, errors.New("error setting pan angle: " + err.Error())
		}
	}

	return d, nil
}

// TiltNeutral moves the tilt servo to its neutral position
func (d *Device) TiltNeutral() {
	d.setTilt(d.calibrationCfg.TiltNeutral)
}

// TiltUp increments the tilt angle by one step, staying within the angle limits
func (d *Device) TiltUp() {
	d.setTilt(d.clamp(d.tiltAngle + d.calibrationCfg.TiltStep))
}

// TiltDown decrements the tilt angle by one step, staying within the angle limits
func (d *Device) TiltDown() {
	d.setTilt(d.clamp(d.tiltAngle - d.calibrationCfg.TiltStep))
}

// LookLeft jumps the pan servo to LookAngle left of neutral. The result is not clamped.
func (d *Device) LookLeft() {
	d.setPan(d.calibrationCfg.PanNeutral + d.calibrationCfg.LookAngle)
	d.looking = true
	d.lastLook = time.Now()
}

// LookRight jumps the pan servo to LookAngle right of neutral. The result is not clamped.
func (d *Device) LookRight() {
	d.setPan(d.calibrationCfg.PanNeutral - d.calibrationCfg.LookAngle)
	d.looking = true
	d.lastLook = time.Now()
}

// PanLeft increments the pan angle by one step, staying within the angle limits
func (d *Device) PanLeft() {
	d.setPan(d.clamp(d.panAngle + d.calibrationCfg.PanStep))
	d.looking = false
}

// PanRight decrements the pan angle by one step, staying within the angle limits
func (d *Device) PanRight() {
	d.setPan(d.clamp(d.panAngle - d.calibrationCfg.PanStep))
	d.looking = false
}

// PanNeutral moves the pan servo to its neutral position
func (d *Device) PanNeutral() {
	d.setPan(d.calibrationCfg.PanNeutral)
	d.looking = false
}

func (d *Device) BuzzerOn() {
	d.buzzer.Set(false)
}

func (d *Device) BuzzerOff() {
	d.buzzer.Set(true)
}

func (d *Device) LightOn() {
	d.light.Set(false)
}

func (d *Device) LightOff() {
	d.light.Set(true)
}

func (d *Device) ActuatorUp() {
	d.actuator.Up()
}

func (d *Device) ActuatorDown() {
	d.actuator.Down()
}

func (d *Device) ActuatorStop() {
	d.actuator.Stop()
}

// Tick is called whenever the command loop is idle. If auto-return is enabled and a quick look
// has not been repeated within ReturnDelay, the pan servo goes back to neutral.
func (d *Device) Tick(now time.Time) {
	if d.calibrationCfg.ReturnDelay <= 0 || !d.looking {
		return
	}
	if now.Sub(d.lastLook) <= d.calibrationCfg.ReturnDelay {
		return
	}

	if d.calibrationCfg.Verbose {
		println("returning pan to neutral after quick look")
	}
	d.PanNeutral()
}

// Angles returns the last commanded tilt and pan angles
func (d *Device) Angles() (int, int) {
	return d.tiltAngle, d.panAngle
}

// ReadByte reads the next command byte without blocking
func (d *Device) ReadByte() (byte, error) {
	if d.serial == nil {
		return 0, errors.New("no serial input")
	}
	return d.serial.ReadByte()
}

func (d *Device) setTilt(angle int) {
	d.tiltAngle = angle
	err := d.tiltServo.SetAngle(angle)
	if err != nil && d.calibrationCfg.Verbose {
		println("error setting tilt angle:", err.Error())
	}
}

func (d *Device) setPan(angle int) {
	d.panAngle = angle
	err := d.panServo.SetAngle(angle)
	if err != nil && d.calibrationCfg.Verbose {
		println("error setting pan angle:", err.Error())
	}
}

func (d *Device) clamp(angle int) int {
	if angle < d.calibrationCfg.MinAngle {
		return d.calibrationCfg.MinAngle
	}
	if angle > d.calibrationCfg.MaxAngle {
		return d.calibrationCfg.MaxAngle
	}
	return angle
}
