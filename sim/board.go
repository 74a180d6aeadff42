// Package sim provides an in-memory board that stands in for the real hardware. It is used to run the
// firmware's dispatcher on a host and to mirror the expected device state on the host side.
package sim

import (
	"errors"
	"sync"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/firmware/device"
)

// ErrInvalidAngle matches the servo driver behavior for angles outside of 0-180
var ErrInvalidAngle = errors.New("servo: invalid angle")

// Pin records the level of a digital output
type Pin struct {
	mtx    sync.Mutex
	level  bool
	writes int
}

func (p *Pin) Set(v bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.level = v
	p.writes++
}

// Level returns the current level of the pin
func (p *Pin) Level() bigfootbot.Level {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return bigfootbot.Level(p.level)
}

// Writes returns the number of times the pin was written
func (p *Pin) Writes() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.writes
}

// PWM records the duty of an analog output
type PWM struct {
	mtx    sync.Mutex
	duty   uint8
	writes int
}

func (p *PWM) Set(duty uint8) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.duty = duty
	p.writes++
}

func (p *PWM) Duty() uint8 {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.duty
}

func (p *PWM) Writes() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.writes
}

// Servo records the last commanded angle. Angles outside of 0-180 are recorded but rejected with
// ErrInvalidAngle, the same way the TinyGo servo driver refuses them.
type Servo struct {
	mtx     sync.Mutex
	angle   int
	written bool
	writes  int
}

func (s *Servo) SetAngle(angle int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.angle = angle
	s.written = true
	s.writes++
	if angle < 0 || angle > 180 {
		return ErrInvalidAngle
	}
	return nil
}

func (s *Servo) State() ServoState {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return ServoState{Angle: s.angle, Written: s.written}
}

func (s *Servo) Writes() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.writes
}

// Board has every output of the BigfootBot controller
type Board struct {
	TiltServo Servo
	PanServo  Servo
	Buzzer    Pin
	Light     Pin
	Speed     PWM
	Move1     Pin
	Move2     Pin

	Serial *Serial
}

// NewBoard creates a Board. serial may be nil when the board is only used as a mirror.
func NewBoard(serial *Serial) *Board {
	return &Board{Serial: serial}
}

// Hardware returns the board's outputs for creating a device.Device
func (b *Board) Hardware() device.Hardware {
	hw := device.Hardware{
		TiltServo: &b.TiltServo,
		PanServo:  &b.PanServo,
		Buzzer:    &b.Buzzer,
		Light:     &b.Light,
		Actuator: device.ActuatorConfig{
			Speed: &b.Speed,
			Move1: &b.Move1,
			Move2: &b.Move2,
		},
	}
	if b.Serial != nil {
		hw.Serial = b.Serial
	}
	return hw
}

// Writes returns the total number of writes to any output
func (b *Board) Writes() int {
	return b.TiltServo.Writes() + b.PanServo.Writes() +
		b.Buzzer.Writes() + b.Light.Writes() +
		b.Speed.Writes() + b.Move1.Writes() + b.Move2.Writes()
}

// Snapshot returns the current state of all outputs
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Tilt:          b.TiltServo.State(),
		Pan:           b.PanServo.State(),
		Buzzer:        b.Buzzer.Level(),
		Light:         b.Light.Level(),
		ActuatorSpeed: b.Speed.Duty(),
		ActuatorMove1: b.Move1.Level(),
		ActuatorMove2: b.Move2.Level(),
	}
}
