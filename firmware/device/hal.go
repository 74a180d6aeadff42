package device

// Pin is a digital output. true drives the pin HIGH.
type Pin interface {
	Set(bool)
}

// PWM is an analog (PWM) output using the 0-255 duty scale
type PWM interface {
	Set(duty uint8)
}

// Servo positions a hobby servo in degrees
type Servo interface {
	SetAngle(angle int) error
}

// Serial is the command input. ReadByte returns an error when no byte is
// currently available, it must not block.
type Serial interface {
	ReadByte() (byte, error)
}

// Hardware groups every output the Device drives along with the command input
type Hardware struct {
	TiltServo Servo
	PanServo  Servo
	Buzzer    Pin
	Light     Pin
	Actuator  ActuatorConfig
	Serial    Serial
}

// ActuatorConfig has the H-bridge lines of the linear actuator
type ActuatorConfig struct {
	Speed PWM
	Move1 Pin
	Move2 Pin
}
