package device

import "time"

// CalibrationConfig has values for the moving parts that depend on how the camera mount is assembled
type CalibrationConfig struct {
	TiltNeutral int `yaml:"tilt_neutral"`
	PanNeutral  int `yaml:"pan_neutral"`

	// LookAngle is the offset from PanNeutral used by the quick look commands
	LookAngle int `yaml:"look_angle"`

	TiltStep int `yaml:"tilt_step"`
	PanStep  int `yaml:"pan_step"`

	MinAngle int `yaml:"min_angle"`
	MaxAngle int `yaml:"max_angle"`

	ActuatorSpeed uint8 `yaml:"actuator_speed"`

	// InitNeutral moves both servos to neutral on startup. When false the servos are not
	// written until the first command and both angles start at 0.
	InitNeutral bool `yaml:"init_neutral"`

	// ReturnDelay enables returning the pan servo to neutral after a quick look. The pan
	// axis returns once this much time passes without another quick look. 0 disables it.
	ReturnDelay time.Duration `yaml:"return_delay"`

	// Verbose prints diagnostics with println. On the board this shares the command
	// UART, so it stays off unless debugging.
	Verbose bool `yaml:"verbose"`
}

// DefaultCalibrationConfig returns the calibration of the BigfootBot camera mount
func DefaultCalibrationConfig() CalibrationConfig {
	return CalibrationConfig{
		TiltNeutral:   75,
		PanNeutral:    72,
		LookAngle:     60,
		TiltStep:      2,
		PanStep:       3,
		MinAngle:      0,
		MaxAngle:      180,
		ActuatorSpeed: 255,
	}
}
