package device

// LinearActuator drives a linear actuator through an H-bridge (L298N) using a PWM speed
// line and two direction lines
type LinearActuator struct {
	speed     PWM
	move1     Pin
	move2     Pin
	fullSpeed uint8
}

// NewLinearActuator creates the actuator driver. fullSpeed is used by Up and Down.
func NewLinearActuator(cfg ActuatorConfig, fullSpeed uint8) *LinearActuator {
	return &LinearActuator{
		speed:     cfg.Speed,
		move1:     cfg.Move1,
		move2:     cfg.Move2,
		fullSpeed: fullSpeed,
	}
}

// Drive writes the speed and both direction lines. It keeps no state.
func (a *LinearActuator) Drive(speed uint8, move1, move2 bool) {
	a.speed.Set(speed)
	a.move1.Set(move1)
	a.move2.Set(move2)
}

func (a *LinearActuator) Up() {
	a.Drive(a.fullSpeed, true, false)
}

func (a *LinearActuator) Down() {
	a.Drive(a.fullSpeed, false, true)
}

// Stop releases the actuator with both direction lines low
func (a *LinearActuator) Stop() {
	a.Drive(0, false, false)
}
