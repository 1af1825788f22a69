package core

// PWMDriver is the abstract PWM interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type PWMDriver interface {
	// Start (re)programs the timer for fast non-inverted PWM at the given
	// duty cycle percentage (0-100). Calling it again fully reconfigures
	// the timer; no separate stop is needed.
	Start(dutyCycle uint8) error

	// Duty returns the last programmed duty cycle percentage
	Duty() uint8
}
