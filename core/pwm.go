// PWM (Pulse Width Modulation) support
// Timer/Counter0 in fast PWM mode driving the OC0 pin
package core

// Timer0 characteristics
const (
	// PWM_MAX is the 8-bit counter top value
	PWM_MAX = 255

	// Timer0Prescaler is the clk/8 divisor selected by CS01
	Timer0Prescaler = 8

	// MaxDutyCycle is the largest accepted duty cycle percentage
	MaxDutyCycle = 100
)

// OC0 is the Timer0 compare output pin (PB3)
const (
	OC0Port = PortB
	OC0Pin  = PinID(3)
)

// CompareValue converts a duty cycle percentage to an OCR0 value.
// The result rounds up: ceil(duty*255/100). Values above 100 are clamped.
func CompareValue(dutyCycle uint8) uint8 {
	if dutyCycle > MaxDutyCycle {
		dutyCycle = MaxDutyCycle
	}
	return uint8((uint16(dutyCycle)*PWM_MAX + MaxDutyCycle - 1) / MaxDutyCycle)
}

// PWMFrequency returns the fast PWM output frequency for a CPU clock
func PWMFrequency(cpuHz uint32) uint32 {
	return cpuHz / (Timer0Prescaler * (PWM_MAX + 1))
}

// Timer0PWM implements PWMDriver on Timer/Counter0
type Timer0PWM struct {
	regs Timer0Registers
	gpio GPIODriver
	duty uint8
}

// NewTimer0PWM binds the generator to Timer0 and the GPIO driver owning OC0
func NewTimer0PWM(regs Timer0Registers, gpio GPIODriver) *Timer0PWM {
	return &Timer0PWM{regs: regs, gpio: gpio}
}

// Start resets the counter, selects fast PWM (WGM01:0=11), clears OC0 on
// compare match (COM01:0=10), runs from clk/8 (CS02:0=010), loads OCR0 and
// switches OC0 to an output.
func (p *Timer0PWM) Start(dutyCycle uint8) error {
	if dutyCycle > MaxDutyCycle {
		dutyCycle = MaxDutyCycle
	}

	p.regs.TCNT0.Set(0)
	p.regs.TCCR0.Set(TCCR0_WGM00 | TCCR0_WGM01 | TCCR0_COM01 | TCCR0_CS01)
	p.regs.OCR0.Set(CompareValue(dutyCycle))
	p.duty = dutyCycle

	return p.gpio.SetupPinDirection(OC0Port, OC0Pin, PinOutput)
}

// Duty returns the last programmed duty cycle percentage
func (p *Timer0PWM) Duty() uint8 { return p.duty }
