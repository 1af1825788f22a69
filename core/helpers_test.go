package core

import (
	"testing"
	"time"

	"thermofan/sim"
)

// newSimPeripherals binds the core register interfaces to a simulated device
func newSimPeripherals(mcu *sim.ATmega32) Peripherals {
	var p Peripherals
	for i, port := range mcu.Ports {
		p.Ports[i] = PortRegisters{DDR: port.DDR, PORT: port.PORT, PIN: port.PIN}
	}
	p.ADC = ADCRegisters{
		ADMUX:  mcu.ADC.ADMUX,
		ADCSRA: mcu.ADC.ADCSRA,
		ADCL:   mcu.ADC.ADCL,
		ADCH:   mcu.ADC.ADCH,
	}
	p.Timer0 = Timer0Registers{
		TCCR0: mcu.Timer0.TCCR0,
		TCNT0: mcu.Timer0.TCNT0,
		OCR0:  mcu.Timer0.OCR0,
	}
	return p
}

func testBoard() Board {
	b := DefaultBoard()
	b.ADC.PollLimit = 100
	b.LCD.Sleep = func(time.Duration) {}
	return b
}

// resetDebug clears the global debug state around a test
func resetDebug(t *testing.T) {
	t.Helper()
	ClearEventRing()
	t.Cleanup(func() {
		SetDebugEnabled(false)
		SetDebugWriter(func(string) {})
		ClearEventRing()
	})
}
