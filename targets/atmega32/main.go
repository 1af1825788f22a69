//go:build avr && atmega32

package main

import (
	"context"
	"device/avr"

	"thermofan/core"
)

// adcPollLimit bounds one conversion. At F_CPU/8 a conversion takes about
// 104us, far below this many ADCSRA reads.
const adcPollLimit = 10000

func main() {
	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)
	DebugPrintln("=== ATmega32 fan controller ===")

	board := core.DefaultBoard()
	board.ADC.PollLimit = adcPollLimit
	board.LCD.Sleep = spinDelay

	sys, err := core.Setup(peripherals(), board)
	if err != nil {
		halt(nil, err)
	}
	if err := sys.Controller.Start(); err != nil {
		halt(sys, err)
	}

	halt(sys, sys.Controller.Run(context.Background()))
}

// peripherals binds the core register interfaces to the device registers
func peripherals() core.Peripherals {
	return core.Peripherals{
		Ports: [core.NumPorts]core.PortRegisters{
			{DDR: avr.DDRA, PORT: avr.PORTA, PIN: avr.PINA},
			{DDR: avr.DDRB, PORT: avr.PORTB, PIN: avr.PINB},
			{DDR: avr.DDRC, PORT: avr.PORTC, PIN: avr.PINC},
			{DDR: avr.DDRD, PORT: avr.PORTD, PIN: avr.PIND},
		},
		ADC: core.ADCRegisters{
			ADMUX:  avr.ADMUX,
			ADCSRA: avr.ADCSRA,
			ADCL:   avr.ADCL,
			ADCH:   avr.ADCH,
		},
		Timer0: core.Timer0Registers{
			TCCR0: avr.TCCR0,
			TCNT0: avr.TCNT0,
			OCR0:  avr.OCR0,
		},
	}
}

// halt stops the fan, dumps the event ring and parks the CPU.
// There is no recovery path: the loop only ends on a hardware fault.
func halt(sys *core.System, err error) {
	if err != nil {
		DebugPrintln("[FATAL] " + err.Error())
	}
	if sys != nil {
		if stopErr := sys.Motor.Stop(); stopErr != nil {
			DebugPrintln("[FATAL] motor stop: " + stopErr.Error())
		}
	}
	core.DumpEventRing()
	for {
		avr.Asm("sleep")
	}
}
