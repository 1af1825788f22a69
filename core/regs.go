package core

// Register8 is an 8-bit memory-mapped I/O register.
// The method set matches TinyGo's runtime/volatile.Register8, so the
// device/avr register pointers satisfy it directly on the target and
// sim.Register8 satisfies it on the host.
type Register8 interface {
	Get() uint8
	Set(value uint8)
	SetBits(value uint8)
	ClearBits(value uint8)
	HasBits(value uint8) bool
	ReplaceBits(value uint8, mask uint8, pos uint8)
}

// ATmega32 ADMUX bits
const (
	ADMUX_REFS1 = 1 << 7
	ADMUX_REFS0 = 1 << 6
	ADMUX_ADLAR = 1 << 5

	ADMUX_REFS_Pos = 6
	ADMUX_REFS_Msk = 0x03
	ADMUX_MUX_Msk  = 0x1F
)

// ATmega32 ADCSRA bits
const (
	ADCSRA_ADEN  = 1 << 7
	ADCSRA_ADSC  = 1 << 6
	ADCSRA_ADATE = 1 << 5
	ADCSRA_ADIF  = 1 << 4
	ADCSRA_ADIE  = 1 << 3

	ADCSRA_ADPS_Msk = 0x07
)

// ATmega32 TCCR0 bits
const (
	TCCR0_FOC0  = 1 << 7
	TCCR0_WGM00 = 1 << 6
	TCCR0_COM01 = 1 << 5
	TCCR0_COM00 = 1 << 4
	TCCR0_WGM01 = 1 << 3
	TCCR0_CS02  = 1 << 2
	TCCR0_CS01  = 1 << 1
	TCCR0_CS00  = 1 << 0

	TCCR0_CS_Msk = 0x07
)

// ADCRegisters is the register block of the ADC peripheral.
// ADCL must be read before ADCH.
type ADCRegisters struct {
	ADMUX  Register8
	ADCSRA Register8
	ADCL   Register8
	ADCH   Register8
}

// Timer0Registers is the register block of the 8-bit Timer/Counter0.
type Timer0Registers struct {
	TCCR0 Register8
	TCNT0 Register8
	OCR0  Register8
}

// PortRegisters is the register triple of one digital I/O port.
type PortRegisters struct {
	DDR  Register8
	PORT Register8
	PIN  Register8
}
