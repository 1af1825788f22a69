package core

// ADCChannelID identifies a single-ended ADC input channel (0-7).
type ADCChannelID uint8

// ADCValue is the raw 10-bit conversion result (0-1023).
type ADCValue uint16

// ADCMaxValue is the full-scale 10-bit conversion result.
const ADCMaxValue = 1023

// ReferenceVoltage selects the ADC voltage reference (REFS1:0 encoding).
type ReferenceVoltage uint8

const (
	RefAREF     ReferenceVoltage = 0 // external AREF pin
	RefAVCC     ReferenceVoltage = 1 // AVCC with external capacitor at AREF
	RefInternal ReferenceVoltage = 3 // internal 2.56V bandgap
)

// MilliVolts returns the reference scale in millivolts.
// AREF depends on the board and reports 0.
func (r ReferenceVoltage) MilliVolts() uint32 {
	switch r {
	case RefInternal:
		return 2560
	case RefAVCC:
		return 5000
	default:
		return 0
	}
}

// Prescaler selects the ADC clock divisor (ADPS2:0 encoding).
type Prescaler uint8

const (
	FCPU2 Prescaler = iota + 1
	FCPU4
	FCPU8
	FCPU16
	FCPU32
	FCPU64
	FCPU128
)

// Divisor returns the clock division factor.
func (p Prescaler) Divisor() uint32 {
	return 1 << uint32(p)
}

// ADCConfig is the high-level config the core cares about.
type ADCConfig struct {
	Reference ReferenceVoltage
	Prescaler Prescaler

	// ArefMilliVolt is the external reference voltage when Reference is RefAREF.
	ArefMilliVolt uint32

	// PollLimit bounds the completion poll in ReadChannel.
	// Zero polls forever.
	PollLimit uint32
}

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// Init programs the reference and clock divisor and enables the peripheral.
	Init(cfg ADCConfig) error

	// ReadChannel performs a blocking single conversion on ch.
	ReadChannel(ch ADCChannelID) (ADCValue, error)

	// ReferenceMilliVolt returns the effective reference in millivolts.
	ReferenceMilliVolt() uint32

	// Shutdown disables the peripheral and clears its configuration.
	Shutdown()
}
