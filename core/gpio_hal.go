package core

// PortID identifies a digital I/O port (A-D on the ATmega32)
type PortID uint8

// PinID identifies a pin within a port (0-7)
type PinID uint8

const (
	PortA PortID = iota
	PortB
	PortC
	PortD

	NumPorts    = 4
	PinsPerPort = 8
)

// PinDirection selects input or output mode for a single pin
type PinDirection uint8

const (
	PinInput PinDirection = iota
	PinOutput
)

// PortDirection is a whole-port direction mask value
type PortDirection uint8

const (
	PortInput  PortDirection = 0x00
	PortOutput PortDirection = 0xFF
)

// Level is a logic level on a pin
type Level uint8

const (
	Low Level = iota
	High
)

// GPIODriver is the abstract digital I/O interface that core code uses.
// Out-of-range ports or pins never touch hardware: writes are dropped, reads
// return Low (or 0), and errcode.InvalidAddress is returned.
type GPIODriver interface {
	// SetupPinDirection configures a single pin as input or output
	SetupPinDirection(port PortID, pin PinID, dir PinDirection) error

	// WritePin drives an output pin, or toggles the pull-up of an input pin
	WritePin(port PortID, pin PinID, level Level) error

	// ReadPin samples the pin input register
	ReadPin(port PortID, pin PinID) (Level, error)

	// SetupPortDirection configures all pins of a port at once
	SetupPortDirection(port PortID, dir PortDirection) error

	// WritePort writes a whole port output register
	WritePort(port PortID, value uint8) error

	// ReadPort samples a whole port input register
	ReadPort(port PortID) (uint8, error)
}
