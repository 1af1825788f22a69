// GPIO (General Purpose Input/Output) support
// Register-backed digital I/O over the DDRx/PORTx/PINx triples
package core

import "thermofan/errcode"

// GPIO implements GPIODriver on top of the port register blocks
type GPIO struct {
	ports [NumPorts]PortRegisters
}

// NewGPIO binds the driver to the four port register blocks (A-D)
func NewGPIO(ports [NumPorts]PortRegisters) *GPIO {
	return &GPIO{ports: ports}
}

// port returns the register block for a valid address, or nil
func (g *GPIO) port(port PortID, pin PinID) *PortRegisters {
	if port >= NumPorts || pin >= PinsPerPort {
		return nil
	}
	p := &g.ports[port]
	if p.DDR == nil || p.PORT == nil || p.PIN == nil {
		return nil
	}
	return p
}

// SetupPinDirection sets or clears the DDR bit for the pin
func (g *GPIO) SetupPinDirection(port PortID, pin PinID, dir PinDirection) error {
	p := g.port(port, pin)
	if p == nil {
		return errcode.InvalidAddress
	}
	if dir == PinOutput {
		p.DDR.SetBits(1 << pin)
	} else {
		p.DDR.ClearBits(1 << pin)
	}
	return nil
}

// WritePin sets or clears the PORT bit for the pin
// On an input pin this enables/disables the internal pull-up resistor
func (g *GPIO) WritePin(port PortID, pin PinID, level Level) error {
	p := g.port(port, pin)
	if p == nil {
		return errcode.InvalidAddress
	}
	if level == High {
		p.PORT.SetBits(1 << pin)
	} else {
		p.PORT.ClearBits(1 << pin)
	}
	return nil
}

// ReadPin samples the PIN register
func (g *GPIO) ReadPin(port PortID, pin PinID) (Level, error) {
	p := g.port(port, pin)
	if p == nil {
		return Low, errcode.InvalidAddress
	}
	if p.PIN.HasBits(1 << pin) {
		return High, nil
	}
	return Low, nil
}

// SetupPortDirection writes the whole DDR register
func (g *GPIO) SetupPortDirection(port PortID, dir PortDirection) error {
	p := g.port(port, 0)
	if p == nil {
		return errcode.InvalidAddress
	}
	p.DDR.Set(uint8(dir))
	return nil
}

// WritePort writes the whole PORT register
func (g *GPIO) WritePort(port PortID, value uint8) error {
	p := g.port(port, 0)
	if p == nil {
		return errcode.InvalidAddress
	}
	p.PORT.Set(value)
	return nil
}

// ReadPort samples the whole PIN register
func (g *GPIO) ReadPort(port PortID) (uint8, error) {
	p := g.port(port, 0)
	if p == nil {
		return 0, errcode.InvalidAddress
	}
	return p.PIN.Get(), nil
}
