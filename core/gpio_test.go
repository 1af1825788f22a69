package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermofan/errcode"
	"thermofan/sim"
)

func TestGPIOPinOutput(t *testing.T) {
	mcu := sim.NewATmega32()
	g := NewGPIO(newSimPeripherals(mcu).Ports)

	require.NoError(t, g.SetupPinDirection(PortB, 0, PinOutput))
	require.NoError(t, g.WritePin(PortB, 0, High))

	assert.True(t, mcu.Ports[sim.PortB].Output(0))
	assert.True(t, mcu.Ports[sim.PortB].High(0))

	level, err := g.ReadPin(PortB, 0)
	require.NoError(t, err)
	assert.Equal(t, High, level)

	require.NoError(t, g.WritePin(PortB, 0, Low))
	level, _ = g.ReadPin(PortB, 0)
	assert.Equal(t, Low, level)
}

func TestGPIOInputFollowsExternalLevel(t *testing.T) {
	mcu := sim.NewATmega32()
	g := NewGPIO(newSimPeripherals(mcu).Ports)

	require.NoError(t, g.SetupPinDirection(PortA, 5, PinInput))
	mcu.Ports[sim.PortA].Drive(5, true)

	level, err := g.ReadPin(PortA, 5)
	require.NoError(t, err)
	assert.Equal(t, High, level)

	// Writing an input pin only toggles the pull-up latch
	require.NoError(t, g.WritePin(PortA, 5, Low))
	level, _ = g.ReadPin(PortA, 5)
	assert.Equal(t, High, level)
	assert.False(t, mcu.Ports[sim.PortA].Output(5))
}

func TestGPIOPortAccess(t *testing.T) {
	mcu := sim.NewATmega32()
	g := NewGPIO(newSimPeripherals(mcu).Ports)

	require.NoError(t, g.SetupPortDirection(PortC, PortOutput))
	require.NoError(t, g.WritePort(PortC, 0xA5))
	assert.Equal(t, uint8(0xFF), mcu.Ports[sim.PortC].DDR.Peek())

	v, err := g.ReadPort(PortC)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xA5), v)

	require.NoError(t, g.SetupPortDirection(PortC, PortInput))
	mcu.Ports[sim.PortC].Drive(0, true)
	v, _ = g.ReadPort(PortC)
	assert.Equal(t, uint8(0x01), v)
}

func TestGPIOInvalidAddress(t *testing.T) {
	mcu := sim.NewATmega32()
	g := NewGPIO(newSimPeripherals(mcu).Ports)

	tests := []struct {
		name string
		call func() error
	}{
		{"pin direction bad port", func() error { return g.SetupPinDirection(PortID(4), 0, PinOutput) }},
		{"pin direction bad pin", func() error { return g.SetupPinDirection(PortA, 8, PinOutput) }},
		{"write pin", func() error { return g.WritePin(PortID(9), 1, High) }},
		{"read pin", func() error { _, err := g.ReadPin(PortB, 200); return err }},
		{"port direction", func() error { return g.SetupPortDirection(PortID(4), PortOutput) }},
		{"write port", func() error { return g.WritePort(PortID(4), 0xFF) }},
		{"read port", func() error { _, err := g.ReadPort(PortID(5)); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.ErrorIs(t, err, errcode.InvalidAddress)
		})
	}

	// No register may have been touched
	for _, port := range mcu.Ports {
		assert.Zero(t, port.DDR.Writes())
		assert.Zero(t, port.PORT.Writes())
	}
}

func TestGPIOUnboundPort(t *testing.T) {
	var ports [NumPorts]PortRegisters
	g := NewGPIO(ports)
	assert.ErrorIs(t, g.WritePin(PortA, 0, High), errcode.InvalidAddress)
}
