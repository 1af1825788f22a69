package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermofan/errcode"
	"thermofan/sim"
)

func lcdWiring(cfg LCDConfig) sim.LCDWiring {
	w := sim.LCDWiring{
		RS:       sim.PortPin{Port: int(cfg.RSPort), Pin: uint8(cfg.RSPin)},
		EN:       sim.PortPin{Port: int(cfg.ENPort), Pin: uint8(cfg.ENPin)},
		DataPort: int(cfg.DataPort),
		FourBit:  cfg.FourBit,
	}
	for i, pin := range cfg.DataPins {
		w.DataPins[i] = uint8(pin)
	}
	return w
}

func newSimLCD(t *testing.T, cfg LCDConfig) (*sim.HD44780, *LCD) {
	t.Helper()
	mcu := sim.NewATmega32()
	cfg.Sleep = func(time.Duration) {}
	panel := sim.AttachHD44780(mcu, lcdWiring(cfg))
	lcd := NewLCD(NewGPIO(newSimPeripherals(mcu).Ports), cfg)
	require.NoError(t, lcd.Init())
	return panel, lcd
}

func TestLCDInitEightBit(t *testing.T) {
	panel, _ := newSimLCD(t, DefaultBoard().LCD)

	assert.Equal(t, []uint8{LCD_8BITS_MODE, LCD_DISPLAY_ON_CURSOR, LCD_CLEAR_DISPLAY}, panel.Commands())
	assert.True(t, panel.EightBit())
	assert.True(t, panel.TwoLine())
	assert.True(t, panel.DisplayOn())
	assert.False(t, panel.CursorOn())
}

func TestLCDInitFourBit(t *testing.T) {
	cfg := DefaultBoard().LCD
	cfg.FourBit = true
	panel, lcd := newSimLCD(t, cfg)

	assert.False(t, panel.EightBit())
	assert.True(t, panel.TwoLine())
	assert.True(t, panel.DisplayOn())

	require.NoError(t, lcd.MoveCursor(3, 4))
	require.NoError(t, lcd.DisplayString("4BIT"))
	assert.Equal(t, "    4BIT        ", panel.Row(3))
}

func TestLCDMoveCursor(t *testing.T) {
	panel, lcd := newSimLCD(t, DefaultBoard().LCD)

	for row := uint8(0); row < 4; row++ {
		require.NoError(t, lcd.MoveCursor(row, row))
		require.NoError(t, lcd.SendData('0'+row))
	}
	assert.Equal(t, "0               ", panel.Row(0))
	assert.Equal(t, " 1              ", panel.Row(1))
	assert.Equal(t, "  2             ", panel.Row(2))
	assert.Equal(t, "   3            ", panel.Row(3))

	// Out of range rows fall back to row 0
	require.NoError(t, lcd.MoveCursor(7, 5))
	assert.Equal(t, uint8(0x05), panel.Address())
}

func TestLCDDisplayInteger(t *testing.T) {
	panel, lcd := newSimLCD(t, DefaultBoard().LCD)

	require.NoError(t, lcd.MoveCursor(0, 0))
	require.NoError(t, lcd.DisplayInteger(256))
	require.NoError(t, lcd.DisplayString(" "))
	require.NoError(t, lcd.DisplayInteger(-12))
	require.NoError(t, lcd.DisplayString(" "))
	require.NoError(t, lcd.DisplayInteger(0))
	assert.Equal(t, "256 -12 0       ", panel.Row(0))
}

func TestLCDClear(t *testing.T) {
	panel, lcd := newSimLCD(t, DefaultBoard().LCD)

	require.NoError(t, lcd.DisplayString("hello"))
	require.NoError(t, lcd.Clear())
	for _, row := range panel.Rows() {
		assert.Equal(t, "                ", row)
	}
	assert.Zero(t, panel.Address())
}

func TestLCDDefineCharacter(t *testing.T) {
	panel, lcd := newSimLCD(t, DefaultBoard().LCD)
	degree := [8]uint8{0x06, 0x09, 0x09, 0x06, 0x00, 0x00, 0x00, 0x00}

	require.NoError(t, lcd.DefineCharacter(2, degree))
	assert.Equal(t, degree, panel.Glyph(2))

	// Custom glyphs are printed by slot number
	require.NoError(t, lcd.MoveCursor(1, 0))
	require.NoError(t, lcd.SendData(2))
	assert.Equal(t, byte(2), panel.Row(1)[0])
}

func TestLCDPhaseDelay(t *testing.T) {
	mcu := sim.NewATmega32()
	cfg := DefaultBoard().LCD
	var total time.Duration
	cfg.Sleep = func(d time.Duration) { total += d }
	lcd := NewLCD(NewGPIO(newSimPeripherals(mcu).Ports), cfg)

	require.NoError(t, lcd.SendCommand(LCD_CLEAR_DISPLAY))
	// RS setup, EN high, data, EN low
	assert.Equal(t, 4*DefaultPhaseDelay, total)
}

func TestLCDBadWiring(t *testing.T) {
	mcu := sim.NewATmega32()
	cfg := DefaultBoard().LCD
	cfg.ENPin = 12
	cfg.Sleep = func(time.Duration) {}
	lcd := NewLCD(NewGPIO(newSimPeripherals(mcu).Ports), cfg)

	assert.ErrorIs(t, lcd.Init(), errcode.InvalidAddress)
}
