// HD44780-compatible character LCD bit-banged over the GPIO driver
package core

import "time"

// LCD commands
const (
	LCD_4BITS_INIT1       = 0x33
	LCD_4BITS_INIT2       = 0x32
	LCD_4BITS_MODE        = 0x28
	LCD_8BITS_MODE        = 0x38
	LCD_DISPLAY_ON_CURSOR = 0x0C // display on, cursor off
	LCD_CLEAR_DISPLAY     = 0x01
	LCD_SET_DDRAM         = 0x80
	LCD_SET_CGRAM         = 0x40
)

// DDRAM row base addresses for a 16x4 module
var lcdRowAddress = [4]uint8{0x00, 0x40, 0x10, 0x50}

// DefaultPhaseDelay is the settle time between bus phases
const DefaultPhaseDelay = time.Millisecond

// LCDConfig is the bus wiring and timing of the display
type LCDConfig struct {
	RSPort PortID
	RSPin  PinID
	ENPort PortID
	ENPin  PinID

	DataPort PortID

	// FourBit selects the 4-bit interface on DataPins (D4..D7).
	// Otherwise the whole DataPort carries D0..D7.
	FourBit  bool
	DataPins [4]PinID

	// PhaseDelay is waited after every bus phase; zero means DefaultPhaseDelay
	PhaseDelay time.Duration

	// Sleep performs the delay; nil means time.Sleep
	Sleep func(time.Duration)
}

// LCD implements Display on the GPIO driver
type LCD struct {
	gpio GPIODriver
	cfg  LCDConfig
}

// NewLCD creates the display driver. Call Init before use.
func NewLCD(gpio GPIODriver, cfg LCDConfig) *LCD {
	if cfg.PhaseDelay == 0 {
		cfg.PhaseDelay = DefaultPhaseDelay
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	return &LCD{gpio: gpio, cfg: cfg}
}

// Init configures the control and data lines, selects the interface width
// (2 lines, 5x7 font), turns the display on and clears it
func (l *LCD) Init() error {
	if err := l.gpio.SetupPinDirection(l.cfg.RSPort, l.cfg.RSPin, PinOutput); err != nil {
		return err
	}
	if err := l.gpio.SetupPinDirection(l.cfg.ENPort, l.cfg.ENPin, PinOutput); err != nil {
		return err
	}

	if l.cfg.FourBit {
		for _, pin := range l.cfg.DataPins {
			if err := l.gpio.SetupPinDirection(l.cfg.DataPort, pin, PinOutput); err != nil {
				return err
			}
		}
		for _, cmd := range []uint8{LCD_4BITS_INIT1, LCD_4BITS_INIT2, LCD_4BITS_MODE} {
			if err := l.SendCommand(cmd); err != nil {
				return err
			}
		}
	} else {
		if err := l.gpio.SetupPortDirection(l.cfg.DataPort, PortOutput); err != nil {
			return err
		}
		if err := l.SendCommand(LCD_8BITS_MODE); err != nil {
			return err
		}
	}

	if err := l.SendCommand(LCD_DISPLAY_ON_CURSOR); err != nil {
		return err
	}
	return l.SendCommand(LCD_CLEAR_DISPLAY)
}

// SendCommand transfers an instruction byte (RS=0)
func (l *LCD) SendCommand(command uint8) error {
	return l.transfer(Low, command)
}

// SendData transfers a character byte (RS=1)
func (l *LCD) SendData(data uint8) error {
	return l.transfer(High, data)
}

// transfer runs one RS/EN cycle. Every phase is followed by PhaseDelay:
// address setup, enable pulse width, data setup, then hold after EN falls.
func (l *LCD) transfer(rs Level, b uint8) error {
	if err := l.gpio.WritePin(l.cfg.RSPort, l.cfg.RSPin, rs); err != nil {
		return err
	}
	l.wait()

	if err := l.enable(High); err != nil {
		return err
	}

	if l.cfg.FourBit {
		if err := l.writeNibble(b >> 4); err != nil {
			return err
		}
		if err := l.enable(Low); err != nil {
			return err
		}
		if err := l.enable(High); err != nil {
			return err
		}
		if err := l.writeNibble(b & 0x0F); err != nil {
			return err
		}
	} else {
		if err := l.gpio.WritePort(l.cfg.DataPort, b); err != nil {
			return err
		}
		l.wait()
	}

	return l.enable(Low)
}

func (l *LCD) enable(level Level) error {
	if err := l.gpio.WritePin(l.cfg.ENPort, l.cfg.ENPin, level); err != nil {
		return err
	}
	l.wait()
	return nil
}

// writeNibble places the low four bits of n on D4..D7
func (l *LCD) writeNibble(n uint8) error {
	for i, pin := range l.cfg.DataPins {
		level := Low
		if n&(1<<uint(i)) != 0 {
			level = High
		}
		if err := l.gpio.WritePin(l.cfg.DataPort, pin, level); err != nil {
			return err
		}
	}
	l.wait()
	return nil
}

func (l *LCD) wait() { l.cfg.Sleep(l.cfg.PhaseDelay) }

// DisplayString writes s starting at the current cursor
func (l *LCD) DisplayString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := l.SendData(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// MoveCursor sets the DDRAM address for (row, col). Rows above 3 map to row 0.
func (l *LCD) MoveCursor(row, col uint8) error {
	var base uint8
	if int(row) < len(lcdRowAddress) {
		base = lcdRowAddress[row]
	}
	return l.SendCommand(LCD_SET_DDRAM | (base + col))
}

// Clear blanks the display and homes the cursor
func (l *LCD) Clear() error {
	return l.SendCommand(LCD_CLEAR_DISPLAY)
}

// DisplayInteger writes n in decimal
func (l *LCD) DisplayInteger(n int) error {
	return l.DisplayString(itoa(n))
}

// DefineCharacter stores an 8-row glyph in CGRAM slot 0-7
func (l *LCD) DefineCharacter(slot uint8, pattern [8]uint8) error {
	if err := l.SendCommand(LCD_SET_CGRAM + (slot&0x07)*8); err != nil {
		return err
	}
	for _, row := range pattern {
		if err := l.SendData(row); err != nil {
			return err
		}
	}
	return nil
}
