package sim

// PortPin names one I/O line
type PortPin struct {
	Port int
	Pin  uint8
}

// LCDWiring describes how an HD44780 module hangs off the ports
type LCDWiring struct {
	RS PortPin
	EN PortPin

	DataPort int
	// FourBit means only DataPins (D4..D7) are connected
	FourBit  bool
	DataPins [4]uint8
}

const (
	ddramSize = 0x80
	cgramSize = 0x40

	// LCDColumns is the visible width of one row
	LCDColumns = 16
)

var lcdRowBase = [4]uint8{0x00, 0x40, 0x10, 0x50}

// HD44780 models the controller side of a character LCD. It samples RS and
// the data lines on the falling edge of EN, exactly like the real part.
// After power-on it listens as an 8-bit interface; in 4-bit wiring the
// lower data lines read as zero until a function set selects 4-bit mode.
type HD44780 struct {
	mcu    *ATmega32
	wiring LCDWiring

	eightBit bool
	pending  bool // first nibble of a 4-bit transfer received
	hiNibble uint8

	twoLine   bool
	displayOn bool
	cursorOn  bool
	blinkOn   bool
	increment bool

	cgMode bool
	addr   uint8

	ddram [ddramSize]byte
	cgram [cgramSize]byte

	commands []uint8
	writes   int
}

// AttachHD44780 connects a display model to the EN line of mcu
func AttachHD44780(mcu *ATmega32, wiring LCDWiring) *HD44780 {
	d := &HD44780{
		mcu:       mcu,
		wiring:    wiring,
		eightBit:  true,
		increment: true,
	}
	for i := range d.ddram {
		d.ddram[i] = ' '
	}
	mask := uint8(1) << wiring.EN.Pin
	mcu.Ports[wiring.EN.Port].OnChange(func(old, stored uint8) {
		if old&mask != 0 && stored&mask == 0 {
			d.latch()
		}
	})
	return d
}

func (d *HD44780) latch() {
	rs := d.mcu.Ports[d.wiring.RS.Port].High(d.wiring.RS.Pin)
	bus := d.readBus()

	if d.eightBit {
		d.execute(rs, bus)
		return
	}
	if !d.pending {
		d.hiNibble = bus & 0xF0
		d.pending = true
		return
	}
	d.pending = false
	d.execute(rs, d.hiNibble|bus>>4)
}

// readBus returns the data lines as D7..D0; in 4-bit wiring D3..D0 read 0
func (d *HD44780) readBus() uint8 {
	latch := d.mcu.Ports[d.wiring.DataPort].PORT.Peek()
	if !d.wiring.FourBit {
		return latch
	}
	var v uint8
	for i, pin := range d.wiring.DataPins {
		if latch&(1<<pin) != 0 {
			v |= 1 << (4 + uint(i))
		}
	}
	return v
}

func (d *HD44780) execute(rs bool, b uint8) {
	if rs {
		d.write(b)
		return
	}
	d.commands = append(d.commands, b)

	switch {
	case b&0x80 != 0:
		d.cgMode = false
		d.addr = b & 0x7F
	case b&0x40 != 0:
		d.cgMode = true
		d.addr = b & 0x3F
	case b&0x20 != 0:
		d.eightBit = b&0x10 != 0
		d.twoLine = b&0x08 != 0
		d.pending = false
	case b&0x10 != 0:
		// cursor shift only; display shift is not modelled
		if b&0x08 == 0 {
			d.step(b&0x04 != 0)
		}
	case b&0x08 != 0:
		d.displayOn = b&0x04 != 0
		d.cursorOn = b&0x02 != 0
		d.blinkOn = b&0x01 != 0
	case b&0x04 != 0:
		d.increment = b&0x02 != 0
	case b&0x02 != 0:
		d.cgMode = false
		d.addr = 0
	case b == 0x01:
		for i := range d.ddram {
			d.ddram[i] = ' '
		}
		d.cgMode = false
		d.addr = 0
		d.increment = true
	}
}

func (d *HD44780) write(b uint8) {
	d.writes++
	if d.cgMode {
		d.cgram[d.addr&(cgramSize-1)] = b
	} else {
		d.ddram[d.addr&(ddramSize-1)] = b
	}
	d.step(d.increment)
}

func (d *HD44780) step(forward bool) {
	size := uint8(ddramSize)
	if d.cgMode {
		size = cgramSize
	}
	if forward {
		d.addr = (d.addr + 1) & (size - 1)
	} else {
		d.addr = (d.addr - 1) & (size - 1)
	}
}

// Row returns the 16 visible characters of row 0-3
func (d *HD44780) Row(n int) string {
	base := int(lcdRowBase[n&3])
	buf := make([]byte, LCDColumns)
	for i := range buf {
		buf[i] = d.ddram[(base+i)&(ddramSize-1)]
	}
	return string(buf)
}

// Rows returns all four visible rows
func (d *HD44780) Rows() []string {
	rows := make([]string, len(lcdRowBase))
	for i := range rows {
		rows[i] = d.Row(i)
	}
	return rows
}

// Glyph returns the 8 pattern rows of CGRAM slot 0-7
func (d *HD44780) Glyph(slot uint8) [8]uint8 {
	var g [8]uint8
	copy(g[:], d.cgram[int(slot&7)*8:])
	return g
}

// Address is the current address counter
func (d *HD44780) Address() uint8 { return d.addr }

// EightBit reports the active interface width
func (d *HD44780) EightBit() bool { return d.eightBit }

// TwoLine reports the N bit of the last function set
func (d *HD44780) TwoLine() bool { return d.twoLine }

// DisplayOn reports the D bit of the last display control
func (d *HD44780) DisplayOn() bool { return d.displayOn }

// CursorOn reports the C bit of the last display control
func (d *HD44780) CursorOn() bool { return d.cursorOn }

// Commands returns every instruction byte received
func (d *HD44780) Commands() []uint8 { return d.commands }

// DataWrites counts bytes written with RS high
func (d *HD44780) DataWrites() int { return d.writes }
