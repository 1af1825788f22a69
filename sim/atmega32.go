package sim

// Port indices
const (
	PortA = iota
	PortB
	PortC
	PortD

	NumPorts = 4
)

// ADCSRA bits the converter model reacts to
const (
	adcsraADEN = 1 << 7
	adcsraADSC = 1 << 6
	adcsraADIF = 1 << 4
)

// Port is one DDR/PORT/PIN triple plus the levels driven from outside.
type Port struct {
	DDR  *Register8
	PORT *Register8
	PIN  *Register8

	external uint8
	watchers []func(old, stored uint8)
}

func newPort() *Port {
	p := &Port{DDR: &Register8{}, PORT: &Register8{}, PIN: &Register8{}}
	p.PIN.OnRead = func() {
		ddr := p.DDR.Peek()
		p.PIN.Poke(p.PORT.Peek()&ddr | p.external&^ddr)
	}
	// PIN is read-only on the ATmega32
	p.PIN.OnWrite = func(old, _ uint8) uint8 { return old }
	p.PORT.Watch = func(old, stored uint8) {
		for _, w := range p.watchers {
			w(old, stored)
		}
	}
	return p
}

// Drive sets the externally applied level on an input pin
func (p *Port) Drive(pin uint8, high bool) {
	if high {
		p.external |= 1 << pin
	} else {
		p.external &^= 1 << pin
	}
}

// OnChange registers a callback for every PORT register store
func (p *Port) OnChange(fn func(old, stored uint8)) {
	p.watchers = append(p.watchers, fn)
}

// Output reports whether pin is configured as an output
func (p *Port) Output(pin uint8) bool { return p.DDR.Peek()&(1<<pin) != 0 }

// High reports the PORT latch bit of pin
func (p *Port) High(pin uint8) bool { return p.PORT.Peek()&(1<<pin) != 0 }

// ADC models the successive-approximation converter.
// Setting ADSC with ADEN starts a conversion that completes after
// ConversionPolls reads of ADCSRA.
type ADC struct {
	ADMUX  *Register8
	ADCSRA *Register8
	ADCL   *Register8
	ADCH   *Register8

	// Source returns the 10-bit code for a channel (MUX4:0)
	Source func(channel uint8) uint16
	// ConversionPolls is the number of ADCSRA reads a conversion takes
	ConversionPolls int
	// Hang stops conversions from ever completing
	Hang bool

	converting  bool
	remaining   int
	conversions int
	lastChannel uint8
}

func newADC() *ADC {
	a := &ADC{
		ADMUX:           &Register8{},
		ADCSRA:          &Register8{},
		ADCL:            &Register8{},
		ADCH:            &Register8{},
		ConversionPolls: 3,
	}
	a.ADCSRA.OnWrite = a.writeControl
	a.ADCSRA.OnRead = a.poll
	return a
}

// writeControl applies ADCSRA store semantics: ADIF is cleared by writing
// one, ADSC cannot be cleared by software and starts a conversion.
func (a *ADC) writeControl(old, written uint8) uint8 {
	flag := old & adcsraADIF
	if written&adcsraADIF != 0 {
		flag = 0
	}
	v := written&^(adcsraADIF|adcsraADSC) | flag

	if written&adcsraADEN == 0 {
		a.converting = false
		return v
	}
	if a.converting {
		return v | adcsraADSC
	}
	if written&adcsraADSC != 0 {
		a.converting = true
		a.remaining = a.ConversionPolls
		a.lastChannel = a.ADMUX.Peek() & 0x1F
		return v | adcsraADSC
	}
	return v
}

func (a *ADC) poll() {
	if !a.converting || a.Hang {
		return
	}
	a.remaining--
	if a.remaining > 0 {
		return
	}

	var code uint16
	if a.Source != nil {
		code = a.Source(a.lastChannel) & 0x03FF
	}
	a.ADCL.Poke(uint8(code))
	a.ADCH.Poke(uint8(code >> 8))
	a.ADCSRA.Poke(a.ADCSRA.Peek()&^adcsraADSC | adcsraADIF)
	a.converting = false
	a.conversions++
}

// Converting reports whether a conversion is in flight
func (a *ADC) Converting() bool { return a.converting }

// Conversions counts completed conversions
func (a *ADC) Conversions() int { return a.conversions }

// LastChannel is the MUX value latched by the last conversion start
func (a *ADC) LastChannel() uint8 { return a.lastChannel }

// Enabled reports ADEN
func (a *ADC) Enabled() bool { return a.ADCSRA.Peek()&adcsraADEN != 0 }

// Reference returns REFS1:0
func (a *ADC) Reference() uint8 { return a.ADMUX.Peek() >> 6 }

// Prescaler returns ADPS2:0
func (a *ADC) Prescaler() uint8 { return a.ADCSRA.Peek() & 0x07 }

// ATmega32 is the simulated register file of the microcontroller
type ATmega32 struct {
	Ports  [NumPorts]*Port
	ADC    *ADC
	Timer0 *Timer0
}

// NewATmega32 returns a device in its reset state
func NewATmega32() *ATmega32 {
	m := &ATmega32{
		ADC:    newADC(),
		Timer0: newTimer0(),
	}
	for i := range m.Ports {
		m.Ports[i] = newPort()
	}
	return m
}
