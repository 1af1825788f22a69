package sim

// TCCR0 bits
const (
	tccr0WGM00 = 1 << 6
	tccr0COM01 = 1 << 5
	tccr0COM00 = 1 << 4
	tccr0WGM01 = 1 << 3
	tccr0CS    = 0x07
)

var timer0Prescalers = [8]uint32{0, 1, 8, 64, 256, 1024, 0, 0}

// Timer0 is the 8-bit timer/counter with its compare output OC0.
// The model does not tick on its own; the helpers derive the waveform
// from the current configuration.
type Timer0 struct {
	TCCR0 *Register8
	TCNT0 *Register8
	OCR0  *Register8
}

func newTimer0() *Timer0 {
	return &Timer0{TCCR0: &Register8{}, TCNT0: &Register8{}, OCR0: &Register8{}}
}

// FastPWM reports WGM01:0 == 3
func (t *Timer0) FastPWM() bool {
	return t.TCCR0.Peek()&(tccr0WGM00|tccr0WGM01) == tccr0WGM00|tccr0WGM01
}

// NonInverting reports COM01:0 == 2 (clear OC0 on compare match, set at BOTTOM)
func (t *Timer0) NonInverting() bool {
	return t.TCCR0.Peek()&(tccr0COM01|tccr0COM00) == tccr0COM01
}

// Prescaler returns the clock divisor, or 0 when stopped or externally clocked
func (t *Timer0) Prescaler() uint32 {
	return timer0Prescalers[t.TCCR0.Peek()&tccr0CS]
}

// Frequency returns the fast PWM frequency for the given core clock
func (t *Timer0) Frequency(cpuHz uint32) uint32 {
	div := t.Prescaler()
	if div == 0 {
		return 0
	}
	return cpuHz / (div * 256)
}

// HighTicks is the number of counts per period OC0 is high in
// non-inverting fast PWM. OCR0 = 0 still gives a one-count spike.
func (t *Timer0) HighTicks() int {
	return int(t.OCR0.Peek()) + 1
}

// OutputAt returns the OC0 level while the counter holds count
func (t *Timer0) OutputAt(count uint8) bool {
	if !t.FastPWM() || !t.NonInverting() || t.Prescaler() == 0 {
		return false
	}
	ocr := t.OCR0.Peek()
	if ocr == 0xFF {
		return true
	}
	return count <= ocr
}
