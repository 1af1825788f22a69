// Package sim models the ATmega32 peripherals the fan controller touches, at
// register level, so firmware code runs unchanged on the host.
package sim

// Register8 is a simulated 8-bit I/O register.
// It has the same method set as TinyGo's runtime/volatile.Register8.
type Register8 struct {
	value uint8

	// OnRead runs before every Get, letting a peripheral advance its state.
	OnRead func()
	// OnWrite filters a store: it receives the old and written value and
	// returns what the register actually holds afterwards.
	OnWrite func(old, written uint8) uint8
	// Watch runs after every store with the old and new value.
	Watch func(old, stored uint8)

	writes int
}

func (r *Register8) Get() uint8 {
	if r.OnRead != nil {
		r.OnRead()
	}
	return r.value
}

func (r *Register8) Set(value uint8) {
	old := r.value
	if r.OnWrite != nil {
		value = r.OnWrite(old, value)
	}
	r.value = value
	r.writes++
	if r.Watch != nil {
		r.Watch(old, value)
	}
}

func (r *Register8) SetBits(value uint8) {
	r.Set(r.Get() | value)
}

func (r *Register8) ClearBits(value uint8) {
	r.Set(r.Get() &^ value)
}

func (r *Register8) HasBits(value uint8) bool {
	return (r.Get() & value) > 0
}

func (r *Register8) ReplaceBits(value uint8, mask uint8, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | value<<pos)
}

// Peek returns the stored value without running OnRead
func (r *Register8) Peek() uint8 { return r.value }

// Poke stores a value as the hardware would, bypassing hooks
func (r *Register8) Poke(value uint8) { r.value = value }

// Writes counts stores made through Set (and the bit helpers)
func (r *Register8) Writes() int { return r.writes }
