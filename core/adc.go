// ADC (Analog to Digital Converter) support
// Single-shot, polled conversions on the ATmega32 successive-approximation ADC
package core

import "thermofan/errcode"

// ADC implements ADCDriver over the ADMUX/ADCSRA/ADCL/ADCH registers
type ADC struct {
	regs ADCRegisters
	cfg  ADCConfig
}

// NewADC binds the driver to the ADC register block. Call Init before use.
func NewADC(regs ADCRegisters) *ADC {
	return &ADC{regs: regs}
}

// Init programs REFS1:0 and ADPS2:0, then sets ADEN
func (a *ADC) Init(cfg ADCConfig) error {
	if cfg.Prescaler == 0 || cfg.Prescaler > FCPU128 {
		return &errcode.E{C: errcode.InvalidParams, Op: "adc.init", Msg: "prescaler"}
	}
	a.cfg = cfg

	a.regs.ADMUX.ReplaceBits(uint8(cfg.Reference)&ADMUX_REFS_Msk, ADMUX_REFS_Msk, ADMUX_REFS_Pos)
	a.regs.ADCSRA.ReplaceBits(uint8(cfg.Prescaler)&ADCSRA_ADPS_Msk, ADCSRA_ADPS_Msk, 0)
	a.regs.ADCSRA.SetBits(ADCSRA_ADEN)

	DebugPrintln("[ADC] init ref=" + utoa(uint32(cfg.Reference)) + " ps=" + utoa(cfg.Prescaler.Divisor()))
	return nil
}

// ReadChannel selects ch, starts a conversion and busy-polls ADIF.
// Channel numbers are truncated to the low three bits, as the MUX field does.
// With a non-zero PollLimit an unresponsive converter yields HardwareTimeout
// instead of hanging the caller.
func (a *ADC) ReadChannel(ch ADCChannelID) (ADCValue, error) {
	a.regs.ADMUX.ReplaceBits(uint8(ch)&0x07, ADMUX_MUX_Msk, 0)
	a.regs.ADCSRA.SetBits(ADCSRA_ADSC)

	limit := a.cfg.PollLimit
	for polls := uint32(0); !a.regs.ADCSRA.HasBits(ADCSRA_ADIF); polls++ {
		if limit != 0 && polls >= limit {
			RecordEvent(EvtTimeout, uint32(ch), polls)
			return 0, &errcode.E{C: errcode.HardwareTimeout, Op: "adc.read", Msg: "channel " + utoa(uint32(ch)&0x07)}
		}
	}

	// ADIF is cleared by writing a logical one to it
	a.regs.ADCSRA.SetBits(ADCSRA_ADIF)

	low := uint16(a.regs.ADCL.Get())
	high := uint16(a.regs.ADCH.Get())
	return ADCValue((high<<8 | low) & 0x03FF), nil
}

// ReferenceMilliVolt returns the reference programmed by Init
func (a *ADC) ReferenceMilliVolt() uint32 {
	if a.cfg.Reference == RefAREF {
		return a.cfg.ArefMilliVolt
	}
	return a.cfg.Reference.MilliVolts()
}

// Shutdown clears ADMUX and ADCSRA, disabling the peripheral
func (a *ADC) Shutdown() {
	a.regs.ADMUX.Set(0)
	a.regs.ADCSRA.Set(0)
}
