package sim

import "github.com/chewxy/math32"

// LM35 output slope and range
const (
	lm35MilliVoltPerDegree = 10
	lm35MaxMilliVolt       = 1500
)

// ThermalPlant is a first-order model of the air around the sensor:
// the temperature relaxes toward Ambient+Heat, minus FanCooling scaled by
// the fan duty cycle, with time constant TimeConstant (seconds).
type ThermalPlant struct {
	Ambient      float32
	Heat         float32
	FanCooling   float32
	TimeConstant float32

	// Temp is the current temperature in degrees Celsius
	Temp float32
	// VrefMilliVolt is the ADC reference used by Sample
	VrefMilliVolt uint32
}

// Equilibrium returns the temperature the plant settles at for duty
func (p *ThermalPlant) Equilibrium(duty uint8) float32 {
	return p.Ambient + p.Heat - p.FanCooling*float32(duty)/100
}

// Step advances the plant by dt seconds with the fan at duty percent
func (p *ThermalPlant) Step(dt float32, duty uint8) {
	target := p.Equilibrium(duty)
	if p.TimeConstant <= 0 {
		p.Temp = target
		return
	}
	p.Temp = target + (p.Temp-target)*math32.Exp(-dt/p.TimeConstant)
}

// Sample returns the 10-bit code the ADC reads for the LM35 output
func (p *ThermalPlant) Sample() uint16 {
	if p.VrefMilliVolt == 0 {
		return 0
	}
	mv := math32.Max(0, math32.Min(p.Temp*lm35MilliVoltPerDegree, lm35MaxMilliVolt))
	code := math32.Floor(mv * 1023 / float32(p.VrefMilliVolt))
	if code > 1023 {
		code = 1023
	}
	return uint16(code)
}

// Source adapts the plant to ADC.Source for one channel; other channels read 0
func (p *ThermalPlant) Source(channel uint8) func(uint8) uint16 {
	return func(ch uint8) uint16 {
		if ch != channel {
			return 0
		}
		return p.Sample()
	}
}
