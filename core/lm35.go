package core

import "tinygo.org/x/drivers"

// LM35 full-scale characteristics: 10mV/°C up to 150°C
const (
	LM35MaxTemperature = 150
	LM35MaxMilliVolt   = 1500

	// LM35Channel is the ADC channel the sensor is wired to
	LM35Channel ADCChannelID = 2
)

// Temperature is a reading in whole degrees Celsius
type Temperature uint16

// ComputeTemperature converts a raw sample into whole degrees.
// The division truncates; 32-bit intermediates hold 150*1023*5000.
func ComputeTemperature(sample ADCValue, vrefMilliVolt uint32) Temperature {
	num := uint32(LM35MaxTemperature) * uint32(sample) * vrefMilliVolt
	den := uint32(ADCMaxValue) * LM35MaxMilliVolt
	return Temperature(num / den)
}

// LM35 is the analog temperature sensor on an ADC channel.
// It implements drivers.Sensor.
type LM35 struct {
	adc     ADCDriver
	channel ADCChannelID

	raw  ADCValue
	temp Temperature
}

// NewLM35 creates the sensor. The ADC must already be initialised.
func NewLM35(adc ADCDriver, channel ADCChannelID) *LM35 {
	return &LM35{adc: adc, channel: channel}
}

// Update samples the sensor when a temperature measurement is requested
func (s *LM35) Update(which drivers.Measurement) error {
	if which&drivers.Temperature == 0 {
		return nil
	}
	raw, err := s.adc.ReadChannel(s.channel)
	if err != nil {
		return err
	}
	s.raw = raw
	s.temp = ComputeTemperature(raw, s.adc.ReferenceMilliVolt())
	return nil
}

// Temperature returns the last reading in milli-degrees Celsius
func (s *LM35) Temperature() int32 {
	return int32(s.temp) * 1000
}

// Celsius returns the last reading in whole degrees
func (s *LM35) Celsius() Temperature { return s.temp }

// Raw returns the last raw sample
func (s *LM35) Raw() ADCValue { return s.raw }

// ReadTemperature samples once and returns the raw value and whole degrees
func (s *LM35) ReadTemperature() (ADCValue, Temperature, error) {
	if err := s.Update(drivers.Temperature); err != nil {
		return 0, 0, err
	}
	return s.raw, s.temp, nil
}
