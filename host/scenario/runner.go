package scenario

import (
	"context"

	"thermofan/core"
	"thermofan/sim"
)

// Peripherals binds the core register interfaces to a simulated device
func Peripherals(mcu *sim.ATmega32) core.Peripherals {
	var p core.Peripherals
	for i, port := range mcu.Ports {
		p.Ports[i] = core.PortRegisters{DDR: port.DDR, PORT: port.PORT, PIN: port.PIN}
	}
	p.ADC = core.ADCRegisters{
		ADMUX:  mcu.ADC.ADMUX,
		ADCSRA: mcu.ADC.ADCSRA,
		ADCL:   mcu.ADC.ADCL,
		ADCH:   mcu.ADC.ADCH,
	}
	p.Timer0 = core.Timer0Registers{
		TCCR0: mcu.Timer0.TCCR0,
		TCNT0: mcu.Timer0.TCNT0,
		OCR0:  mcu.Timer0.OCR0,
	}
	return p
}

// Result is the observable state after one simulated iteration
type Result struct {
	Step      int
	PlantTemp float32
	Status    core.Status
	Rows      []string
}

// Runner drives the real control loop against the simulated board
type Runner struct {
	Scenario *Scenario
	MCU      *sim.ATmega32
	Panel    *sim.HD44780
	Plant    *sim.ThermalPlant
	System   *core.System

	step int
}

// NewRunner builds the simulated board and the firmware drivers on top of it
func NewRunner(s *Scenario) (*Runner, error) {
	board, err := s.Board()
	if err != nil {
		return nil, err
	}

	mcu := sim.NewATmega32()
	mcu.ADC.ConversionPolls = s.ADC.ConversionPolls

	wiring := sim.LCDWiring{
		RS:       sim.PortPin{Port: int(board.LCD.RSPort), Pin: uint8(board.LCD.RSPin)},
		EN:       sim.PortPin{Port: int(board.LCD.ENPort), Pin: uint8(board.LCD.ENPin)},
		DataPort: int(board.LCD.DataPort),
		FourBit:  board.LCD.FourBit,
	}
	for i, pin := range board.LCD.DataPins {
		wiring.DataPins[i] = uint8(pin)
	}
	panel := sim.AttachHD44780(mcu, wiring)

	sys, err := core.Setup(Peripherals(mcu), board)
	if err != nil {
		return nil, err
	}

	plant := &sim.ThermalPlant{
		Ambient:       s.Plant.Ambient,
		Heat:          s.Plant.Heat,
		FanCooling:    s.Plant.FanCooling,
		TimeConstant:  s.Plant.TimeConstant,
		Temp:          s.Plant.InitialTemp,
		VrefMilliVolt: sys.ADC.ReferenceMilliVolt(),
	}
	mcu.ADC.Source = plant.Source(uint8(board.SensorChannel))

	return &Runner{
		Scenario: s,
		MCU:      mcu,
		Panel:    panel,
		Plant:    plant,
		System:   sys,
	}, nil
}

// Start initialises the controller and draws the labels
func (r *Runner) Start() error {
	return r.System.Controller.Start()
}

// Step advances the plant by one interval at the current fan speed, then
// runs one controller iteration
func (r *Runner) Step() (Result, error) {
	r.step++
	s := r.Scenario

	if s.Faults.HangADCAtStep != 0 && r.step >= s.Faults.HangADCAtStep {
		r.MCU.ADC.Hang = true
	}
	r.Plant.Heat = s.HeatAt(r.step)
	r.Plant.Step(float32(s.Interval.Seconds()), r.System.Motor.Speed())

	st, err := r.System.Controller.Step()
	return Result{
		Step:      r.step,
		PlantTemp: r.Plant.Temp,
		Status:    st,
		Rows:      r.Panel.Rows(),
	}, err
}

// Run starts the controller and performs every scenario step, calling fn
// after each successful one. It stops at the first error.
func (r *Runner) Run(ctx context.Context, fn func(Result)) error {
	if err := r.Start(); err != nil {
		return err
	}
	for i := 0; i < r.Scenario.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.Step()
		if err != nil {
			return err
		}
		if fn != nil {
			fn(res)
		}
	}
	return nil
}

// Shutdown stops the fan and disables the ADC
func (r *Runner) Shutdown() error {
	err := r.System.Motor.Stop()
	r.System.ADC.Shutdown()
	return err
}
