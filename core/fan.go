// Temperature-controlled fan loop
package core

import "context"

// SpeedBand maps every temperature at or above MinTemp to Duty
type SpeedBand struct {
	MinTemp Temperature
	Duty    uint8
}

// SpeedBands are evaluated high to low; the first match wins.
// Anything below the last band stops the fan.
var SpeedBands = [...]SpeedBand{
	{MinTemp: 120, Duty: 100},
	{MinTemp: 90, Duty: 75},
	{MinTemp: 60, Duty: 50},
	{MinTemp: 30, Duty: 25},
}

// SelectSpeed returns the duty cycle for t, and false when the fan should stop
func SelectSpeed(t Temperature) (uint8, bool) {
	for _, band := range SpeedBands {
		if t >= band.MinTemp {
			return band.Duty, true
		}
	}
	return 0, false
}

// TemperatureSensor yields one raw sample and its converted temperature
type TemperatureSensor interface {
	ReadTemperature() (ADCValue, Temperature, error)
}

// Motor is the actuator the controller commands
type Motor interface {
	Init() error
	Rotate(dir Direction, speed uint8) error
	Stop() error
	State() MotorState
	Speed() uint8
}

// Layout holds the display positions (row, col) used by the controller
type Layout struct {
	FanLabelRow, FanLabelCol   uint8
	FanStateRow, FanStateCol   uint8
	TempLabelRow, TempLabelCol uint8
	TempRow, TempCol           uint8
}

// DefaultLayout positions the labels for a 16x4 module
var DefaultLayout = Layout{
	FanLabelRow: 1, FanLabelCol: 3,
	FanStateRow: 1, FanStateCol: 10,
	TempLabelRow: 2, TempLabelCol: 2,
	TempRow: 2, TempCol: 9,
}

const (
	fanLabel  = "FAN IS "
	tempLabel = "TEMP =     C"

	// tempWidth is the number of columns reserved for the reading
	tempWidth = 3
)

// Status is the outcome of one control iteration
type Status struct {
	Sample      ADCValue
	Temperature Temperature
	Duty        uint8
	State       MotorState
}

// FanController is the single owner of sensor, motor and display
type FanController struct {
	sensor  TemperatureSensor
	motor   Motor
	display Display
	layout  Layout

	iteration uint32
	last      Status
}

// NewFanController wires the control loop with DefaultLayout
func NewFanController(sensor TemperatureSensor, motor Motor, display Display) *FanController {
	return &FanController{
		sensor:  sensor,
		motor:   motor,
		display: display,
		layout:  DefaultLayout,
	}
}

// SetLayout changes the display positions; call before Start
func (f *FanController) SetLayout(layout Layout) {
	f.layout = layout
}

// Start initialises motor and display and draws the fixed labels
func (f *FanController) Start() error {
	if err := f.motor.Init(); err != nil {
		return err
	}
	if err := f.display.Init(); err != nil {
		return err
	}
	if err := f.display.MoveCursor(f.layout.FanLabelRow, f.layout.FanLabelCol); err != nil {
		return err
	}
	if err := f.display.DisplayString(fanLabel); err != nil {
		return err
	}
	if err := f.display.MoveCursor(f.layout.TempLabelRow, f.layout.TempLabelCol); err != nil {
		return err
	}
	if err := f.display.DisplayString(tempLabel); err != nil {
		return err
	}

	f.iteration = 0
	f.last = Status{State: f.motor.State()}
	SetEventSeq(0)
	RecordEvent(EvtInit, 0, 0)
	DebugPrintln("[FAN] started")
	return nil
}

// Step runs one iteration: sample, show temperature, select band, actuate,
// show fan state. A sampling error aborts the iteration before actuation.
func (f *FanController) Step() (Status, error) {
	f.iteration++
	SetEventSeq(f.iteration)

	raw, temp, err := f.sensor.ReadTemperature()
	if err != nil {
		DebugPrintln("[FAN] sample failed: " + err.Error())
		return f.last, err
	}
	RecordEvent(EvtSample, uint32(raw), uint32(temp))

	if err := f.showTemperature(temp); err != nil {
		return f.last, err
	}

	prevDuty := f.last.Duty
	duty, on := SelectSpeed(temp)
	if on {
		err = f.motor.Rotate(Clockwise, duty)
	} else {
		err = f.motor.Stop()
	}
	if err != nil {
		return f.last, err
	}

	st := Status{
		Sample:      raw,
		Temperature: temp,
		Duty:        f.motor.Speed(),
		State:       f.motor.State(),
	}
	if st.Duty != prevDuty {
		RecordEvent(EvtSpeed, uint32(prevDuty), uint32(st.Duty))
	}
	if st.State == MotorOff && f.last.State == MotorOn {
		RecordEvent(EvtMotorStop, uint32(temp), 0)
	}
	f.last = st

	if err := f.showState(st.State); err != nil {
		return st, err
	}

	DebugPrintln("[FAN] t=" + utoa(uint32(temp)) + " raw=" + utoa(uint32(raw)) +
		" duty=" + utoa(uint32(st.Duty)) + " " + st.State.String())
	return st, nil
}

// Run repeats Step until ctx is done or an iteration fails.
// There is no retry: the first error is returned to the caller.
func (f *FanController) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := f.Step(); err != nil {
			return err
		}
	}
}

// Status returns the outcome of the last successful iteration
func (f *FanController) Status() Status { return f.last }

// Iterations returns the number of Step calls since Start
func (f *FanController) Iterations() uint32 { return f.iteration }

func (f *FanController) showTemperature(t Temperature) error {
	if err := f.display.MoveCursor(f.layout.TempRow, f.layout.TempCol); err != nil {
		return err
	}
	if err := f.display.DisplayInteger(int(t)); err != nil {
		return err
	}
	// Blank what a longer previous reading left behind
	digits := len(itoa(int(t)))
	if digits < tempWidth {
		return f.display.DisplayString(padRight("", tempWidth-digits))
	}
	return nil
}

func (f *FanController) showState(s MotorState) error {
	if err := f.display.MoveCursor(f.layout.FanStateRow, f.layout.FanStateCol); err != nil {
		return err
	}
	return f.display.DisplayString(padRight(s.String(), 3))
}
