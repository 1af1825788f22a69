// DC motor driven through an H-bridge: two direction inputs plus PWM enable
package core

// Direction selects which H-bridge input is driven high
type Direction uint8

const (
	Clockwise Direction = iota
	CounterClockwise
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "CCW"
	}
	return "CW"
}

// MotorState mirrors whether the last command was a rotate or a stop
type MotorState uint8

const (
	MotorOff MotorState = iota
	MotorOn
)

func (s MotorState) String() string {
	if s == MotorOn {
		return "ON"
	}
	return "OFF"
}

// MotorPins is the H-bridge wiring
type MotorPins struct {
	Port PortID
	IN1  PinID
	IN2  PinID
}

// DCMotor is a two-state machine: Stopped or Running(direction, speed)
type DCMotor struct {
	gpio GPIODriver
	pwm  PWMDriver
	pins MotorPins

	state MotorState
	dir   Direction
	speed uint8
}

// NewDCMotor creates the motor. Call Init before use.
func NewDCMotor(gpio GPIODriver, pwm PWMDriver, pins MotorPins) *DCMotor {
	return &DCMotor{gpio: gpio, pwm: pwm, pins: pins}
}

// Init configures both direction inputs as outputs and drives them low
func (m *DCMotor) Init() error {
	if err := m.gpio.SetupPinDirection(m.pins.Port, m.pins.IN1, PinOutput); err != nil {
		return err
	}
	if err := m.gpio.SetupPinDirection(m.pins.Port, m.pins.IN2, PinOutput); err != nil {
		return err
	}
	if err := m.brake(); err != nil {
		return err
	}
	m.state, m.dir, m.speed = MotorOff, Clockwise, 0
	return nil
}

// Rotate sets the direction pattern, then hands speed to the PWM generator
func (m *DCMotor) Rotate(dir Direction, speed uint8) error {
	in1, in2 := Low, High
	if dir == CounterClockwise {
		in1, in2 = High, Low
	}
	if err := m.gpio.WritePin(m.pins.Port, m.pins.IN1, in1); err != nil {
		return err
	}
	if err := m.gpio.WritePin(m.pins.Port, m.pins.IN2, in2); err != nil {
		return err
	}
	if err := m.pwm.Start(speed); err != nil {
		return err
	}
	m.state, m.dir, m.speed = MotorOn, dir, m.pwm.Duty()
	return nil
}

// Stop zeroes the duty cycle first, then returns both inputs to low.
// The two passes are kept separate: a zero duty alone leaves the last
// direction pattern on the bridge.
func (m *DCMotor) Stop() error {
	if err := m.Rotate(Clockwise, 0); err != nil {
		return err
	}
	if err := m.brake(); err != nil {
		return err
	}
	m.state, m.speed = MotorOff, 0
	return nil
}

func (m *DCMotor) brake() error {
	if err := m.gpio.WritePin(m.pins.Port, m.pins.IN1, Low); err != nil {
		return err
	}
	return m.gpio.WritePin(m.pins.Port, m.pins.IN2, Low)
}

// State reports On after Rotate and Off after Init or Stop
func (m *DCMotor) State() MotorState { return m.state }

// Direction reports the direction of the last Rotate
func (m *DCMotor) Direction() Direction { return m.dir }

// Speed reports the duty cycle of the last command
func (m *DCMotor) Speed() uint8 { return m.speed }
