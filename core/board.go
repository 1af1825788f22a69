package core

// CPUFrequency is the ATmega32 core clock (internal RC oscillator)
const CPUFrequency = 1000000

// Board is the fixed wiring and peripheral setup of the fan controller
type Board struct {
	CPUFrequency  uint32
	ADC           ADCConfig
	SensorChannel ADCChannelID
	Motor         MotorPins
	LCD           LCDConfig
}

// DefaultBoard returns the reference board:
// LM35 on ADC2 against the internal 2.56V reference at F_CPU/8,
// H-bridge IN1/IN2 on PB0/PB1 with enable on OC0 (PB3),
// LCD RS on PD0, EN on PD2, 8-bit data on PORTC.
func DefaultBoard() Board {
	return Board{
		CPUFrequency: CPUFrequency,
		ADC: ADCConfig{
			Reference: RefInternal,
			Prescaler: FCPU8,
		},
		SensorChannel: LM35Channel,
		Motor: MotorPins{
			Port: PortB,
			IN1:  0,
			IN2:  1,
		},
		LCD: LCDConfig{
			RSPort:   PortD,
			RSPin:    0,
			ENPort:   PortD,
			ENPin:    2,
			DataPort: PortC,
			DataPins: [4]PinID{3, 4, 5, 6},
		},
	}
}

// Peripherals is the register file the firmware drives
type Peripherals struct {
	Ports  [NumPorts]PortRegisters
	ADC    ADCRegisters
	Timer0 Timer0Registers
}

// System holds every driver instance wired for one board
type System struct {
	GPIO       *GPIO
	ADC        *ADC
	PWM        *Timer0PWM
	Motor      *DCMotor
	LCD        *LCD
	Sensor     *LM35
	Controller *FanController
}

// Setup binds the drivers to the registers, initialises the ADC and
// creates the controller. The caller still has to call Controller.Start.
func Setup(p Peripherals, board Board) (*System, error) {
	s := &System{}
	s.GPIO = NewGPIO(p.Ports)
	s.ADC = NewADC(p.ADC)
	if err := s.ADC.Init(board.ADC); err != nil {
		return nil, err
	}
	s.PWM = NewTimer0PWM(p.Timer0, s.GPIO)
	s.Motor = NewDCMotor(s.GPIO, s.PWM, board.Motor)
	s.LCD = NewLCD(s.GPIO, board.LCD)
	s.Sensor = NewLM35(s.ADC, board.SensorChannel)
	s.Controller = NewFanController(s.Sensor, s.Motor, s.LCD)
	return s, nil
}
