// Package scenario describes simulator runs of the fan controller in YAML.
package scenario

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"thermofan/core"
)

// Scenario is one simulated run
type Scenario struct {
	Name     string        `yaml:"name"`
	Steps    int           `yaml:"steps"`
	Interval time.Duration `yaml:"interval"` // simulated time per loop iteration
	Debug    bool          `yaml:"debug"`

	Plant  PlantConfig  `yaml:"plant"`
	ADC    ADCConfig    `yaml:"adc"`
	LCD    LCDConfig    `yaml:"lcd"`
	Faults FaultConfig  `yaml:"faults"`
	Heat   []HeatChange `yaml:"heat_profile"`
}

// PlantConfig parameterises the thermal model (degrees Celsius, seconds)
type PlantConfig struct {
	Ambient      float32 `yaml:"ambient"`
	Heat         float32 `yaml:"heat"`
	FanCooling   float32 `yaml:"fan_cooling"`
	TimeConstant float32 `yaml:"time_constant"`
	InitialTemp  float32 `yaml:"initial_temp"` // 0 starts at ambient
}

// ADCConfig selects the converter setup
type ADCConfig struct {
	Reference       string `yaml:"reference"` // internal, avcc or aref
	ArefMilliVolt   uint32 `yaml:"aref_mv"`
	Prescaler       uint32 `yaml:"prescaler"` // clock divisor, 2-128
	PollLimit       uint32 `yaml:"poll_limit"`
	ConversionPolls int    `yaml:"conversion_polls"`
}

// LCDConfig selects the display bus width
type LCDConfig struct {
	FourBit bool `yaml:"four_bit"`
}

// FaultConfig injects hardware faults
type FaultConfig struct {
	// HangADCAtStep makes conversions stop completing from this step on (1-based, 0 = never)
	HangADCAtStep int `yaml:"hang_adc_at_step"`
}

// HeatChange sets the plant heat input from Step on
type HeatChange struct {
	Step int     `yaml:"step"`
	Heat float32 `yaml:"heat"`
}

// Default returns a run that heats up through every speed band
func Default() *Scenario {
	return &Scenario{
		Name:     "default",
		Steps:    120,
		Interval: time.Second,
		Plant: PlantConfig{
			Ambient:      25,
			Heat:         110,
			FanCooling:   60,
			TimeConstant: 20,
		},
		ADC: ADCConfig{
			Reference:       "internal",
			Prescaler:       8,
			PollLimit:       1000,
			ConversionPolls: 3,
		},
	}
}

// LoadConfig parses a YAML scenario and fills in missing values
func LoadConfig(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads a scenario file. An empty filename yields Default().
func Load(filename string) (*Scenario, error) {
	if filename == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return LoadConfig(data)
}

// applyDefaults fills in missing values from Default()
func (s *Scenario) applyDefaults() {
	def := Default()

	if s.Name == "" {
		s.Name = def.Name
	}
	if s.Steps == 0 {
		s.Steps = def.Steps
	}
	if s.Interval == 0 {
		s.Interval = def.Interval
	}

	if s.Plant.Ambient == 0 {
		s.Plant.Ambient = def.Plant.Ambient
	}
	if s.Plant.TimeConstant == 0 {
		s.Plant.TimeConstant = def.Plant.TimeConstant
	}
	if s.Plant.InitialTemp == 0 {
		s.Plant.InitialTemp = s.Plant.Ambient
	}

	if s.ADC.Reference == "" {
		s.ADC.Reference = def.ADC.Reference
	}
	if s.ADC.Prescaler == 0 {
		s.ADC.Prescaler = def.ADC.Prescaler
	}
	if s.ADC.PollLimit == 0 {
		s.ADC.PollLimit = def.ADC.PollLimit
	}
	if s.ADC.ConversionPolls == 0 {
		s.ADC.ConversionPolls = def.ADC.ConversionPolls
	}

	sort.SliceStable(s.Heat, func(i, j int) bool { return s.Heat[i].Step < s.Heat[j].Step })
}

// Validate rejects values the simulator cannot run
func (s *Scenario) Validate() error {
	if s.Steps < 0 {
		return fmt.Errorf("steps must not be negative")
	}
	if s.Interval < 0 {
		return fmt.Errorf("interval must not be negative")
	}
	if s.Plant.TimeConstant < 0 {
		return fmt.Errorf("plant time_constant must not be negative")
	}
	if _, err := s.reference(); err != nil {
		return err
	}
	if _, err := s.prescaler(); err != nil {
		return err
	}
	if s.ADC.ConversionPolls < 1 {
		return fmt.Errorf("adc conversion_polls must be at least 1")
	}
	if uint32(s.ADC.ConversionPolls) > s.ADC.PollLimit {
		return fmt.Errorf("adc conversion_polls %d exceeds poll_limit %d", s.ADC.ConversionPolls, s.ADC.PollLimit)
	}
	if s.Faults.HangADCAtStep < 0 {
		return fmt.Errorf("faults hang_adc_at_step must not be negative")
	}
	return nil
}

func (s *Scenario) reference() (core.ReferenceVoltage, error) {
	switch strings.ToLower(s.ADC.Reference) {
	case "internal":
		return core.RefInternal, nil
	case "avcc":
		return core.RefAVCC, nil
	case "aref":
		if s.ADC.ArefMilliVolt == 0 {
			return 0, fmt.Errorf("adc reference aref needs aref_mv")
		}
		return core.RefAREF, nil
	}
	return 0, fmt.Errorf("unknown adc reference %q", s.ADC.Reference)
}

func (s *Scenario) prescaler() (core.Prescaler, error) {
	for p := core.FCPU2; p <= core.FCPU128; p++ {
		if p.Divisor() == s.ADC.Prescaler {
			return p, nil
		}
	}
	return 0, fmt.Errorf("adc prescaler %d is not a power of two between 2 and 128", s.ADC.Prescaler)
}

// Board returns the reference board with the scenario's converter and bus settings
func (s *Scenario) Board() (core.Board, error) {
	b := core.DefaultBoard()

	ref, err := s.reference()
	if err != nil {
		return b, err
	}
	ps, err := s.prescaler()
	if err != nil {
		return b, err
	}
	b.ADC = core.ADCConfig{
		Reference:     ref,
		Prescaler:     ps,
		ArefMilliVolt: s.ADC.ArefMilliVolt,
		PollLimit:     s.ADC.PollLimit,
	}
	b.LCD.FourBit = s.LCD.FourBit
	b.LCD.Sleep = func(time.Duration) {}
	return b, nil
}

// HeatAt returns the heat input in effect at step (1-based)
func (s *Scenario) HeatAt(step int) float32 {
	heat := s.Plant.Heat
	for _, h := range s.Heat {
		if h.Step > step {
			break
		}
		heat = h.Heat
	}
	return heat
}
