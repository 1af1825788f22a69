package scenario

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermofan/core"
	"thermofan/errcode"
)

func TestLoadConfigDefaults(t *testing.T) {
	s, err := LoadConfig([]byte("name: minimal\n"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, def.Steps, s.Steps)
	assert.Equal(t, def.Interval, s.Interval)
	assert.Equal(t, def.Plant.Ambient, s.Plant.Ambient)
	assert.Equal(t, s.Plant.Ambient, s.Plant.InitialTemp)
	assert.Equal(t, "internal", s.ADC.Reference)
	assert.Equal(t, uint32(8), s.ADC.Prescaler)
}

func TestLoadConfigFull(t *testing.T) {
	doc := `
name: overheat
steps: 30
interval: 500ms
debug: true
plant:
  ambient: 30
  heat: 150
  fan_cooling: 90
  time_constant: 5
  initial_temp: 80
adc:
  reference: avcc
  prescaler: 64
  poll_limit: 50
  conversion_polls: 4
lcd:
  four_bit: true
faults:
  hang_adc_at_step: 12
heat_profile:
  - step: 20
    heat: 10
  - step: 10
    heat: 200
`
	s, err := LoadConfig([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 30, s.Steps)
	assert.Equal(t, 500*time.Millisecond, s.Interval)
	assert.True(t, s.Debug)
	assert.Equal(t, float32(80), s.Plant.InitialTemp)
	assert.Equal(t, 12, s.Faults.HangADCAtStep)

	// heat profile is ordered by step
	require.Len(t, s.Heat, 2)
	assert.Equal(t, 10, s.Heat[0].Step)
	assert.Equal(t, float32(150), s.HeatAt(9))
	assert.Equal(t, float32(200), s.HeatAt(10))
	assert.Equal(t, float32(10), s.HeatAt(25))

	b, err := s.Board()
	require.NoError(t, err)
	assert.Equal(t, core.RefAVCC, b.ADC.Reference)
	assert.Equal(t, core.FCPU64, b.ADC.Prescaler)
	assert.Equal(t, uint32(50), b.ADC.PollLimit)
	assert.True(t, b.LCD.FourBit)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":          "steps: [1",
		"reference":       "adc: {reference: bandgap}",
		"aref without mv": "adc: {reference: aref}",
		"prescaler":       "adc: {prescaler: 3}",
		"poll limit":      "adc: {poll_limit: 2, conversion_polls: 5}",
		"negative steps":  "steps: -1",
		"negative fault":  "faults: {hang_adc_at_step: -2}",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "default", s.Name)

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: 5\n"), 0644))
	s, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Steps)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunnerHeatsThroughBands(t *testing.T) {
	core.ClearEventRing()
	r, err := NewRunner(Default())
	require.NoError(t, err)

	seen := map[uint8]bool{}
	var last Result
	require.NoError(t, r.Run(context.Background(), func(res Result) {
		seen[res.Status.Duty] = true
		last = res
	}))

	assert.Equal(t, Default().Steps, last.Step)
	assert.True(t, seen[25] && seen[50] && seen[75], "duties seen: %v", seen)
	assert.Equal(t, core.MotorOn, last.Status.State)
	assert.InDelta(t, 90, float64(last.Status.Temperature), 10)

	assert.Equal(t, "   FAN IS ON    ", last.Rows[1])
	assert.True(t, strings.HasPrefix(last.Rows[2], "  TEMP = "))
	assert.Equal(t, core.CompareValue(last.Status.Duty), r.MCU.Timer0.OCR0.Peek())

	require.NoError(t, r.Shutdown())
	assert.Equal(t, core.MotorOff, r.System.Motor.State())
	assert.False(t, r.MCU.ADC.Enabled())
}

func TestRunnerStaysOffWhenCool(t *testing.T) {
	s := Default()
	s.Plant.Heat = 2
	s.Steps = 20
	r, err := NewRunner(s)
	require.NoError(t, err)

	var last Result
	require.NoError(t, r.Run(context.Background(), func(res Result) { last = res }))
	assert.Equal(t, core.MotorOff, last.Status.State)
	assert.Equal(t, "   FAN IS OFF   ", last.Rows[1])
}

func TestRunnerFourBitDisplay(t *testing.T) {
	s := Default()
	s.LCD.FourBit = true
	s.Steps = 3
	r, err := NewRunner(s)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background(), nil))
	assert.False(t, r.Panel.EightBit())
	assert.True(t, strings.HasPrefix(r.Panel.Row(1), "   FAN IS "))
}

func TestRunnerADCHang(t *testing.T) {
	core.ClearEventRing()
	s := Default()
	s.Faults.HangADCAtStep = 5
	r, err := NewRunner(s)
	require.NoError(t, err)

	steps := 0
	err = r.Run(context.Background(), func(Result) { steps++ })
	assert.ErrorIs(t, err, errcode.HardwareTimeout)
	assert.Equal(t, 4, steps)

	events := core.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, uint8(core.EvtTimeout), events[len(events)-1].EventType)
}

func TestRunnerCancelled(t *testing.T) {
	r, err := NewRunner(Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx, nil), context.Canceled)
}
