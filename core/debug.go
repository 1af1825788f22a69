package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// ControlEvent captures a control-loop event for post-mortem analysis
type ControlEvent struct {
	EventType uint8  // Event type code
	Seq       uint32 // Loop iteration at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtInit      = 1 // controller started
	EvtSample    = 2 // raw sample, temperature
	EvtSpeed     = 3 // duty cycle changed: old, new
	EvtMotorStop = 4 // motor stopped at temperature
	EvtTimeout   = 5 // conversion timed out: channel, polls
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]ControlEvent
	eventRingHead uint8
	eventSeq      uint32
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART or stdout
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// SetEventSeq stamps subsequent events with the loop iteration
func SetEventSeq(seq uint32) {
	eventSeq = seq
}

// RecordEvent captures an event in the ring buffer
func RecordEvent(eventType uint8, value1, value2 uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	idx := eventRingHead
	eventRing[idx] = ControlEvent{
		EventType: eventType,
		Seq:       eventSeq,
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []ControlEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]ControlEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// DumpEventRing outputs the event ring (call on fatal error)
// The dump bypasses debugEnabled: it only runs after something went wrong.
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	for _, evt := range Events() {
		var name string
		switch evt.EventType {
		case EvtInit:
			name = "INIT"
		case EvtSample:
			name = "SAMPLE"
		case EvtSpeed:
			name = "SPEED"
		case EvtMotorStop:
			name = "STOP"
		case EvtTimeout:
			name = "TIMEOUT!"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[EVENT] " + name +
			" seq=" + utoa(evt.Seq) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range eventRing {
		eventRing[i] = ControlEvent{}
	}
	eventRingHead = 0
	eventSeq = 0
}
