package mcu

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"thermofan/host/serial"
)

// MCU is a read-only connection to the fan controller debug console
type MCU struct {
	port serial.Port

	mu       sync.Mutex
	last     Status
	hasLast  bool
	events   []Event
	fatal    string
	lines    uint64
	badLines uint64

	// Connection state
	connected bool
}

// NewMCU creates a new MCU instance (not yet connected)
func NewMCU() *MCU {
	return &MCU{}
}

// Connect opens the console with the default serial settings
func (m *MCU) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the console with a custom serial config
func (m *MCU) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	m.Attach(port)
	return nil
}

// Attach uses an already opened port
func (m *MCU) Attach(port serial.Port) {
	m.port = port
	m.connected = true
}

// Close closes the connection to the MCU
func (m *MCU) Close() error {
	m.connected = false
	if m.port != nil {
		return m.port.Close()
	}
	return nil
}

// IsConnected returns whether the MCU is connected
func (m *MCU) IsConnected() bool {
	return m.connected
}

// Monitor reads console lines until the port is closed or returns an error,
// recording every parsed line and passing it to fn (which may be nil).
// io.EOF ends the monitor without error.
func (m *MCU) Monitor(fn func(Record)) error {
	if !m.connected {
		return fmt.Errorf("not connected to MCU")
	}
	return m.Consume(m.port, fn)
}

// Consume parses lines from r; Monitor uses it on the serial port
func (m *MCU) Consume(r io.Reader, fn func(Record)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rec, err := ParseLine(scanner.Text())
		m.record(rec, err)
		if fn != nil {
			fn(rec)
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("reading console: %w", err)
	}
	return nil
}

func (m *MCU) record(rec Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines++
	if err != nil {
		m.badLines++
		return
	}
	switch rec.Kind {
	case KindStatus:
		m.last, m.hasLast = rec.Status, true
	case KindEvent:
		m.events = append(m.events, rec.Event)
	case KindFatal:
		m.fatal = rec.Line
	}
}

// LastStatus returns the most recent status line, if any
func (m *MCU) LastStatus() (Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.hasLast
}

// Events returns the event ring entries dumped so far
func (m *MCU) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Fatal returns the fatal line reported by the firmware, or ""
func (m *MCU) Fatal() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fatal
}

// PrintSummary prints counters, the last status and any dumped events
func (m *MCU) PrintSummary(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fmt.Fprintln(w, "\n=== Fan Controller ===")
	fmt.Fprintf(w, "Lines: %d (%d malformed)\n", m.lines, m.badLines)
	if m.hasLast {
		state := "OFF"
		if m.last.On {
			state = "ON"
		}
		fmt.Fprintf(w, "Temperature: %d C (raw %d)\n", m.last.Temperature, m.last.Raw)
		fmt.Fprintf(w, "Fan: %s at %d%%\n", state, m.last.Duty)
	} else {
		fmt.Fprintln(w, "No status received")
	}
	if m.fatal != "" {
		fmt.Fprintf(w, "Fatal: %s\n", m.fatal)
	}
	if len(m.events) > 0 {
		fmt.Fprintf(w, "\nEvents (%d):\n", len(m.events))
		for _, e := range m.events {
			fmt.Fprintf(w, "  [%d] %s %d %d\n", e.Seq, e.Name, e.Value1, e.Value2)
		}
	}
	fmt.Fprintln(w, "======================")
}
