package serial

import (
	"fmt"
	"io"
)

// Port represents a serial port interface
// Native serial uses github.com/tarm/serial; tests substitute in-memory pipes.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate, must match the firmware USART setting
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud is the debug console rate of the fan controller (4800 8N1)
const DefaultBaud = 4800

// DefaultConfig returns the debug console configuration
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 0, // block until the next console line
	}
}

// Validate checks the configuration before opening
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("serial device not set")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("invalid read timeout %dms", c.ReadTimeout)
	}
	return nil
}
