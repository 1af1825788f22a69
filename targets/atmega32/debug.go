//go:build avr && atmega32

package main

import (
	"device/avr"
	"time"

	"thermofan/core"
)

// USART settings for the debug console: 4800 baud 8N1 at 1 MHz
const (
	DebugBaudRate = 4800
	ubrrValue     = core.CPUFrequency/(16*DebugBaudRate) - 1

	ucsraUDRE = 1 << 5
	ucsrbTXEN = 1 << 3
)

// InitDebugUART enables the USART transmitter on PD1 (TXD).
// The reset value of UCSRC already selects 8N1.
func InitDebugUART() {
	avr.UBRRL.Set(uint8(ubrrValue))
	avr.UCSRB.SetBits(ucsrbTXEN)
}

// DebugPrint writes a string to the debug UART (no newline)
func DebugPrint(s string) {
	for i := 0; i < len(s); i++ {
		writeByte(s[i])
	}
}

// DebugPrintln writes a string to the debug UART with newline
func DebugPrintln(s string) {
	DebugPrint(s)
	writeByte('\r')
	writeByte('\n')
}

func writeByte(b byte) {
	for !avr.UCSRA.HasBits(ucsraUDRE) {
	}
	avr.UDR.Set(b)
}

// spinDelay busy-waits for roughly d. Timer0 belongs to the fan PWM.
func spinDelay(d time.Duration) {
	// about four cycles per iteration at 1 MHz
	n := uint32(d/time.Microsecond) / 4
	for i := uint32(0); i < n; i++ {
		avr.Asm("nop")
	}
}
