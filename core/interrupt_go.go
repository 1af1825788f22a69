//go:build !tinygo

package core

// interruptState stands in for runtime/interrupt.State on the host
type interruptState uintptr

// disableInterrupts is a no-op on the host; tests run the loop on one goroutine
func disableInterrupts() interruptState {
	return 0
}

func restoreInterrupts(state interruptState) {}
