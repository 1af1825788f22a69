package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"thermofan/host/mcu"
	"thermofan/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", serial.DefaultBaud, "Baud rate of the firmware debug UART")
	timeout = flag.Int("timeout", 0, "Read timeout in milliseconds (0 = blocking)")
	verbose = flag.Bool("verbose", false, "Print every console line, not just status changes")
)

func main() {
	flag.Parse()

	fmt.Println("Fan Console - ATmega32 fan controller monitor")
	fmt.Println("=============================================")

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.ReadTimeout = *timeout

	mcuConn := mcu.NewMCU()

	fmt.Printf("Connecting to %s at %d baud...\n", cfg.Device, cfg.Baud)
	if err := mcuConn.ConnectWithConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}

	// Ctrl-C closes the port, which ends Monitor
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		mcuConn.Close()
	}()

	var prev mcu.Status
	err := mcuConn.Monitor(func(r mcu.Record) {
		switch r.Kind {
		case mcu.KindStatus:
			if *verbose || r.Status != prev {
				printStatus(r.Status)
			}
			prev = r.Status
		case mcu.KindFatal, mcu.KindEvent:
			fmt.Println(r.Line)
		default:
			if *verbose {
				fmt.Println(r.Line)
			}
		}
	})

	mcuConn.PrintSummary(os.Stdout)
	if err != nil && mcuConn.IsConnected() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printStatus(s mcu.Status) {
	state := "OFF"
	if s.On {
		state = "ON"
	}
	fmt.Printf("TEMP = %3d C  FAN IS %-3s  duty %3d%%  raw %4d\n", s.Temperature, state, s.Duty, s.Raw)
}
