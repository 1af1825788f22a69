package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"thermofan/core"
	"thermofan/host/scenario"
)

var (
	scenarioFile = flag.String("scenario", "", "YAML scenario file (default: built-in heat-up run)")
	steps        = flag.Int("steps", 0, "Override the number of loop iterations")
	trace        = flag.Bool("trace", false, "Print the display after every iteration")
	debug        = flag.Bool("debug", false, "Print firmware debug output")
)

func main() {
	flag.Parse()

	s, err := scenario.Load(*scenarioFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *steps > 0 {
		s.Steps = *steps
	}

	core.SetDebugWriter(func(msg string) { fmt.Println(msg) })
	core.SetDebugEnabled(*debug || s.Debug)

	r, err := scenario.NewRunner(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Scenario %q: %d steps of %v\n", s.Name, s.Steps, s.Interval)

	var last scenario.Result
	err = r.Run(ctx, func(res scenario.Result) {
		last = res
		if *trace {
			printResult(res)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if stopErr := r.Shutdown(); stopErr != nil {
			fmt.Fprintf(os.Stderr, "Error: motor stop: %v\n", stopErr)
		}
		core.DumpEventRing()
		os.Exit(1)
	}

	if !*trace && last.Step > 0 {
		printResult(last)
	}
}

func printResult(res scenario.Result) {
	st := res.Status
	fmt.Printf("step %4d  plant %6.2f C  reading %3d C  fan %-3s %3d%%\n",
		res.Step, res.PlantTemp, st.Temperature, st.State, st.Duty)
	fmt.Println("  +----------------+")
	for _, row := range res.Rows {
		fmt.Printf("  |%s|\n", printable(row))
	}
	fmt.Println("  +----------------+")
}

// printable replaces CGRAM slot codes with '?'
func printable(row string) string {
	b := []byte(row)
	for i, c := range b {
		if c < ' ' || c > '~' {
			b[i] = '?'
		}
	}
	return string(b)
}
