package synthload

import (
	"os"
)

// ShowHelp prints usage information for the synthetic race tool.
func ShowHelp() {
	os.Stdout.WriteString(`Crossover Synthetic Race Tool
=============================

Generates a two-wave race with guaranteed convergence, runs the full
analysis pipeline over it, and cross-checks every segment against an
independent brute-force reference.

Usage:
  go run cmd/synth-race/main.go [options]

Options:
  -runners int
        Runners per event (default 200)
  -segments int
        Segment pairs to generate (default 4)
  -seed int
        Generator seed (default 42)
  -workers int
        Number of analysis workers (default CPU cores)
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Verify with default settings
  go run cmd/synth-race/main.go

  # Heavier load, fixed seed
  go run cmd/synth-race/main.go -runners 2000 -segments 10 -seed 7
`)
}
