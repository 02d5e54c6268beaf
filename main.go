// Package main provides the entry point for cacheprime.
// cacheprime is a cache-priming workload for architectural simulators that
// understand gem5 pseudo-instructions.
//
// For the workload itself, use: go run ./cmd/cacheprime
// For the expected statistics, use: go run ./cmd/primeplan
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cacheprime - cache priming workload")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  cmd/cacheprime  Prime and verify the cache inside a simulator ROI")
	fmt.Println("  cmd/primeplan   Predict the ROI statistics for a cache geometry")
	fmt.Println("")
	fmt.Println("Geometry flags (both commands): -size, -line-size, -assoc, -config")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cacheprime' instead.")
	}
}
