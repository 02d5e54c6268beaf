// Command primeplan predicts the statistics the simulator should report for
// a cacheprime run on a given cache geometry.
//
// Example:
//
//	primeplan --size 16384 --line-size 64 --assoc 4
//	primeplan --config geom.json --cold --json
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
