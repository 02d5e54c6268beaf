// Command cacheprime primes a cache inside a simulator region of interest.
//
// It fills a buffer the size of the cache, resets the simulator statistics,
// touches every cache line with a read-modify-write, reads every line back,
// and dumps the statistics. Under a correctly sized cache the read-back pass
// misses nowhere.
//
// Usage:
//
//	cacheprime [flags]
//
// Flags:
//
//	-config     Path to a geometry JSON file
//	-env        Path to a dotenv file with CACHEPRIME_* overrides (default .env)
//	-size       Cache size in bytes
//	-line-size  Cache line size in bytes
//	-assoc      Cache associativity
//	-roi        Emit the region-of-interest pseudo-instructions (default true)
//
// Example (gem5 SE mode):
//
//	build/X86/gem5.opt configs/example/se.py --cpu-type=TimingSimpleCPU \
//	    --caches --l1d_size=16kB --l1d_assoc=4 --cacheline_size=64 \
//	    -c cacheprime
//
// The pseudo-instructions are only meaningful inside the simulator. Pass
// -roi=false to run the same access pattern on real hardware.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/cacheprime/geometry"
	"github.com/sarchlab/cacheprime/roi"
	"github.com/sarchlab/cacheprime/workload"
)

// exitConfig is returned when the geometry cannot be resolved or is invalid.
// No buffer is allocated in that case.
const exitConfig = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("cacheprime", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to a geometry JSON file")
	envPath := fs.String("env", ".env", "Path to a dotenv file with CACHEPRIME_* overrides")
	size := fs.Int("size", 0, "Cache size in bytes")
	lineSize := fs.Int("line-size", 0, "Cache line size in bytes")
	assoc := fs.Int("assoc", 0, "Cache associativity")
	withROI := fs.Bool("roi", true, "Emit the region-of-interest pseudo-instructions")

	if err := fs.Parse(args); err != nil {
		return exitConfig
	}

	if err := geometry.LoadEnvFile(*envPath); err != nil {
		fmt.Fprintf(stderr, "cacheprime: %v\n", err)
		return exitConfig
	}

	geom, err := geometry.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "cacheprime: %v\n", err)
		return exitConfig
	}

	if *size != 0 {
		geom.Size = *size
	}
	if *lineSize != 0 {
		geom.LineSize = *lineSize
	}
	if *assoc != 0 {
		geom.Associativity = *assoc
	}

	if err := geom.Validate(); err != nil {
		fmt.Fprintf(stderr, "cacheprime: %v\n", err)
		return exitConfig
	}

	var marker roi.Marker = roi.Nop{}
	if *withROI {
		marker = roi.Native()
	}

	return workload.Main(stderr, geom, workload.WithMarker(marker))
}
