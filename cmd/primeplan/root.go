package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cacheprime/geometry"
	"github.com/sarchlab/cacheprime/predict"
	"github.com/sarchlab/cacheprime/timing/cache"
)

type planFlags struct {
	configPath  string
	envPath     string
	size        int
	lineSize    int
	assoc       int
	base        uint64
	cold        bool
	asJSON      bool
	hitLatency  uint64
	missLatency uint64
}

func newRootCmd() *cobra.Command {
	f := &planFlags{}

	cmd := &cobra.Command{
		Use:   "primeplan",
		Short: "Predict region-of-interest statistics for cacheprime",
		Long: "primeplan replays the cacheprime access pattern through a " +
			"set-associative cache model and prints the hits and misses the " +
			"simulator is expected to count between the reset and dump markers.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "path to a geometry JSON file")
	flags.StringVar(&f.envPath, "env", ".env", "dotenv file with CACHEPRIME_* overrides")
	flags.IntVar(&f.size, "size", 0, "cache size in bytes")
	flags.IntVar(&f.lineSize, "line-size", 0, "cache line size in bytes")
	flags.IntVar(&f.assoc, "assoc", 0, "cache associativity")
	flags.Uint64Var(&f.base, "base", 0, "buffer base address (default: the cache size)")
	flags.BoolVar(&f.cold, "cold", false, "assume the cache is empty when the region starts")
	flags.BoolVar(&f.asJSON, "json", false, "print the report as JSON")
	flags.Uint64Var(&f.hitLatency, "hit-latency", cache.DefaultHitLatency, "hit latency in cycles")
	flags.Uint64Var(&f.missLatency, "miss-latency", cache.DefaultMissLatency, "miss latency in cycles")

	return cmd
}

func runPlan(cmd *cobra.Command, f *planFlags) error {
	if err := geometry.LoadEnvFile(f.envPath); err != nil {
		return err
	}

	geom, err := geometry.Resolve(f.configPath)
	if err != nil {
		return err
	}

	if f.size != 0 {
		geom.Size = f.size
	}
	if f.lineSize != 0 {
		geom.LineSize = f.lineSize
	}
	if f.assoc != 0 {
		geom.Associativity = f.assoc
	}

	opts := []predict.Option{predict.WithLatencies(f.hitLatency, f.missLatency)}
	if cmd.Flags().Changed("base") {
		opts = append(opts, predict.WithBaseAddr(f.base))
	}
	if f.cold {
		opts = append(opts, predict.WithColdCache())
	}

	report, err := predict.Run(geom, opts...)
	if err != nil {
		return err
	}

	if f.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(cmd.OutOrStdout(), report)

	return nil
}

func printReport(out io.Writer, r predict.Report) {
	fmt.Fprintf(out, "Geometry: %s\n", r.Geometry)
	fmt.Fprintf(out, "Buffer:   %#x..%#x\n", r.BaseAddr, r.BaseAddr+uint64(r.Geometry.Size))
	fmt.Fprintf(out, "\n")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Phase\tReads\tWrites\tHits\tMisses\tWritebacks\tCycles\t\n")
	row := func(name string, s cache.Statistics) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			name, s.Reads, s.Writes, s.Hits, s.Misses, s.Writebacks, s.Cycles)
	}
	row("warm-up", r.WarmUp)
	row("prime", r.Prime)
	row("verify", r.Verify)
	row("roi", r.ROI)
	w.Flush()

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Dirty lines after prime: %d/%d\n", r.DirtyLines, r.Geometry.LineCount())
	fmt.Fprintf(out, "Checksum: %d (sink %#02x)\n", r.Checksum, r.Sink)
	if r.Primed() {
		fmt.Fprintf(out, "Verify pass: primed, no misses expected\n")
	} else {
		fmt.Fprintf(out, "Verify pass: %d misses expected\n", r.Verify.Misses)
	}
}
