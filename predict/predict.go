// Package predict replays the workload's access pattern through the
// reference cache model and reports what the simulator is expected to count
// between the region-of-interest markers.
package predict

import (
	"fmt"
	"math"

	"github.com/sarchlab/cacheprime/geometry"
	"github.com/sarchlab/cacheprime/timing/cache"
)

// Report holds the predicted statistics of one workload run.
type Report struct {
	Geometry geometry.Config `json:"geometry"`
	BaseAddr uint64          `json:"base_addr"`
	Cold     bool            `json:"cold"`

	// WarmUp is counted before the reset marker and is not part of the ROI.
	WarmUp cache.Statistics `json:"warm_up"`
	Prime  cache.Statistics `json:"prime"`
	Verify cache.Statistics `json:"verify"`
	// ROI is Prime + Verify, what the dump marker reports.
	ROI cache.Statistics `json:"roi"`

	// DirtyLines is the number of buffer lines left modified by the prime
	// pass.
	DirtyLines int `json:"dirty_lines"`

	Checksum uint64 `json:"checksum"`
	Sink     byte   `json:"sink"`
}

// Primed reports whether the verify pass is expected to miss nowhere.
func (r Report) Primed() bool {
	return r.Verify.Misses == 0
}

type options struct {
	baseAddr    uint64
	hasBase     bool
	hitLatency  uint64
	missLatency uint64
	cold        bool
}

// Option configures a prediction.
type Option func(*options)

// WithBaseAddr places the buffer at addr instead of at an address equal to
// the cache size.
func WithBaseAddr(addr uint64) Option {
	return func(o *options) {
		o.baseAddr = addr
		o.hasBase = true
	}
}

// WithLatencies overrides the model's hit and miss latencies.
func WithLatencies(hit, miss uint64) Option {
	return func(o *options) {
		o.hitLatency = hit
		o.missLatency = miss
	}
}

// WithColdCache fills memory during warm-up without going through the cache,
// as if the cache had been flushed before the region of interest.
func WithColdCache() Option {
	return func(o *options) {
		o.cold = true
	}
}

// Run predicts the statistics for a workload run on geom.
func Run(geom geometry.Config, opts ...Option) (Report, error) {
	if err := geom.Validate(); err != nil {
		return Report{}, err
	}

	o := options{
		hitLatency:  cache.DefaultHitLatency,
		missLatency: cache.DefaultMissLatency,
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := uint64(geom.Size)
	if o.hasBase {
		base = o.baseAddr
	}
	if base%uint64(geom.LineSize) != 0 {
		return Report{}, fmt.Errorf("base address %#x is not line aligned", base)
	}
	if base > math.MaxUint64-uint64(geom.Size) {
		return Report{}, fmt.Errorf(
			"buffer at base address %#x wraps past the end of the address space", base)
	}

	config := cache.ConfigFor(geom)
	config.HitLatency = o.hitLatency
	config.MissLatency = o.missLatency

	memory := make([]byte, geom.Size)
	c := cache.New(config, cache.NewSliceBacking(base, memory))

	r := Report{Geometry: geom, BaseAddr: base, Cold: o.cold}
	stride := uint64(geom.LineSize)
	end := base + uint64(geom.Size)

	for i := range memory {
		if o.cold {
			memory[i] = byte(i)
			continue
		}
		c.Write(base+uint64(i), 1, uint64(byte(i)))
	}
	r.WarmUp = c.Stats()

	c.ResetStats()
	for addr := base; addr < end; addr += stride {
		v := c.Read(addr, 1).Data
		c.Write(addr, 1, uint64(byte(v+1)))
	}
	r.Prime = c.Stats()

	for addr := base; addr < end; addr += stride {
		if c.IsDirty(addr) {
			r.DirtyLines++
		}
	}

	c.ResetStats()
	for addr := base; addr < end; addr += stride {
		r.Checksum += c.Read(addr, 1).Data
	}
	r.Verify = c.Stats()

	r.ROI = r.Prime.Add(r.Verify)
	r.Sink = byte(r.Checksum)

	return r, nil
}
