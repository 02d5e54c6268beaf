// Package workload primes a cache and verifies the priming inside a region of
// interest.
//
// A run walks five states in a fixed order: allocate a buffer the size of the
// cache and aligned to that size, warm it up outside the region of interest,
// prime every line, verify every line, then end the region and release the
// buffer. The driver never measures anything itself; the simulator observes
// the access pattern between the markers.
package workload

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/sarchlab/cacheprime/geometry"
	"github.com/sarchlab/cacheprime/roi"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitAllocFailure = 1
)

// Result describes a completed run.
type Result struct {
	// LineCount is the number of lines primed and verified.
	LineCount int

	// Checksum is the sum of the first byte of every line after priming.
	Checksum uint64

	// Sink is the low byte of Checksum, as stored in the sink.
	Sink byte

	// BufferAddr is the address the buffer started at.
	BufferAddr uintptr
}

// Driver runs the workload for one geometry.
type Driver struct {
	geom      geometry.Config
	marker    roi.Marker
	allocator Allocator
}

// Option configures a Driver.
type Option func(*Driver)

// WithMarker sets the region-of-interest marker. The default is roi.Native().
func WithMarker(m roi.Marker) Option {
	return func(d *Driver) {
		d.marker = m
	}
}

// WithAllocator sets the buffer allocator. The default is DefaultAllocator().
func WithAllocator(a Allocator) Option {
	return func(d *Driver) {
		d.allocator = a
	}
}

// NewDriver creates a Driver. The geometry is used as given; validate it
// before calling.
func NewDriver(geom geometry.Config, opts ...Option) *Driver {
	d := &Driver{
		geom:   geom,
		marker: roi.Native(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.allocator == nil {
		d.allocator = DefaultAllocator()
	}

	return d
}

// Geometry returns the geometry the driver runs with.
func (d *Driver) Geometry() geometry.Config {
	return d.geom
}

// Run executes allocate, warm-up, prime, verify and teardown. If allocation
// fails nothing else happens: no marker is emitted and the returned error
// wraps ErrAllocation. A failure to release the buffer is returned together
// with the completed Result.
func (d *Driver) Run() (Result, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	buf, err := d.allocator.Allocate(d.geom.Size, d.geom.Size)
	if err != nil {
		if !errors.Is(err, ErrAllocation) {
			err = fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		return Result{}, err
	}

	// No collection may run between the markers.
	gcPercent := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	WarmUp(buf)

	d.marker.Start()
	Prime(buf, d.geom.LineSize)
	checksum := Verify(buf, d.geom.LineSize)
	low := storeSink(checksum)
	d.marker.End()

	res := Result{
		LineCount:  d.geom.LineCount(),
		Checksum:   checksum,
		Sink:       low,
		BufferAddr: addressOf(buf),
	}

	if err := d.allocator.Release(buf); err != nil {
		return res, fmt.Errorf("release: %w", err)
	}

	return res, nil
}

// Main runs the driver the way the workload binary does and returns the
// process exit code. It writes nothing on success and one line on failure.
func Main(stderr io.Writer, geom geometry.Config, opts ...Option) int {
	_, err := NewDriver(geom, opts...).Run()
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "cacheprime: %v\n", err)

	if errors.Is(err, ErrAllocation) {
		return ExitAllocFailure
	}

	return ExitOK
}
