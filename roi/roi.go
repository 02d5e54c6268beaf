// Package roi emits the simulator pseudo-instructions that bound a region of
// interest.
//
// The host simulator (gem5) recognizes two magic instructions: one resets its
// statistics counters, the other dumps them. Everything executed between
// Start and End is what the dumped statistics describe. On real hardware, and
// on architectures this package has no encoding for, the markers do nothing.
package roi

// Marker brackets a region of interest.
//
// Start resets the simulator statistics; End dumps them. Implementations take
// no inputs and return nothing. The native implementation is a call into
// assembly, which the Go compiler never inlines and never moves loads or
// stores across, so memory traffic stays on the side of the marker it was
// written on.
type Marker interface {
	Start()
	End()
}

type nativeMarker struct{}

func (nativeMarker) Start() { resetStats() }
func (nativeMarker) End()   { dumpStats() }

// Native returns the marker for the architecture this binary was built for.
// On unsupported architectures the returned marker is a no-op.
func Native() Marker {
	return nativeMarker{}
}

// Supported reports whether Native emits real instructions on this build.
func Supported() bool {
	return nativeSupported
}

// Nop is a marker that emits nothing.
type Nop struct{}

// Start does nothing.
func (Nop) Start() {}

// End does nothing.
func (Nop) End() {}
