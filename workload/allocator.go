package workload

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"unsafe"
)

var (
	// ErrAllocation reports that an aligned buffer could not be obtained.
	ErrAllocation = errors.New("aligned allocation failed")

	// ErrUnknownBuffer reports a Release of a buffer the allocator does not
	// own, including a second Release of the same buffer.
	ErrUnknownBuffer = errors.New("buffer not owned by allocator")
)

// Allocator hands out byte buffers whose first byte sits at an address that
// is a multiple of the requested alignment.
type Allocator interface {
	// Allocate returns exactly size bytes aligned to align. align must be a
	// power of two.
	Allocate(size, align int) ([]byte, error)

	// Release returns a buffer obtained from Allocate. Each buffer must be
	// released exactly once.
	Release(buf []byte) error
}

// HeapAllocator carves aligned buffers out of over-sized Go heap slices. The
// Go collector does not move heap objects, so the alignment holds for the
// lifetime of the buffer. It is not safe for concurrent use.
type HeapAllocator struct {
	live map[uintptr]struct{}
}

// NewHeapAllocator creates a HeapAllocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{live: make(map[uintptr]struct{})}
}

// Allocate returns an aligned slice of a fresh heap allocation.
func (a *HeapAllocator) Allocate(size, align int) ([]byte, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}

	raw := make([]byte, size+align)
	off := alignOffset(addressOf(raw), align)
	buf := raw[off : off+size : off+size]

	a.live[addressOf(buf)] = struct{}{}

	return buf, nil
}

// Release forgets the buffer so the collector can reclaim it.
func (a *HeapAllocator) Release(buf []byte) error {
	addr := addressOf(buf)
	if _, ok := a.live[addr]; !ok {
		return fmt.Errorf("%w: %#x", ErrUnknownBuffer, addr)
	}

	delete(a.live, addr)

	return nil
}

func checkRequest(size, align int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be > 0, got %d", ErrAllocation, size)
	}
	if align <= 0 || bits.OnesCount(uint(align)) != 1 {
		return fmt.Errorf("%w: alignment must be a power of two, got %d",
			ErrAllocation, align)
	}
	if size > math.MaxInt-align {
		return fmt.Errorf("%w: %d bytes aligned to %d exceeds the address space",
			ErrAllocation, size, align)
	}

	return nil
}

// alignOffset returns how far past addr the next multiple of align lies.
func alignOffset(addr uintptr, align int) int {
	mask := uintptr(align - 1)
	return int((uintptr(align) - addr&mask) & mask)
}

func addressOf(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}

// AddressOf returns the address of the first byte of buf.
func AddressOf(buf []byte) uintptr {
	return addressOf(buf)
}
