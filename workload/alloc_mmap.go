//go:build linux || darwin || freebsd || netbsd || openbsd

package workload

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapAllocator maps anonymous private memory for each buffer. It maps
// size+align bytes and hands out the aligned window inside the mapping; the
// whole mapping is unmapped on Release. It is not safe for concurrent use.
type MmapAllocator struct {
	mappings map[uintptr][]byte
}

// NewMmapAllocator creates a MmapAllocator.
func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{mappings: make(map[uintptr][]byte)}
}

// DefaultAllocator returns the allocator the workload binary uses.
func DefaultAllocator() Allocator {
	return NewMmapAllocator()
}

// Allocate maps a fresh region and returns its aligned window.
func (a *MmapAllocator) Allocate(size, align int) ([]byte, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}

	span := size + align
	region, err := unix.Mmap(-1, 0, span,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap of %d bytes: %v", ErrAllocation, span, err)
	}

	off := alignOffset(addressOf(region), align)
	buf := region[off : off+size : off+size]
	a.mappings[addressOf(buf)] = region

	return buf, nil
}

// Release unmaps the region backing buf.
func (a *MmapAllocator) Release(buf []byte) error {
	addr := addressOf(buf)
	region, ok := a.mappings[addr]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrUnknownBuffer, addr)
	}

	delete(a.mappings, addr)

	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("munmap at %#x: %w", addr, err)
	}

	return nil
}
