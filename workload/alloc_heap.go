//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package workload

// DefaultAllocator returns the allocator the workload binary uses.
func DefaultAllocator() Allocator {
	return NewHeapAllocator()
}
