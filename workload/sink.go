package workload

import "sync/atomic"

// sink holds the low byte of the last checksum. Atomic stores are never
// eliminated, which keeps the verify reads alive.
var sink atomic.Uint32

func storeSink(checksum uint64) byte {
	b := byte(checksum)
	sink.Store(uint32(b))

	return b
}

// Sink returns the byte the last run stored.
func Sink() byte {
	return byte(sink.Load())
}
