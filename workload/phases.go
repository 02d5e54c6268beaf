package workload

// WarmUp writes every byte of buf once, setting buf[i] to the low byte of i.
// It faults in every page before the region of interest starts.
func WarmUp(buf []byte) {
	for i := range buf {
		buf[i] = byte(i)
	}
}

// Prime performs one read-modify-write at the first byte of every whole line,
// in increasing address order. The write leaves each line modified (dirty) in
// the cache rather than merely present. A partial trailing line is skipped.
func Prime(buf []byte, lineSize int) {
	lines := len(buf) / lineSize
	for line := 0; line < lines; line++ {
		buf[line*lineSize]++
	}
}

// Verify reads the first byte of every whole line, in the same order as Prime,
// and returns their sum. It performs no writes.
func Verify(buf []byte, lineSize int) uint64 {
	var checksum uint64
	lines := len(buf) / lineSize
	for line := 0; line < lines; line++ {
		checksum += uint64(buf[line*lineSize])
	}

	return checksum
}

// Repeat runs Prime then Verify rounds times and returns the checksum of each
// round.
func Repeat(buf []byte, lineSize, rounds int) []uint64 {
	sums := make([]uint64, 0, rounds)
	for r := 0; r < rounds; r++ {
		Prime(buf, lineSize)
		sums = append(sums, Verify(buf, lineSize))
	}

	return sums
}
