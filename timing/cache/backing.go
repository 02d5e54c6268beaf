package cache

// SliceBacking exposes a byte slice as memory starting at Base. Accesses
// outside the slice read as zero and are dropped on write.
type SliceBacking struct {
	Base uint64
	Data []byte
}

// NewSliceBacking creates a SliceBacking over data mapped at base.
func NewSliceBacking(base uint64, data []byte) *SliceBacking {
	return &SliceBacking{Base: base, Data: data}
}

// Read fetches size bytes at addr.
func (m *SliceBacking) Read(addr uint64, size int) []byte {
	out := make([]byte, size)
	for i := range out {
		if idx, ok := m.index(addr + uint64(i)); ok {
			out[i] = m.Data[idx]
		}
	}
	return out
}

// Write stores data at addr.
func (m *SliceBacking) Write(addr uint64, data []byte) {
	for i, b := range data {
		if idx, ok := m.index(addr + uint64(i)); ok {
			m.Data[idx] = b
		}
	}
}

func (m *SliceBacking) index(addr uint64) (int, bool) {
	if addr < m.Base || addr-m.Base >= uint64(len(m.Data)) {
		return 0, false
	}
	return int(addr - m.Base), true
}
