//go:build amd64 || 386 || arm64 || arm

package roi

const nativeSupported = true

// resetStats executes the m5 reset-stats pseudo-instruction.
func resetStats()

// dumpStats executes the m5 dump-stats pseudo-instruction.
func dumpStats()
