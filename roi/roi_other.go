//go:build !amd64 && !386 && !arm64 && !arm

package roi

const nativeSupported = false

func resetStats() {}

func dumpStats() {}
