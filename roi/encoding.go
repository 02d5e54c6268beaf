package roi

// m5 pseudo-op function codes.
const (
	OpResetStats uint16 = 0x40
	OpDumpStats  uint16 = 0x41
)

// Sequence is the machine code a marker executes, in memory byte order.
type Sequence struct {
	Reset []byte
	Dump  []byte
}

// x86 (both widths): 0F 04 <func16 little-endian>.
var x86Sequence = Sequence{
	Reset: []byte{0x0f, 0x04, byte(OpResetStats), 0x00},
	Dump:  []byte{0x0f, 0x04, byte(OpDumpStats), 0x00},
}

// encodings holds the sequences assembled into roi_<arch>.s. The ARM forms
// are preceded by two register-zeroing moves.
var encodings = map[string]Sequence{
	"amd64": x86Sequence,
	"386":   x86Sequence,
	"arm64": {
		Reset: concat(
			le32(0xd2800000), // mov x0, #0
			le32(0xd2800001), // mov x1, #0
			le32(0xff000110),
		),
		Dump: concat(
			le32(0xd2800000),
			le32(0xd2800001),
			le32(0xff000111),
		),
	},
	"arm": {
		Reset: concat(
			le32(0xe3a00000), // mov r0, #0
			le32(0xe3a01000), // mov r1, #0
			le32(0xee900110),
		),
		Dump: concat(
			le32(0xe3a00000),
			le32(0xe3a01000),
			le32(0xee900111),
		),
	},
}

// Encoding returns the marker instruction bytes used for the given GOARCH.
// The second result is false for architectures that get the no-op marker.
func Encoding(goarch string) (Sequence, bool) {
	seq, ok := encodings[goarch]
	if !ok {
		return Sequence{}, false
	}

	return Sequence{
		Reset: append([]byte(nil), seq.Reset...),
		Dump:  append([]byte(nil), seq.Dump...),
	}, true
}

// Architectures lists the GOARCH values with a native marker.
func Architectures() []string {
	return []string{"386", "amd64", "arm", "arm64"}
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
