package roi_test

import (
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cacheprime/roi"
)

var _ = Describe("Encoding", func() {
	It("should use 0F 04 plus the function code on x86", func() {
		for _, arch := range []string{"amd64", "386"} {
			seq, ok := roi.Encoding(arch)
			Expect(ok).To(BeTrue())
			Expect(seq.Reset).To(Equal([]byte{0x0f, 0x04, 0x40, 0x00}))
			Expect(seq.Dump).To(Equal([]byte{0x0f, 0x04, 0x41, 0x00}))
		}
	})

	It("should zero X0 and X1 before the arm64 pseudo-op", func() {
		seq, ok := roi.Encoding("arm64")
		Expect(ok).To(BeTrue())
		Expect(seq.Reset).To(HaveLen(12))
		Expect(seq.Reset[:8]).To(Equal([]byte{
			0x00, 0x00, 0x80, 0xd2,
			0x01, 0x00, 0x80, 0xd2,
		}))
		Expect(seq.Reset[8:]).To(Equal([]byte{0x10, 0x01, 0x00, 0xff}))
		Expect(seq.Dump[8:]).To(Equal([]byte{0x11, 0x01, 0x00, 0xff}))
	})

	It("should end the arm sequences with the coprocessor word", func() {
		seq, ok := roi.Encoding("arm")
		Expect(ok).To(BeTrue())
		Expect(seq.Reset[8:]).To(Equal([]byte{0x10, 0x01, 0x90, 0xee}))
		Expect(seq.Dump[8:]).To(Equal([]byte{0x11, 0x01, 0x90, 0xee}))
	})

	It("should differ between reset and dump only in the function code", func() {
		for _, arch := range roi.Architectures() {
			seq, _ := roi.Encoding(arch)
			Expect(seq.Reset).To(HaveLen(len(seq.Dump)))

			diff := 0
			for i := range seq.Reset {
				if seq.Reset[i] != seq.Dump[i] {
					diff++
					Expect(seq.Dump[i] - seq.Reset[i]).To(Equal(byte(1)))
				}
			}
			Expect(diff).To(Equal(1), arch)
		}
	})

	It("should report no encoding for other architectures", func() {
		_, ok := roi.Encoding("riscv64")
		Expect(ok).To(BeFalse())
		_, ok = roi.Encoding("wasm")
		Expect(ok).To(BeFalse())
	})

	It("should return copies", func() {
		seq, _ := roi.Encoding("amd64")
		seq.Reset[0] = 0x90

		again, _ := roi.Encoding("amd64")
		Expect(again.Reset[0]).To(Equal(byte(0x0f)))
	})

	It("should agree with the build target", func() {
		_, ok := roi.Encoding(runtime.GOARCH)
		Expect(roi.Supported()).To(Equal(ok))
	})
})

var _ = Describe("Markers", func() {
	It("should record calls in order and forward them", func() {
		inner := roi.NewRecorder(nil)
		outer := roi.NewRecorder(inner)

		outer.Start()
		outer.End()

		Expect(outer.Events).To(Equal([]roi.Event{roi.EventStart, roi.EventEnd}))
		Expect(inner.Events).To(Equal(outer.Events))
		Expect(outer.Events[0].String()).To(Equal("start"))
		Expect(outer.Events[1].String()).To(Equal("end"))
	})

	It("should leave memory alone with the no-op marker", func() {
		buf := []byte{1, 2, 3}
		var m roi.Marker = roi.Nop{}

		m.Start()
		m.End()

		Expect(buf).To(Equal([]byte{1, 2, 3}))
	})

	It("should degrade to a no-op natively on unsupported targets", func() {
		if roi.Supported() {
			Skip("native markers trap outside the simulator")
		}

		m := roi.Native()
		Expect(func() {
			m.Start()
			m.End()
		}).NotTo(Panic())
	})
})
