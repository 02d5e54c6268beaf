package cache_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cacheprime/geometry"
	"github.com/sarchlab/cacheprime/timing/cache"
)

var _ = Describe("Cache", func() {
	var (
		c       *cache.Cache
		memory  []byte
		backing *cache.SliceBacking
	)

	read64 := func(addr uint64) uint64 {
		return binary.LittleEndian.Uint64(memory[addr:])
	}
	write64 := func(addr, v uint64) {
		binary.LittleEndian.PutUint64(memory[addr:], v)
	}

	BeforeEach(func() {
		memory = make([]byte, 64*1024)
		backing = cache.NewSliceBacking(0, memory)
		// Small cache for testing: 4KB, 4-way, 64B lines
		config := cache.Config{
			Size:          4 * 1024,
			Associativity: 4,
			BlockSize:     64,
			HitLatency:    1,
			MissLatency:   10,
		}
		c = cache.New(config, backing)
	})

	Describe("Read operations", func() {
		It("should miss on cold cache", func() {
			write64(0x1000, 0xDEADBEEF)

			result := c.Read(0x1000, 8)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Latency).To(Equal(uint64(10)))
			Expect(result.Data).To(Equal(uint64(0xDEADBEEF)))

			stats := c.Stats()
			Expect(stats.Reads).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(0)))
			Expect(stats.Cycles).To(Equal(uint64(10)))
		})

		It("should hit on cached data", func() {
			write64(0x1000, 0xCAFEBABE)

			c.Read(0x1000, 8)

			result := c.Read(0x1000, 8)
			Expect(result.Hit).To(BeTrue())
			Expect(result.Latency).To(Equal(uint64(1)))
			Expect(result.Data).To(Equal(uint64(0xCAFEBABE)))

			stats := c.Stats()
			Expect(stats.Reads).To(Equal(uint64(2)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(1)))
			Expect(stats.Cycles).To(Equal(uint64(11)))
		})

		It("should hit on different addresses in same cache line", func() {
			write64(0x1000, 0x2222222211111111)

			c.Read(0x1000, 4)

			result := c.Read(0x1004, 4)
			Expect(result.Hit).To(BeTrue())
			Expect(result.Data).To(Equal(uint64(0x22222222)))
		})
	})

	Describe("Write operations", func() {
		It("should write-allocate on miss and leave the line dirty", func() {
			result := c.Write(0x1000, 8, 0x12345678)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Latency).To(Equal(uint64(10)))
			Expect(c.IsDirty(0x1000)).To(BeTrue())

			readResult := c.Read(0x1000, 8)
			Expect(readResult.Hit).To(BeTrue())
			Expect(readResult.Data).To(Equal(uint64(0x12345678)))
		})

		It("should keep a read-only line clean", func() {
			c.Read(0x2000, 1)
			Expect(c.Contains(0x2000)).To(BeTrue())
			Expect(c.IsDirty(0x2000)).To(BeFalse())
		})

		It("should hit on cached data", func() {
			c.Write(0x1000, 8, 0x11111111)

			result := c.Write(0x1000, 8, 0x22222222)
			Expect(result.Hit).To(BeTrue())
			Expect(result.Latency).To(Equal(uint64(1)))

			readResult := c.Read(0x1000, 8)
			Expect(readResult.Data).To(Equal(uint64(0x22222222)))
		})
	})

	Describe("Eviction", func() {
		It("should evict when a set is full", func() {
			// 4KB / (4 ways * 64B) = 16 sets; these all map to set 0.
			c.Write(0x0000, 8, 0x11111111)
			c.Write(0x0400, 8, 0x22222222)
			c.Write(0x0800, 8, 0x33333333)
			c.Write(0x0C00, 8, 0x44444444)

			Expect(c.Read(0x0000, 8).Hit).To(BeTrue())
			Expect(c.Read(0x0400, 8).Hit).To(BeTrue())
			Expect(c.Read(0x0800, 8).Hit).To(BeTrue())
			Expect(c.Read(0x0C00, 8).Hit).To(BeTrue())

			result := c.Write(0x1000, 8, 0x55555555)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeTrue())
			Expect(result.EvictedAddr).To(Equal(uint64(0x0000)))

			Expect(c.Stats().Evictions).To(Equal(uint64(1)))
		})

		It("should writeback dirty evicted blocks", func() {
			c.Write(0x0000, 8, 0x11111111)
			c.Write(0x0400, 8, 0x22222222)
			c.Write(0x0800, 8, 0x33333333)
			c.Write(0x0C00, 8, 0x44444444)

			// Make 0x0000 the LRU
			c.Read(0x0400, 8)
			c.Read(0x0800, 8)
			c.Read(0x0C00, 8)

			c.Write(0x1000, 8, 0x55555555)

			Expect(read64(0x0000)).To(Equal(uint64(0x11111111)))
			Expect(c.Stats().Writebacks).To(Equal(uint64(1)))
		})
	})

	Describe("Statistics", func() {
		It("should reset counters but keep contents", func() {
			c.Write(0x0000, 1, 7)
			c.ResetStats()

			Expect(c.Stats()).To(Equal(cache.Statistics{}))
			Expect(c.Read(0x0000, 1).Hit).To(BeTrue())
		})

		It("should add field-wise", func() {
			a := cache.Statistics{Reads: 1, Hits: 1, Cycles: 2}
			b := cache.Statistics{Writes: 2, Misses: 2, Cycles: 200}

			sum := a.Add(b)
			Expect(sum.Accesses()).To(Equal(uint64(3)))
			Expect(sum.Cycles).To(Equal(uint64(202)))
		})
	})

	Describe("Flush", func() {
		It("should write back all dirty blocks", func() {
			c.Write(0x0000, 8, 0x11111111)
			c.Write(0x1000, 8, 0x22222222)

			Expect(read64(0x0000)).To(Equal(uint64(0)))
			Expect(read64(0x1000)).To(Equal(uint64(0)))

			c.Flush()

			Expect(read64(0x0000)).To(Equal(uint64(0x11111111)))
			Expect(read64(0x1000)).To(Equal(uint64(0x22222222)))
			Expect(c.Stats().Writebacks).To(Equal(uint64(2)))
			Expect(c.Contains(0x0000)).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should drop every line", func() {
			c.Write(0x0000, 8, 1)
			c.Reset()

			Expect(c.Contains(0x0000)).To(BeFalse())
			Expect(read64(0x0000)).To(Equal(uint64(0)))
		})
	})

	Describe("Configurations", func() {
		It("should mirror the workload geometry", func() {
			config := cache.ConfigFor(geometry.Config{
				Size: 32768, Associativity: 8, LineSize: 128,
			})
			Expect(config.Size).To(Equal(32768))
			Expect(config.Associativity).To(Equal(8))
			Expect(config.BlockSize).To(Equal(128))
		})

		It("should create the reference L1D config", func() {
			config := cache.DefaultL1DConfig()
			Expect(config.Size).To(Equal(16 * 1024))
			Expect(config.Associativity).To(Equal(1))
			Expect(config.BlockSize).To(Equal(64))
			Expect(config.HitLatency).To(Equal(cache.DefaultHitLatency))
		})
	})
})

var _ = Describe("SliceBacking", func() {
	It("should ignore addresses outside the slice", func() {
		data := make([]byte, 16)
		b := cache.NewSliceBacking(0x100, data)

		b.Write(0xFE, []byte{1, 2, 3, 4})
		Expect(data[:2]).To(Equal([]byte{3, 4}))
		Expect(b.Read(0x10E, 4)).To(Equal([]byte{0, 0, 0, 0}))
	})
})
