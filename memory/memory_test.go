package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv64sim/memory"
)

var _ = Describe("Memory", func() {
	var m *memory.Memory

	BeforeEach(func() {
		m = memory.New()
	})

	Describe("reads of unallocated pages", func() {
		It("returns zero", func() {
			Expect(m.ReadDoubleword(0x1000)).To(Equal(uint64(0)))
		})

		It("never allocates a page", func() {
			m.ReadDoubleword(0x1000)
			Expect(m.AllocatedPages()).To(Equal(0))
		})
	})

	Describe("WriteDoubleword", func() {
		It("allocates the target page on first write", func() {
			m.WriteDoubleword(0x2000, 0xDEADBEEF, ^uint64(0))
			Expect(m.AllocatedPages()).To(Equal(1))
		})

		It("applies only the masked bytes, leaving the rest unchanged", func() {
			m.WriteDoubleword(0x40, 0xFFFFFFFFFFFFFFFF, ^uint64(0))
			m.WriteDoubleword(0x40, 0x00000000AABBCCDD, 0x00000000FFFFFFFF)
			Expect(m.ReadDoubleword(0x40)).To(Equal(uint64(0xFFFFFFFFAABBCCDD)))
		})

		It("rounds the address down to a doubleword boundary", func() {
			m.WriteDoubleword(0x1003, 0x1122334455667788, ^uint64(0))
			Expect(m.ReadDoubleword(0x1000)).To(Equal(uint64(0x1122334455667788)))
			Expect(m.ReadDoubleword(0x1003)).To(Equal(uint64(0x1122334455667788)))
		})
	})

	Describe("byte/halfword/word accessors", func() {
		It("round-trips a byte", func() {
			m.Write8(0x10, 0xAB)
			Expect(m.Read8(0x10)).To(Equal(uint8(0xAB)))
		})

		It("round-trips a halfword without disturbing neighboring bytes", func() {
			m.Write8(0x20, 0xFF)
			m.Write16(0x21, 0xBEEF)
			Expect(m.Read16(0x21)).To(Equal(uint16(0xBEEF)))
			Expect(m.Read8(0x20)).To(Equal(uint8(0xFF)))
		})

		It("round-trips a word", func() {
			m.Write32(0x30, 0xCAFEBABE)
			Expect(m.Read32(0x30)).To(Equal(uint32(0xCAFEBABE)))
		})

		It("round-trips a doubleword via Read64/Write64", func() {
			m.Write64(0x50, 0x0102030405060708)
			Expect(m.Read64(0x50)).To(Equal(uint64(0x0102030405060708)))
		})
	})

	Describe("page spanning", func() {
		It("allocates separate pages for addresses beyond one page's reach", func() {
			m.Write8(0x0, 1)
			m.Write8(0x10000, 1) // well beyond a single 2 KiB page
			Expect(m.AllocatedPages()).To(Equal(2))
		})
	})
})
