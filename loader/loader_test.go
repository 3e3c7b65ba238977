package loader_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv64sim/loader"
	"github.com/archsim/rv64sim/memory"
)

func TestLoader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Loader Suite")
}

var _ = Describe("LoadReader", func() {
	var mem *memory.Memory

	BeforeEach(func() {
		mem = memory.New()
	})

	It("writes sequential doublewords starting at address 0 by default", func() {
		img, err := loader.LoadReader(strings.NewReader("0000000000000013\n0000000000000013\n"), mem)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.StartAddress).To(Equal(uint64(0)))
		Expect(img.Doublewords).To(Equal(2))
		Expect(mem.ReadDoubleword(0)).To(Equal(uint64(0x13)))
		Expect(mem.ReadDoubleword(8)).To(Equal(uint64(0x13)))
	})

	It("honors an @address directive as the write pointer and start address", func() {
		img, err := loader.LoadReader(strings.NewReader("@2000\ndeadbeefcafef00d\n"), mem)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.StartAddress).To(Equal(uint64(0x2000)))
		Expect(mem.ReadDoubleword(0x2000)).To(Equal(uint64(0xdeadbeefcafef00d)))
	})

	It("treats the first @ as the start address even with later directives", func() {
		img, err := loader.LoadReader(strings.NewReader("@100\n1\n@200\n2\n"), mem)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.StartAddress).To(Equal(uint64(0x100)))
		Expect(mem.ReadDoubleword(0x100)).To(Equal(uint64(1)))
		Expect(mem.ReadDoubleword(0x200)).To(Equal(uint64(2)))
	})

	It("strips trailing comments", func() {
		img, err := loader.LoadReader(strings.NewReader("00000013   # first instruction\n"), mem)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Doublewords).To(Equal(1))
		Expect(mem.ReadDoubleword(0)).To(Equal(uint64(0x13)))
	})

	It("reports an error on a malformed token and stops before writing it", func() {
		img, err := loader.LoadReader(strings.NewReader("00000013\nnotahexnumber\n"), mem)
		Expect(err).To(HaveOccurred())
		Expect(img).To(BeNil())
		// The well-formed line before the bad one was still applied.
		Expect(mem.ReadDoubleword(0)).To(Equal(uint64(0x13)))
	})

	It("reports an error on a malformed address directive", func() {
		_, err := loader.LoadReader(strings.NewReader("@zzzz\n"), mem)
		Expect(err).To(HaveOccurred())
	})
})
