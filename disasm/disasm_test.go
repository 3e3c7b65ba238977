package disasm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv64sim/decode"
	"github.com/archsim/rv64sim/disasm"
)

func TestDisasm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Disasm Suite")
}

var _ = Describe("Mnemonic", func() {
	It("renders ADDI with register names and a signed immediate", func() {
		inst := decode.Decode(0xFFF10093) // addi x1, x2, -1
		Expect(disasm.Mnemonic(inst)).To(Equal("addi ra, sp, -1"))
	})

	It("renders an unimplemented encoding as a raw word", func() {
		inst := decode.Decode(0x7F)
		Expect(disasm.Mnemonic(inst)).To(Equal(".word 0x0000007f"))
	})

	It("prefixes a 16-hex-digit address in Format", func() {
		inst := decode.Decode(0xFFF10093)
		Expect(disasm.Format(0x1000, inst)).To(Equal("0000000000001000  addi ra, sp, -1"))
	})
})
