package csrfile_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv64sim/csrfile"
)

func TestCSRFile(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CSRFile Suite")
}

var _ = Describe("File", func() {
	var f *csrfile.File

	BeforeEach(func() {
		f = csrfile.New()
	})

	Describe("read-only identity registers", func() {
		It("reads mvendorid, marchid, mhartid as zero", func() {
			Expect(f.Read(csrfile.MVendorID)).To(Equal(uint64(0)))
			Expect(f.Read(csrfile.MArchID)).To(Equal(uint64(0)))
			Expect(f.Read(csrfile.MHartID)).To(Equal(uint64(0)))
		})

		It("flags identity registers read-only", func() {
			Expect(f.ReadOnly(csrfile.MVendorID)).To(BeTrue())
			Expect(f.ReadOnly(csrfile.MImpID)).To(BeTrue())
			Expect(f.ReadOnly(csrfile.MStatus)).To(BeFalse())
		})

		It("ignores writes to mimpid", func() {
			before := f.Read(csrfile.MImpID)
			f.Write(csrfile.MImpID, 0xFFFFFFFFFFFFFFFF)
			Expect(f.Read(csrfile.MImpID)).To(Equal(before))
		})
	})

	Describe("misa", func() {
		It("reports MXL=2 and the I bit", func() {
			v := f.Read(csrfile.MISA)
			Expect(v >> 62).To(Equal(uint64(2)))
			Expect(v & (1 << ('I' - 'A'))).NotTo(BeZero())
		})
	})

	Describe("mstatus", func() {
		It("round-trips MIE, MPIE, and MPP through their write mask", func() {
			f.Write(csrfile.MStatus, 1<<3|1<<7|3<<11)
			v := f.Read(csrfile.MStatus)
			Expect(v & (1 << 3)).NotTo(BeZero())
			Expect(v & (1 << 7)).NotTo(BeZero())
			Expect((v >> 11) & 0x3).To(Equal(uint64(3)))
		})

		It("always reports UXL as 2", func() {
			v := f.Read(csrfile.MStatus)
			Expect((v >> 32) & 0x3).To(Equal(uint64(2)))
		})

		It("ignores bits outside the writable set", func() {
			f.Write(csrfile.MStatus, ^uint64(0))
			v := f.Read(csrfile.MStatus)
			Expect(v &^ (1<<3 | 1<<7 | 3<<11 | 2<<32)).To(Equal(uint64(0)))
		})
	})

	Describe("mie", func() {
		It("only accepts USIE/MSIE/UTIE/MTIE/UEIE/MEIE", func() {
			f.Write(csrfile.MIE, ^uint64(0))
			Expect(f.Read(csrfile.MIE)).To(Equal(uint64(0x999)))
		})
	})

	Describe("mip", func() {
		It("lets software set the U-level bits directly", func() {
			f.Write(csrfile.MIP, 1<<csrfile.BitUSI|1<<csrfile.BitUTI|1<<csrfile.BitUEI)
			Expect(f.Read(csrfile.MIP)).To(Equal(uint64(0x111)))
		})

		It("does not let a software write clear externally-raised bits", func() {
			f.RaiseExternal(csrfile.BitMEI)
			f.Write(csrfile.MIP, 0)
			Expect(f.Read(csrfile.MIP) & (1 << csrfile.BitMEI)).NotTo(BeZero())
		})

		It("clears an externally-raised bit via ClearExternal", func() {
			f.RaiseExternal(csrfile.BitMTI)
			f.ClearExternal(csrfile.BitMTI)
			Expect(f.Read(csrfile.MIP)).To(Equal(uint64(0)))
		})

		It("ignores RaiseExternal for bits outside the external mask", func() {
			f.RaiseExternal(csrfile.BitUSI)
			Expect(f.Read(csrfile.MIP)).To(Equal(uint64(0)))
		})
	})

	Describe("mtvec read shape", func() {
		It("masks bit 1 to zero in direct mode", func() {
			f.Write(csrfile.MTVec, 0x1006) // mode=0 (direct), bit1 set
			Expect(f.Read(csrfile.MTVec) & 0x2).To(BeZero())
		})

		It("masks bits [5:2] to zero in vectored mode", func() {
			f.Write(csrfile.MTVec, 0x1007) // mode=1 (vectored)
			Expect(f.Read(csrfile.MTVec) & 0x3C).To(BeZero())
		})
	})

	Describe("PendingInterrupt", func() {
		It("reports nothing when mstatus.MIE is clear in Machine mode", func() {
			f.Write(csrfile.MIE, 1<<csrfile.BitMEI)
			f.RaiseExternal(csrfile.BitMEI)
			_, ok := f.PendingInterrupt(csrfile.Machine)
			Expect(ok).To(BeFalse())
		})

		It("reports a pending-and-enabled interrupt in Machine mode once MIE is set", func() {
			f.Write(csrfile.MStatus, 1<<3)
			f.Write(csrfile.MIE, 1<<csrfile.BitMEI)
			f.RaiseExternal(csrfile.BitMEI)
			cause, ok := f.PendingInterrupt(csrfile.Machine)
			Expect(ok).To(BeTrue())
			Expect(cause).To(Equal(uint64(1)<<63 | 11))
		})

		It("is always enabled in User mode regardless of mstatus.MIE", func() {
			f.Write(csrfile.MIE, 1<<csrfile.BitUTI)
			f.RaiseExternal(csrfile.BitMTI) // pending, but mie enables only UTI so far
			f.Write(csrfile.MIE, 1<<csrfile.BitMTI)
			_, ok := f.PendingInterrupt(csrfile.User)
			Expect(ok).To(BeTrue())
		})

		It("honors priority order: software beats timer", func() {
			f.Write(csrfile.MStatus, 1<<3)
			f.Write(csrfile.MIE, 1<<csrfile.BitMEI|1<<csrfile.BitMSI|1<<csrfile.BitMTI)
			f.RaiseExternal(csrfile.BitMSI)
			f.RaiseExternal(csrfile.BitMTI)
			cause, ok := f.PendingInterrupt(csrfile.Machine)
			Expect(ok).To(BeTrue())
			Expect(cause & 0xF).To(Equal(uint64(csrfile.BitMSI)))
		})
	})

	Describe("EnterTrap and MRET", func() {
		It("saves pc to mepc, pushes MIE into MPIE, clears MIE, and sets MPP", func() {
			f.Write(csrfile.MStatus, 1<<3) // MIE set beforehand
			newPC, newPriv := f.EnterTrap(0x1000, csrfile.User, 11, 0)
			Expect(newPriv).To(Equal(csrfile.Machine))
			Expect(newPC).To(Equal(uint64(0)))
			Expect(f.Read(csrfile.MEPC)).To(Equal(uint64(0x1000)))
			Expect(f.Read(csrfile.MCause)).To(Equal(uint64(11)))
			v := f.Read(csrfile.MStatus)
			Expect(v & (1 << 3)).To(BeZero())       // MIE cleared
			Expect(v & (1 << 7)).NotTo(BeZero())     // MPIE holds prior MIE
			Expect((v >> 11) & 0x3).To(Equal(uint64(0))) // MPP = User
		})

		It("dispatches through the vector table for an interrupt in vectored mode", func() {
			f.Write(csrfile.MTVec, 0x2000|1) // vectored
			newPC, _ := f.EnterTrap(0x1000, csrfile.Machine, 1<<63|11, 0)
			Expect(newPC).To(Equal(uint64(0x2000 + 4*11)))
		})

		It("dispatches to the base for an exception even in vectored mode", func() {
			f.Write(csrfile.MTVec, 0x2000|1)
			newPC, _ := f.EnterTrap(0x1000, csrfile.Machine, 2, 0xBAD)
			Expect(newPC).To(Equal(uint64(0x2000)))
			Expect(f.Read(csrfile.MTVal)).To(Equal(uint64(0xBAD)))
		})

		It("restores pc and privilege on MRET, and sets MIE from MPIE", func() {
			f.Write(csrfile.MStatus, 1<<3)
			f.EnterTrap(0x1000, csrfile.User, 11, 0)
			newPC, newPriv := f.MRET()
			Expect(newPC).To(Equal(uint64(0x1000)))
			Expect(newPriv).To(Equal(csrfile.User))
			Expect(f.MStatusMIE()).To(BeTrue())
		})
	})
})
