// Package csrfile implements the Machine-mode control-and-status register
// file and the trap-entry / trap-return privilege transitions that ride on
// top of it.
package csrfile

// Privilege is one of the two privilege levels this core models.
type Privilege uint8

const (
	// User is the least-privileged mode.
	User Privilege = 0
	// Machine is the most-privileged mode. Supervisor mode is a non-goal.
	Machine Privilege = 3
)

// CSR addresses recognized by this core.
const (
	MVendorID = 0xF11
	MArchID   = 0xF12
	MImpID    = 0xF13
	MHartID   = 0xF14
	MStatus   = 0x300
	MISA      = 0x301
	MIE       = 0x304
	MTVec     = 0x305
	MScratch  = 0x340
	MEPC      = 0x341
	MCause    = 0x342
	MTVal     = 0x343
	MIP       = 0x344
)

// mimpidValue is an implementation-defined constant returned by mimpid.
const mimpidValue = 0x2024020000000000

// misaValue reads as a fixed constant indicating RV64I: MXL=2 (64-bit) in
// the top two bits, plus the "I" extension bit.
const misaValue = uint64(2)<<62 | 1<<('I'-'A')

// Interrupt/exception bit positions shared by mie and mip.
const (
	BitUSI = 0  // user software interrupt
	BitMSI = 3  // machine software interrupt
	BitUTI = 4  // user timer interrupt
	BitMTI = 7  // machine timer interrupt
	BitUEI = 8  // user external interrupt
	BitMEI = 11 // machine external interrupt
)

// mieWritableMask covers USIE/MSIE/UTIE/MTIE/UEIE/MEIE.
const mieWritableMask = uint64(1<<BitUSI | 1<<BitMSI | 1<<BitUTI | 1<<BitMTI | 1<<BitUEI | 1<<BitMEI)

// mipExternalMask covers the M-level bits that are injected by the host
// (via Raise/Clear, not by a CSR write) and preserved across software
// writes to mip.
const mipExternalMask = uint64(1<<BitMSI | 1<<BitMTI | 1<<BitMEI)

// mipSoftwareMask covers the bits software can set directly with set_csr.
const mipSoftwareMask = uint64(1<<BitUSI | 1<<BitUTI | 1<<BitUEI)

// causeInterruptBit marks an mcause value as an interrupt rather than an
// exception.
const causeInterruptBit = uint64(1) << 63

// causeCodeMask is the width of a cause code (4 bits; the widest code in
// use, 11, fits comfortably).
const causeCodeMask = uint64(0xF)

// interruptPriority lists the bits checked, in order, when looking for a
// pending-and-enabled interrupt.
var interruptPriority = [...]uint{BitMEI, BitMSI, BitMTI, BitUEI, BitUSI, BitUTI}

// File holds the Machine-mode CSR storage for one hart.
type File struct {
	mstatusMIE  bool
	mstatusMPIE bool
	mstatusMPP  uint8 // raw 2-bit field; only 0 and 3 are meaningful here

	mie uint64
	mip uint64

	mtvec    uint64
	mscratch uint64
	mepc     uint64
	mcause   uint64
	mtval    uint64
}

// New creates a CSR file with machine-reset defaults: privilege starts at
// Machine in the surrounding processor, MIE clear, and all other storage
// zeroed.
func New() *File {
	return &File{}
}

// Recognized reports whether num names one of the CSRs in the address map.
func (f *File) Recognized(num uint64) bool {
	switch num {
	case MVendorID, MArchID, MImpID, MHartID, MStatus, MISA, MIE, MTVec,
		MScratch, MEPC, MCause, MTVal, MIP:
		return true
	default:
		return false
	}
}

// ReadOnly reports whether num is a read-only CSR. Calling with an
// unrecognized number returns false; callers must check Recognized first.
func (f *File) ReadOnly(num uint64) bool {
	switch num {
	case MVendorID, MArchID, MImpID, MHartID:
		return true
	default:
		return false
	}
}

// Read returns the current value of CSR num, applying its fixed read-shape.
// The caller must have already verified Recognized(num).
func (f *File) Read(num uint64) uint64 {
	switch num {
	case MVendorID, MArchID, MHartID:
		return 0
	case MImpID:
		return mimpidValue
	case MISA:
		return misaValue
	case MStatus:
		return f.readMStatus()
	case MIE:
		return f.mie
	case MTVec:
		return f.readMTVec()
	case MScratch:
		return f.mscratch
	case MEPC:
		return f.mepc
	case MCause:
		return f.mcause
	case MTVal:
		return f.mtval
	case MIP:
		return f.mip
	default:
		return 0
	}
}

func (f *File) readMStatus() uint64 {
	var v uint64
	if f.mstatusMIE {
		v |= 1 << 3
	}
	if f.mstatusMPIE {
		v |= 1 << 7
	}
	v |= uint64(f.mstatusMPP&0x3) << 11
	v |= uint64(2) << 32 // UXL fixed to 2 (64-bit)
	return v
}

func (f *File) readMTVec() uint64 {
	if f.mtvec&1 == 0 {
		// Direct mode: bit 1 always reads zero.
		return f.mtvec &^ 0x2
	}
	// Vectored mode: bits [5:2] always read zero (vector table alignment).
	return f.mtvec &^ 0x3C
}

// Write applies a new value to CSR num, masking to the bits that CSR allows
// software to change. The caller must have already verified Recognized(num)
// and that the write is permitted by the CSR access policy: this method
// does not itself reject writes to read-only CSRs.
func (f *File) Write(num, value uint64) {
	switch num {
	case MVendorID, MArchID, MImpID, MHartID:
		// Read-only: ignored if reached (policy enforcement lives above).
	case MISA:
		// Legal to write, value is ignored.
	case MStatus:
		f.mstatusMIE = value&(1<<3) != 0
		f.mstatusMPIE = value&(1<<7) != 0
		f.mstatusMPP = uint8((value >> 11) & 0x3)
	case MIE:
		f.mie = value & mieWritableMask
	case MTVec:
		f.mtvec = value
	case MScratch:
		f.mscratch = value
	case MEPC:
		f.mepc = value &^ 0x3
	case MCause:
		f.mcause = value & (causeInterruptBit | causeCodeMask)
	case MTVal:
		f.mtval = value
	case MIP:
		f.mip = (f.mip & mipExternalMask) | (value & mipSoftwareMask)
	}
}

// RaiseExternal sets one of the hardware-injected mip bits (3, 7, or 11) on
// behalf of an external interrupt controller. Bits outside mipExternalMask
// are ignored.
func (f *File) RaiseExternal(bit uint) {
	b := uint64(1) << bit
	if b&mipExternalMask != 0 {
		f.mip |= b
	}
}

// ClearExternal clears one of the hardware-injected mip bits.
func (f *File) ClearExternal(bit uint) {
	b := uint64(1) << bit
	if b&mipExternalMask != 0 {
		f.mip &^= b
	}
}

// MStatusMIE reports the current mstatus.MIE bit.
func (f *File) MStatusMIE() bool { return f.mstatusMIE }

// PendingInterrupt checks, in priority order, for an enabled pending
// interrupt given the current privilege level. It returns the mcause value
// to raise and ok == true if one is found.
func (f *File) PendingInterrupt(privilege Privilege) (cause uint64, ok bool) {
	enabled := privilege == User || (privilege == Machine && f.mstatusMIE)
	if !enabled {
		return 0, false
	}
	pending := f.mip & f.mie
	for _, bit := range interruptPriority {
		if pending&(uint64(1)<<bit) != 0 {
			return causeInterruptBit | uint64(bit), true
		}
	}
	return 0, false
}

// EnterTrap performs the trap-entry sequence: it saves pc to mepc, pushes
// the mstatus privilege stack, records cause and tval, and computes the new
// PC from mtvec. It returns the new PC and new privilege; the caller is
// responsible for actually updating the processor's pc and privilege
// fields.
func (f *File) EnterTrap(pc uint64, privilege Privilege, cause, tval uint64) (newPC uint64, newPrivilege Privilege) {
	f.mepc = pc &^ 0x3
	f.mstatusMPIE = f.mstatusMIE
	f.mstatusMIE = false
	f.mstatusMPP = uint8(privilege)
	f.mcause = cause & (causeInterruptBit | causeCodeMask)
	f.mtval = tval

	base := f.mtvec &^ 0x3
	isInterrupt := cause&causeInterruptBit != 0
	if f.mtvec&1 == 1 && isInterrupt {
		code := cause & causeCodeMask
		newPC = (base &^ 0xF) + 4*code
	} else {
		newPC = base
	}
	return newPC, Machine
}

// privilegeFromMPP interprets the raw 2-bit MPP field. Only User (0) and
// Machine (3) are modeled; any other value observed in a raw mstatus write
// is treated as Machine, since Supervisor/Reserved are non-goals and a
// trap handler that set MPP to a non-User value almost certainly meant to
// stay privileged.
func privilegeFromMPP(mpp uint8) Privilege {
	if mpp == uint8(User) {
		return User
	}
	return Machine
}

// MRET performs the trap-return sequence. It returns the new PC (from
// mepc) and new privilege (from MPP); the caller updates the processor's pc
// and privilege fields.
func (f *File) MRET() (newPC uint64, newPrivilege Privilege) {
	newPrivilege = privilegeFromMPP(f.mstatusMPP)
	f.mstatusMIE = f.mstatusMPIE
	f.mstatusMPIE = true
	f.mstatusMPP = uint8(User)
	return f.mepc, newPrivilege
}
