// Package cpu implements the RV64I fetch-decode-execute loop, general
// purpose register file, and the public operations the REPL drives the
// core through.
package cpu

import (
	"fmt"
	"io"
	"os"

	"github.com/archsim/rv64sim/csrfile"
	"github.com/archsim/rv64sim/decode"
	"github.com/archsim/rv64sim/memory"
)

// Processor is one RV64I hart: its register file, program counter,
// privilege, CSR file, and a borrowed reference to the address space it
// executes against.
type Processor struct {
	regs [32]uint64
	pc   uint64

	csr       *csrfile.File
	mem       *memory.Memory
	privilege csrfile.Privilege

	instructionCount uint64

	breakpoint    uint64
	breakpointSet bool

	out io.Writer
}

// New creates a Processor with pc = 0, all registers zero, and privilege
// Machine, executing against mem. mem is borrowed: its lifetime is managed
// by the caller.
func New(mem *memory.Memory) *Processor {
	return &Processor{
		csr:       csrfile.New(),
		mem:       mem,
		privilege: csrfile.Machine,
		out:       os.Stdout,
	}
}

// SetOutput redirects the processor's diagnostic and status messages (the
// breakpoint-reached notice, illegal CSR access messages) away from
// os.Stdout. Tests use this to capture output instead of printing it.
func (p *Processor) SetOutput(w io.Writer) { p.out = w }

func (p *Processor) setReg(i uint32, value uint64) {
	p.regs[i] = value
	p.regs[0] = 0
}

// ShowPC returns the current program counter.
func (p *Processor) ShowPC() uint64 { return p.pc }

// SetPC overwrites the program counter.
func (p *Processor) SetPC(value uint64) { p.pc = value }

// ShowReg returns register i, or 0 with a diagnostic message if i is out of
// range.
func (p *Processor) ShowReg(i int) uint64 {
	if i < 0 || i > 31 {
		fmt.Fprintln(p.out, "Illegal register number")
		return 0
	}
	return p.regs[i]
}

// SetReg writes register i. Index 0 is accepted and silently discarded by
// the register-zero discipline; an out-of-range index is reported and
// otherwise ignored.
func (p *Processor) SetReg(i int, value uint64) {
	if i < 0 || i > 31 {
		fmt.Fprintln(p.out, "Illegal register number")
		return
	}
	p.setReg(uint32(i), value)
}

// ShowPrv returns the current privilege level as 0 or 3.
func (p *Processor) ShowPrv() int { return int(p.privilege) }

// SetPrv sets the privilege level. Only 0 (User) and 3 (Machine) are
// accepted; any other value is silently ignored.
func (p *Processor) SetPrv(n int) {
	switch n {
	case int(csrfile.User):
		p.privilege = csrfile.User
	case int(csrfile.Machine):
		p.privilege = csrfile.Machine
	}
}

// ShowCSR returns the value of CSR num, or 0 with a diagnostic message if
// num is not recognized.
func (p *Processor) ShowCSR(num uint64) uint64 {
	if !p.csr.Recognized(num) {
		fmt.Fprintln(p.out, "Illegal CSR number")
		return 0
	}
	return p.csr.Read(num)
}

// SetCSR writes CSR num. Writes to an unrecognized or read-only CSR are
// reported and otherwise ignored.
func (p *Processor) SetCSR(num, value uint64) {
	if !p.csr.Recognized(num) {
		fmt.Fprintln(p.out, "Illegal CSR number")
		return
	}
	if p.csr.ReadOnly(num) {
		fmt.Fprintln(p.out, "Illegal write to read-only CSR")
		return
	}
	p.csr.Write(num, value)
}

// RaiseInterrupt sets an externally-injected mip bit (3, 7, or 11), for use
// by a host-side interrupt controller.
func (p *Processor) RaiseInterrupt(bit uint) { p.csr.RaiseExternal(bit) }

// ClearInterrupt clears an externally-injected mip bit.
func (p *Processor) ClearInterrupt(bit uint) { p.csr.ClearExternal(bit) }

// SetBreakpoint arms a breakpoint at addr.
func (p *Processor) SetBreakpoint(addr uint64) {
	p.breakpoint = addr
	p.breakpointSet = true
}

// ClearBreakpoint disarms the breakpoint.
func (p *Processor) ClearBreakpoint() { p.breakpointSet = false }

// GetInstructionCount returns the number of retired instructions.
func (p *Processor) GetInstructionCount() uint64 { return p.instructionCount }

// GetCycleCount always returns 0: this core is not cycle-accurate.
func (p *Processor) GetCycleCount() uint64 { return 0 }

// Execute runs up to n instructions. If checkBP is set and the breakpoint
// is reached before an instruction's fetch, execution stops early and a
// notice is printed; the breakpointed instruction is not executed.
func (p *Processor) Execute(n int, checkBP bool) {
	for i := 0; i < n; i++ {
		if checkBP && p.breakpointSet && p.pc == p.breakpoint {
			fmt.Fprintf(p.out, "Breakpoint reached at %016x\n", p.pc)
			return
		}
		p.step()
	}
}

// step runs exactly one instruction cycle: interrupt check, alignment
// check, fetch, decode, execute, and PC/instruction-count bookkeeping.
func (p *Processor) step() {
	if cause, ok := p.csr.PendingInterrupt(p.privilege); ok {
		p.trap(cause, 0)
		return
	}

	if p.pc%4 != 0 {
		p.trap(0, p.pc)
		return
	}

	word := p.mem.Read32(p.pc)
	inst := decode.Decode(word)

	if p.dispatch(word, inst) {
		return
	}
	p.instructionCount++
}

// trap drives the CSR file's trap-entry sequence and applies the resulting
// PC and privilege.
func (p *Processor) trap(cause, tval uint64) {
	newPC, newPrivilege := p.csr.EnterTrap(p.pc, p.privilege, cause, tval)
	p.pc = newPC
	p.privilege = newPrivilege
}

// illegal raises an illegal-instruction exception with mtval set to the
// offending instruction word.
func (p *Processor) illegal(word uint32) {
	p.trap(2, uint64(word))
}

func signExtend32(v uint32) uint64 {
	return uint64(int64(int32(v)))
}
