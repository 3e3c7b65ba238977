package cpu

import (
	"github.com/archsim/rv64sim/csrfile"
	"github.com/archsim/rv64sim/decode"
)

// csrOp implements CSRRW/CSRRS/CSRRC/CSRRWI/CSRRSI/CSRRCI under the CSR
// access policy: CSR instructions require Machine privilege; CSRRW/CSRRWI
// to a read-only CSR is always illegal; CSRRS/CSRRC with a zero source is a
// pure read, legal even on a read-only CSR.
func (p *Processor) csrOp(word uint32, inst decode.Instruction) (trapped bool) {
	if p.privilege != csrfile.Machine {
		p.illegal(word)
		return true
	}

	num := uint64(inst.CSR)
	if !p.csr.Recognized(num) {
		p.illegal(word)
		return true
	}

	var source uint64
	switch inst.Op {
	case decode.OpCSRRWI, decode.OpCSRRSI, decode.OpCSRRCI:
		source = uint64(inst.Imm)
	default:
		source = p.regs[inst.Rs1]
	}

	switch inst.Op {
	case decode.OpCSRRW, decode.OpCSRRWI:
		if p.csr.ReadOnly(num) {
			p.illegal(word)
			return true
		}
		old := p.csr.Read(num)
		p.csr.Write(num, source)
		p.setReg(inst.Rd, old)

	case decode.OpCSRRS, decode.OpCSRRSI:
		old := p.csr.Read(num)
		if source != 0 {
			if p.csr.ReadOnly(num) {
				p.illegal(word)
				return true
			}
			p.csr.Write(num, old|source)
		}
		p.setReg(inst.Rd, old)

	case decode.OpCSRRC, decode.OpCSRRCI:
		old := p.csr.Read(num)
		if source != 0 {
			if p.csr.ReadOnly(num) {
				p.illegal(word)
				return true
			}
			p.csr.Write(num, old&^source)
		}
		p.setReg(inst.Rd, old)
	}

	p.pc += 4
	return false
}
