package cpu

import (
	"github.com/archsim/rv64sim/csrfile"
	"github.com/archsim/rv64sim/decode"
)

// dispatch executes one decoded instruction and reports whether it
// trapped. Every non-trapping path is responsible for updating pc itself,
// per the PC-advancement rule: branches/jumps/MRET set pc directly, the
// load, store and CSR helpers add 4 themselves, and every other
// instruction falls through to the pc += 4 default at the bottom.
func (p *Processor) dispatch(word uint32, inst decode.Instruction) (trapped bool) {
	switch inst.Op {
	case decode.OpInvalid:
		p.illegal(word)
		return true

	case decode.OpLUI:
		p.setReg(inst.Rd, uint64(inst.Imm))
	case decode.OpAUIPC:
		p.setReg(inst.Rd, p.pc+uint64(inst.Imm))

	case decode.OpJAL:
		p.setReg(inst.Rd, p.pc+4)
		p.pc += uint64(inst.Imm)
		return false
	case decode.OpJALR:
		target := (p.regs[inst.Rs1] + uint64(inst.Imm)) &^ 1
		p.setReg(inst.Rd, p.pc+4)
		p.pc = target
		return false

	case decode.OpBEQ, decode.OpBNE, decode.OpBLT, decode.OpBGE, decode.OpBLTU, decode.OpBGEU:
		if p.branchTaken(inst) {
			p.pc += uint64(inst.Imm)
		} else {
			p.pc += 4
		}
		return false

	case decode.OpLB, decode.OpLH, decode.OpLW, decode.OpLD, decode.OpLBU, decode.OpLHU, decode.OpLWU:
		return p.load(inst)
	case decode.OpSB, decode.OpSH, decode.OpSW, decode.OpSD:
		return p.store(inst)

	case decode.OpADDI, decode.OpSLTI, decode.OpSLTIU, decode.OpXORI, decode.OpORI,
		decode.OpANDI, decode.OpSLLI, decode.OpSRLI, decode.OpSRAI:
		p.opImm(inst)
	case decode.OpADD, decode.OpSUB, decode.OpSLL, decode.OpSLT, decode.OpSLTU,
		decode.OpXOR, decode.OpSRL, decode.OpSRA, decode.OpOR, decode.OpAND:
		p.opReg(inst)
	case decode.OpADDIW, decode.OpSLLIW, decode.OpSRLIW, decode.OpSRAIW:
		p.opImm32(inst)
	case decode.OpADDW, decode.OpSUBW, decode.OpSLLW, decode.OpSRLW, decode.OpSRAW:
		p.opReg32(inst)

	case decode.OpFENCE:
		// no-op

	case decode.OpECALL:
		cause := uint64(11)
		if p.privilege == csrfile.User {
			cause = 8
		}
		p.trap(cause, 0)
		return true
	case decode.OpEBREAK:
		p.trap(3, p.pc)
		return true
	case decode.OpMRET:
		if p.privilege != csrfile.Machine {
			p.illegal(word)
			return true
		}
		newPC, newPrivilege := p.csr.MRET()
		p.pc = newPC
		p.privilege = newPrivilege
		return false

	case decode.OpCSRRW, decode.OpCSRRS, decode.OpCSRRC,
		decode.OpCSRRWI, decode.OpCSRRSI, decode.OpCSRRCI:
		return p.csrOp(word, inst)

	default:
		p.illegal(word)
		return true
	}

	p.pc += 4
	return false
}
