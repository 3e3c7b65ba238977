package cpu

import "github.com/archsim/rv64sim/decode"

// branchTaken evaluates a BRANCH-opcode instruction's condition. BLT/BGE
// compare as signed 64-bit values; BLTU/BGEU compare as unsigned.
func (p *Processor) branchTaken(inst decode.Instruction) bool {
	rs1 := p.regs[inst.Rs1]
	rs2 := p.regs[inst.Rs2]

	switch inst.Op {
	case decode.OpBEQ:
		return rs1 == rs2
	case decode.OpBNE:
		return rs1 != rs2
	case decode.OpBLT:
		return int64(rs1) < int64(rs2)
	case decode.OpBGE:
		return int64(rs1) >= int64(rs2)
	case decode.OpBLTU:
		return rs1 < rs2
	case decode.OpBGEU:
		return rs1 >= rs2
	default:
		return false
	}
}
