package cpu

import "github.com/archsim/rv64sim/decode"

// load implements LB/LH/LW/LD/LBU/LHU/LWU. It returns true if the access
// trapped on misalignment (cause 4), in which case pc has already been
// redirected to the trap vector.
func (p *Processor) load(inst decode.Instruction) (trapped bool) {
	addr := p.regs[inst.Rs1] + uint64(inst.Imm)

	var value uint64
	switch inst.Op {
	case decode.OpLB:
		value = uint64(int64(int8(p.mem.Read8(addr))))
	case decode.OpLBU:
		value = uint64(p.mem.Read8(addr))
	case decode.OpLH:
		if addr%2 != 0 {
			p.trap(4, addr)
			return true
		}
		value = uint64(int64(int16(p.mem.Read16(addr))))
	case decode.OpLHU:
		if addr%2 != 0 {
			p.trap(4, addr)
			return true
		}
		value = uint64(p.mem.Read16(addr))
	case decode.OpLW:
		if addr%4 != 0 {
			p.trap(4, addr)
			return true
		}
		value = signExtend32(p.mem.Read32(addr))
	case decode.OpLWU:
		if addr%4 != 0 {
			p.trap(4, addr)
			return true
		}
		value = uint64(p.mem.Read32(addr))
	case decode.OpLD:
		if addr%8 != 0 {
			p.trap(4, addr)
			return true
		}
		value = p.mem.Read64(addr)
	}

	p.setReg(inst.Rd, value)
	p.pc += 4
	return false
}

// store implements SB/SH/SW/SD. It returns true if the access trapped on
// misalignment (cause 6).
func (p *Processor) store(inst decode.Instruction) (trapped bool) {
	addr := p.regs[inst.Rs1] + uint64(inst.Imm)
	value := p.regs[inst.Rs2]

	switch inst.Op {
	case decode.OpSB:
		p.mem.Write8(addr, uint8(value))
	case decode.OpSH:
		if addr%2 != 0 {
			p.trap(6, addr)
			return true
		}
		p.mem.Write16(addr, uint16(value))
	case decode.OpSW:
		if addr%4 != 0 {
			p.trap(6, addr)
			return true
		}
		p.mem.Write32(addr, uint32(value))
	case decode.OpSD:
		if addr%8 != 0 {
			p.trap(6, addr)
			return true
		}
		p.mem.Write64(addr, value)
	}

	p.pc += 4
	return false
}
