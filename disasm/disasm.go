// Package disasm formats decoded RV64I instructions as assembler text for
// the REPL's "disasm" command. It is pure formatting: it never influences
// execution and never re-derives semantics already decided by decode.
package disasm

import (
	"fmt"

	"github.com/archsim/rv64sim/decode"
)

var regNames = [...]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func reg(i uint32) string {
	if int(i) < len(regNames) {
		return regNames[i]
	}
	return fmt.Sprintf("x%d", i)
}

// Format renders the instruction at addr as a single line of assembler
// text, e.g. "0000000000001000  addi a0, zero, 1".
func Format(addr uint64, inst decode.Instruction) string {
	return fmt.Sprintf("%016x  %s", addr, Mnemonic(inst))
}

// Mnemonic renders just the operation and operands, without the address
// prefix, for use in contexts that already show the address.
func Mnemonic(inst decode.Instruction) string {
	switch inst.Op {
	case decode.OpInvalid:
		return fmt.Sprintf(".word 0x%08x", inst.Raw)

	case decode.OpLUI:
		return fmt.Sprintf("lui %s, 0x%x", reg(inst.Rd), uint64(inst.Imm)>>12)
	case decode.OpAUIPC:
		return fmt.Sprintf("auipc %s, 0x%x", reg(inst.Rd), uint64(inst.Imm)>>12)

	case decode.OpJAL:
		return fmt.Sprintf("jal %s, %d", reg(inst.Rd), inst.Imm)
	case decode.OpJALR:
		return fmt.Sprintf("jalr %s, %d(%s)", reg(inst.Rd), inst.Imm, reg(inst.Rs1))

	case decode.OpBEQ, decode.OpBNE, decode.OpBLT, decode.OpBGE, decode.OpBLTU, decode.OpBGEU:
		return fmt.Sprintf("%s %s, %s, %d", inst.Op, reg(inst.Rs1), reg(inst.Rs2), inst.Imm)

	case decode.OpLB, decode.OpLH, decode.OpLW, decode.OpLD, decode.OpLBU, decode.OpLHU, decode.OpLWU:
		return fmt.Sprintf("%s %s, %d(%s)", inst.Op, reg(inst.Rd), inst.Imm, reg(inst.Rs1))
	case decode.OpSB, decode.OpSH, decode.OpSW, decode.OpSD:
		return fmt.Sprintf("%s %s, %d(%s)", inst.Op, reg(inst.Rs2), inst.Imm, reg(inst.Rs1))

	case decode.OpSLLI, decode.OpSRLI, decode.OpSRAI, decode.OpSLLIW, decode.OpSRLIW, decode.OpSRAIW:
		return fmt.Sprintf("%s %s, %s, %d", inst.Op, reg(inst.Rd), reg(inst.Rs1), inst.Shamt)

	case decode.OpADDI, decode.OpSLTI, decode.OpSLTIU, decode.OpXORI, decode.OpORI, decode.OpANDI, decode.OpADDIW:
		return fmt.Sprintf("%s %s, %s, %d", inst.Op, reg(inst.Rd), reg(inst.Rs1), inst.Imm)

	case decode.OpADD, decode.OpSUB, decode.OpSLL, decode.OpSLT, decode.OpSLTU, decode.OpXOR,
		decode.OpSRL, decode.OpSRA, decode.OpOR, decode.OpAND,
		decode.OpADDW, decode.OpSUBW, decode.OpSLLW, decode.OpSRLW, decode.OpSRAW:
		return fmt.Sprintf("%s %s, %s, %s", inst.Op, reg(inst.Rd), reg(inst.Rs1), reg(inst.Rs2))

	case decode.OpFENCE:
		return "fence"

	case decode.OpECALL:
		return "ecall"
	case decode.OpEBREAK:
		return "ebreak"
	case decode.OpMRET:
		return "mret"

	case decode.OpCSRRW, decode.OpCSRRS, decode.OpCSRRC:
		return fmt.Sprintf("%s %s, 0x%x, %s", inst.Op, reg(inst.Rd), inst.CSR, reg(inst.Rs1))
	case decode.OpCSRRWI, decode.OpCSRRSI, decode.OpCSRRCI:
		return fmt.Sprintf("%s %s, 0x%x, %d", inst.Op, reg(inst.Rd), inst.CSR, inst.Imm)

	default:
		return fmt.Sprintf(".word 0x%08x", inst.Raw)
	}
}
