package insts

import "fmt"

// String disassembles the instruction. Relative and memory offsets are
// printed signed.
func (i *Instruction) String() string {
	simm := int16(i.Imm)

	switch i.Op {
	case OpADD, OpSUB, OpOR, OpAND, OpSLT:
		return fmt.Sprintf("%s $%d, $%d, $%d", i.Op, i.RegC, i.RegA, i.RegB)
	case OpJR:
		return fmt.Sprintf("jr $%d", i.RegA)
	case OpADDI, OpSLTI:
		return fmt.Sprintf("%s $%d, $%d, %d", i.Op, i.RegB, i.RegA, simm)
	case OpLW, OpSW:
		return fmt.Sprintf("%s $%d, %d($%d)", i.Op, i.RegB, simm, i.RegA)
	case OpJEQ:
		return fmt.Sprintf("jeq $%d, $%d, %d", i.RegA, i.RegB, simm)
	case OpJ, OpJAL:
		return fmt.Sprintf("%s %d", i.Op, i.Target)
	default:
		return fmt.Sprintf(".fill %d", i.Word)
	}
}
