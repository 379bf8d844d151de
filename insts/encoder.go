package insts

import "fmt"

// Range of the signed 7-bit immediate field.
const (
	MinImm7 = -64
	MaxImm7 = 63
)

// EncodeThreeReg encodes an opcode-0 instruction: regC = regA func regB.
func EncodeThreeReg(fn uint16, regC, regA, regB uint8) uint16 {
	return OpcodeThreeReg<<13 |
		uint16(regA&0x7)<<10 |
		uint16(regB&0x7)<<7 |
		uint16(regC&0x7)<<4 |
		fn&0xF
}

// EncodeTwoRegImm encodes an immediate-group instruction. It panics if imm
// is outside MinImm7..MaxImm7.
func EncodeTwoRegImm(opcode uint16, regA, regB uint8, imm int16) uint16 {
	if imm < MinImm7 || imm > MaxImm7 {
		panic(fmt.Sprintf("immediate %d does not fit in 7 signed bits", imm))
	}

	return (opcode&0x7)<<13 |
		uint16(regA&0x7)<<10 |
		uint16(regB&0x7)<<7 |
		uint16(imm)&0x7F
}

// EncodeJump encodes a j or jal with a 13-bit absolute target.
func EncodeJump(opcode uint16, target uint16) uint16 {
	return (opcode&0x7)<<13 | target&0x1FFF
}

// EncodeADD encodes add $rd, $rs, $rt.
func EncodeADD(rd, rs, rt uint8) uint16 { return EncodeThreeReg(FuncADD, rd, rs, rt) }

// EncodeSUB encodes sub $rd, $rs, $rt.
func EncodeSUB(rd, rs, rt uint8) uint16 { return EncodeThreeReg(FuncSUB, rd, rs, rt) }

// EncodeOR encodes or $rd, $rs, $rt.
func EncodeOR(rd, rs, rt uint8) uint16 { return EncodeThreeReg(FuncOR, rd, rs, rt) }

// EncodeAND encodes and $rd, $rs, $rt.
func EncodeAND(rd, rs, rt uint8) uint16 { return EncodeThreeReg(FuncAND, rd, rs, rt) }

// EncodeSLT encodes slt $rd, $rs, $rt.
func EncodeSLT(rd, rs, rt uint8) uint16 { return EncodeThreeReg(FuncSLT, rd, rs, rt) }

// EncodeJR encodes jr $rs.
func EncodeJR(rs uint8) uint16 { return EncodeThreeReg(FuncJR, 0, rs, 0) }

// EncodeADDI encodes addi $rt, $rs, imm.
func EncodeADDI(rt, rs uint8, imm int16) uint16 { return EncodeTwoRegImm(OpcodeADDI, rs, rt, imm) }

// EncodeSLTI encodes slti $rt, $rs, imm.
func EncodeSLTI(rt, rs uint8, imm int16) uint16 { return EncodeTwoRegImm(OpcodeSLTI, rs, rt, imm) }

// EncodeLW encodes lw $rt, imm($rs).
func EncodeLW(rt, rs uint8, imm int16) uint16 { return EncodeTwoRegImm(OpcodeLW, rs, rt, imm) }

// EncodeSW encodes sw $rt, imm($rs).
func EncodeSW(rt, rs uint8, imm int16) uint16 { return EncodeTwoRegImm(OpcodeSW, rs, rt, imm) }

// EncodeJEQ encodes jeq $rs, $rt, rel where rel is relative to the next
// instruction.
func EncodeJEQ(rs, rt uint8, rel int16) uint16 { return EncodeTwoRegImm(OpcodeJEQ, rs, rt, rel) }

// EncodeJ encodes j target.
func EncodeJ(target uint16) uint16 { return EncodeJump(OpcodeJ, target) }

// EncodeJAL encodes jal target.
func EncodeJAL(target uint16) uint16 { return EncodeJump(OpcodeJAL, target) }

// EncodeHalt encodes the conventional halt: a jump to its own address.
func EncodeHalt(addr uint16) uint16 { return EncodeJ(addr) }
