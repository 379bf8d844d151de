// Package insts provides E20 instruction definitions and decoding.
package insts

// Op represents an E20 operation.
type Op uint8

// E20 operations.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpOR
	OpAND
	OpSLT
	OpJR
	OpADDI
	OpJ
	OpJAL
	OpLW
	OpSW
	OpJEQ
	OpSLTI
)

var opNames = map[Op]string{
	OpUnknown: "unknown",
	OpADD:     "add",
	OpSUB:     "sub",
	OpOR:      "or",
	OpAND:     "and",
	OpSLT:     "slt",
	OpJR:      "jr",
	OpADDI:    "addi",
	OpJ:       "j",
	OpJAL:     "jal",
	OpLW:      "lw",
	OpSW:      "sw",
	OpJEQ:     "jeq",
	OpSLTI:    "slti",
}

// String returns the assembler mnemonic of the operation.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatThreeReg       // opcode 0: three registers and a function selector
	FormatTwoRegImm      // addi, lw, sw, jeq, slti: two registers and imm7
	FormatJump           // j, jal: 13-bit absolute target
)

// Primary opcodes held in bits [15:13].
const (
	OpcodeThreeReg uint16 = 0b000
	OpcodeADDI     uint16 = 0b001
	OpcodeJ        uint16 = 0b010
	OpcodeJAL      uint16 = 0b011
	OpcodeLW       uint16 = 0b100
	OpcodeSW       uint16 = 0b101
	OpcodeJEQ      uint16 = 0b110
	OpcodeSLTI     uint16 = 0b111
)

// Function selectors held in bits [3:0] of three-register instructions.
const (
	FuncADD uint16 = 0b0000
	FuncSUB uint16 = 0b0001
	FuncOR  uint16 = 0b0010
	FuncAND uint16 = 0b0011
	FuncSLT uint16 = 0b0100
	FuncJR  uint16 = 0b1000
)

// Instruction represents a decoded E20 instruction.
type Instruction struct {
	Word   uint16 // Raw machine word
	Op     Op     // Operation
	Format Format // Encoding format
	Opcode uint16 // bits [15:13]

	// Register fields. Three-register instructions compute
	// RegC = RegA op RegB; two-register instructions use RegA as the
	// source and RegB as the target.
	RegA uint8 // bits [12:10]
	RegB uint8 // bits [9:7]
	RegC uint8 // bits [6:4]

	Func uint16 // bits [3:0], three-register instructions only

	Imm7   uint16 // bits [6:0], raw
	Imm    uint16 // bits [6:0], sign-extended to 16 bits
	Target uint16 // bits [12:0], jump target
}

// SignExtend7 sign-extends a 7-bit field to 16 bits.
func SignExtend7(imm7 uint16) uint16 {
	imm7 &= 0x7F
	if imm7&0x40 != 0 {
		return imm7 | 0xFF80
	}
	return imm7
}

// Decoder decodes E20 machine words into instructions.
type Decoder struct{}

// NewDecoder creates a new E20 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit E20 instruction word. Every word decodes; words
// in the three-register group with an unassigned function selector decode
// to OpUnknown.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{
		Word:   word,
		Op:     OpUnknown,
		Format: FormatUnknown,
		Opcode: word >> 13,
		RegA:   uint8((word >> 10) & 0x7),
		RegB:   uint8((word >> 7) & 0x7),
		RegC:   uint8((word >> 4) & 0x7),
		Func:   word & 0xF,
		Imm7:   word & 0x7F,
		Target: word & 0x1FFF,
	}
	inst.Imm = SignExtend7(inst.Imm7)

	switch inst.Opcode {
	case OpcodeThreeReg:
		d.decodeThreeReg(inst)
	case OpcodeJ:
		inst.Format = FormatJump
		inst.Op = OpJ
	case OpcodeJAL:
		inst.Format = FormatJump
		inst.Op = OpJAL
	default:
		d.decodeTwoRegImm(inst)
	}

	return inst
}

// decodeThreeReg decodes opcode 0 by its function selector.
// Format: 000 | regA | regB | regC | func
func (d *Decoder) decodeThreeReg(inst *Instruction) {
	inst.Format = FormatThreeReg

	switch inst.Func {
	case FuncADD:
		inst.Op = OpADD
	case FuncSUB:
		inst.Op = OpSUB
	case FuncOR:
		inst.Op = OpOR
	case FuncAND:
		inst.Op = OpAND
	case FuncSLT:
		inst.Op = OpSLT
	case FuncJR:
		inst.Op = OpJR
	default:
		inst.Op = OpUnknown
	}
}

// decodeTwoRegImm decodes the immediate-operand group.
// Format: opcode | regA | regB | imm7
func (d *Decoder) decodeTwoRegImm(inst *Instruction) {
	inst.Format = FormatTwoRegImm

	switch inst.Opcode {
	case OpcodeADDI:
		inst.Op = OpADDI
	case OpcodeLW:
		inst.Op = OpLW
	case OpcodeSW:
		inst.Op = OpSW
	case OpcodeJEQ:
		inst.Op = OpJEQ
	case OpcodeSLTI:
		inst.Op = OpSLTI
	}
}
