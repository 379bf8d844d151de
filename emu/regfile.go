// Package emu provides functional E20 emulation.
package emu

// NumRegs is the number of general-purpose registers.
const NumRegs = 8

// RegFile represents the E20 register file.
// It contains 8 general-purpose registers ($0-$7) and the program counter.
type RegFile struct {
	// R holds general-purpose registers $0-$7.
	// R[0] is the zero register which always reads as 0.
	R [NumRegs]uint16

	// PC is the program counter. It holds a raw 16-bit value; only
	// instruction fetch reduces it modulo the memory size.
	PC uint16
}

// ReadReg reads a register value. Register 0 returns 0.
func (r *RegFile) ReadReg(reg uint8) uint16 {
	reg &= NumRegs - 1
	if reg == 0 {
		return 0
	}
	return r.R[reg]
}

// WriteReg writes a value to a register. Writes to register 0 are
// discarded.
func (r *RegFile) WriteReg(reg uint8, value uint16) {
	r.R[reg&(NumRegs-1)] = value
	r.R[0] = 0
}

// Regs returns a copy of all register values.
func (r *RegFile) Regs() [NumRegs]uint16 {
	regs := r.R
	regs[0] = 0
	return regs
}
