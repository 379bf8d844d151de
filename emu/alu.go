// Package emu provides functional E20 emulation.
package emu

// ALU implements E20 arithmetic, logic, and comparison operations.
// All arithmetic wraps modulo 2^16.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs $rd = $rs + $rt.
func (a *ALU) ADD(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)+a.regFile.ReadReg(rt))
}

// SUB performs $rd = $rs - $rt.
func (a *ALU) SUB(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)-a.regFile.ReadReg(rt))
}

// OR performs $rd = $rs | $rt.
func (a *ALU) OR(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)|a.regFile.ReadReg(rt))
}

// AND performs $rd = $rs & $rt.
func (a *ALU) AND(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)&a.regFile.ReadReg(rt))
}

// SLT sets $rd to 1 if $rs < $rt as unsigned values, else 0.
func (a *ALU) SLT(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, lessThan(a.regFile.ReadReg(rs), a.regFile.ReadReg(rt)))
}

// ADDI performs $rt = $rs + imm, where imm is already sign-extended.
func (a *ALU) ADDI(rt, rs uint8, imm uint16) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)+imm)
}

// SLTI sets $rt to 1 if $rs < imm, comparing the sign-extended immediate
// as an unsigned 16-bit value.
func (a *ALU) SLTI(rt, rs uint8, imm uint16) {
	a.regFile.WriteReg(rt, lessThan(a.regFile.ReadReg(rs), imm))
}

func lessThan(x, y uint16) uint16 {
	if x < y {
		return 1
	}
	return 0
}
