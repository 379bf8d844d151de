// Package emu provides functional E20 emulation.
package emu

// BranchUnit implements E20 control transfer operations.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// J jumps to the 13-bit absolute target. It reports whether the jump
// targets its own address, which is the E20 halt convention.
func (b *BranchUnit) J(target uint16) (halt bool) {
	halt = b.regFile.PC == target
	b.regFile.PC = target
	return halt
}

// JAL saves the return address (PC + 1) in $7 and jumps to target.
func (b *BranchUnit) JAL(target uint16) {
	b.regFile.WriteReg(7, b.regFile.PC+1)
	b.regFile.PC = target
}

// JR jumps to the raw value held in $rs.
func (b *BranchUnit) JR(rs uint8) {
	b.regFile.PC = b.regFile.ReadReg(rs)
}

// JEQ branches to PC + 1 + rel when $rs equals $rt; otherwise it falls
// through to PC + 1. rel is already sign-extended.
func (b *BranchUnit) JEQ(rs, rt uint8, rel uint16) {
	next := b.regFile.PC + 1
	if b.regFile.ReadReg(rs) == b.regFile.ReadReg(rt) {
		next += rel
	}
	b.regFile.PC = next
}
