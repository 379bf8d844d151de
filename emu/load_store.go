// Package emu provides functional E20 emulation.
package emu

// LoadStoreUnit implements E20 load and store operations.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// EffectiveAddress computes ($rs + imm) mod MemSize.
func (lsu *LoadStoreUnit) EffectiveAddress(rs uint8, imm uint16) uint16 {
	return (lsu.regFile.ReadReg(rs) + imm) & addrMask
}

// LW performs $rt = mem[addr].
func (lsu *LoadStoreUnit) LW(rt uint8, addr uint16) {
	lsu.regFile.WriteReg(rt, lsu.memory.Read(addr))
}

// SW performs mem[addr] = $rt.
func (lsu *LoadStoreUnit) SW(rt uint8, addr uint16) {
	lsu.memory.Write(addr, lsu.regFile.ReadReg(rt))
}
