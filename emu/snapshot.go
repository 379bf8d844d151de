package emu

// SnapshotWords is the number of memory words included in a final-state
// snapshot.
const SnapshotWords = 128

// Snapshot is a copy of the architectural state.
type Snapshot struct {
	PC     uint16
	Regs   [NumRegs]uint16
	Memory []uint16
}

// Snapshot captures the PC, all registers, and the first words of memory.
func (e *Emulator) Snapshot(words int) Snapshot {
	return Snapshot{
		PC:     e.regFile.PC,
		Regs:   e.regFile.Regs(),
		Memory: e.memory.Dump(words),
	}
}
