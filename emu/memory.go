package emu

// MemSize is the number of 16-bit words of addressable memory.
const MemSize = 1 << 13

// addrMask reduces any 16-bit value to a memory index.
const addrMask = MemSize - 1

// Memory is the E20 word-addressed main memory. Every access reduces its
// address modulo MemSize, so no address is ever out of range.
type Memory struct {
	words [MemSize]uint16
}

// NewMemory creates a zero-filled memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Read returns the word at addr mod MemSize.
func (m *Memory) Read(addr uint16) uint16 {
	return m.words[addr&addrMask]
}

// Write stores value at addr mod MemSize.
func (m *Memory) Write(addr uint16, value uint16) {
	m.words[addr&addrMask] = value
}

// LoadProgram copies words into memory starting at base, wrapping at the
// end of memory.
func (m *Memory) LoadProgram(base uint16, words []uint16) {
	for i, w := range words {
		m.Write(base+uint16(i), w)
	}
}

// Dump returns a copy of the first n words. n is clamped to MemSize.
func (m *Memory) Dump(n int) []uint16 {
	if n > MemSize {
		n = MemSize
	}
	if n < 0 {
		n = 0
	}
	out := make([]uint16, n)
	copy(out, m.words[:n])
	return out
}
