// Package emu provides functional E20 emulation.
package emu

import (
	"fmt"
	"io"

	"github.com/sarchlab/e20sim/insts"
)

// AccessKind distinguishes loads from stores.
type AccessKind uint8

// Memory access kinds.
const (
	AccessLoad AccessKind = iota
	AccessStore
)

func (k AccessKind) String() string {
	if k == AccessStore {
		return "store"
	}
	return "load"
}

// Access describes one data memory access made by lw or sw.
type Access struct {
	// PC is the memory index the accessing instruction was fetched from.
	PC uint16
	// Addr is the effective word address, already reduced mod MemSize.
	Addr uint16
	Kind AccessKind
}

// A MemoryObserver is told about every data access before it is
// performed. Observers cannot change the access.
type MemoryObserver interface {
	ObserveAccess(access Access)
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the program reached its self-jump.
	Halted bool

	// Err is set if the instruction could not be executed.
	Err error
}

// Emulator executes E20 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	observers []MemoryObserver
	trace     io.Writer

	// Execution state
	halted           bool
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMemoryObserver registers an observer for data memory accesses.
// Observers are called in registration order.
func WithMemoryObserver(o MemoryObserver) EmulatorOption {
	return func(e *Emulator) {
		e.observers = append(e.observers, o)
	}
}

// WithInstructionTrace writes one disassembled line per executed
// instruction to w.
func WithInstructionTrace(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.trace = w
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new E20 emulator with zeroed registers and memory.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		decoder: insts.NewDecoder(),
	}
	e.attach(&RegFile{}, NewMemory())

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Emulator) attach(regFile *RegFile, memory *Memory) {
	e.regFile = regFile
	e.memory = memory
	e.alu = NewALU(regFile)
	e.lsu = NewLoadStoreUnit(regFile, memory)
	e.branchUnit = NewBranchUnit(regFile)
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Halted reports whether the program has reached its halt instruction.
func (e *Emulator) Halted() bool {
	return e.halted
}

// LoadProgram writes a memory image starting at address 0 and resets the
// PC to 0.
func (e *Emulator) LoadProgram(program []uint16) {
	e.memory.LoadProgram(0, program)
	e.regFile.PC = 0
	e.halted = false
}

// Reset clears registers, memory, and execution state. Options are kept.
func (e *Emulator) Reset() {
	e.attach(&RegFile{}, NewMemory())
	e.halted = false
	e.instructionCount = 0
}

// Step executes a single instruction. Stepping a halted emulator is a
// no-op that reports Halted again.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true}
	}

	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	// 1. Fetch
	index := e.regFile.PC & addrMask
	word := e.memory.Read(index)

	// 2. Decode
	inst := e.decoder.Decode(word)

	// 3. Execute
	result := e.execute(inst, index)
	if result.Err != nil {
		return result
	}

	e.regFile.R[0] = 0
	e.instructionCount++

	if e.trace != nil {
		_, _ = fmt.Fprintf(e.trace, "%5d: %04x  %s\n", index, word, inst)
	}

	if result.Halted {
		e.halted = true
	}

	return result
}

// Run executes instructions until the program halts or an error occurs.
// It returns nil on halt.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Halted {
			return nil
		}
		if result.Err != nil {
			return result.Err
		}
	}
}

// execute dispatches and executes a decoded instruction. index is the
// memory index the instruction was fetched from.
func (e *Emulator) execute(inst *insts.Instruction, index uint16) StepResult {
	switch inst.Op {
	case insts.OpADD:
		e.alu.ADD(inst.RegC, inst.RegA, inst.RegB)
	case insts.OpSUB:
		e.alu.SUB(inst.RegC, inst.RegA, inst.RegB)
	case insts.OpOR:
		e.alu.OR(inst.RegC, inst.RegA, inst.RegB)
	case insts.OpAND:
		e.alu.AND(inst.RegC, inst.RegA, inst.RegB)
	case insts.OpSLT:
		e.alu.SLT(inst.RegC, inst.RegA, inst.RegB)
	case insts.OpJR:
		e.branchUnit.JR(inst.RegA)
		return StepResult{} // PC already updated
	case insts.OpADDI:
		e.alu.ADDI(inst.RegB, inst.RegA, inst.Imm)
	case insts.OpSLTI:
		e.alu.SLTI(inst.RegB, inst.RegA, inst.Imm)
	case insts.OpJ:
		return StepResult{Halted: e.branchUnit.J(inst.Target)}
	case insts.OpJAL:
		e.branchUnit.JAL(inst.Target)
		return StepResult{}
	case insts.OpJEQ:
		e.branchUnit.JEQ(inst.RegA, inst.RegB, inst.Imm)
		return StepResult{}
	case insts.OpLW:
		addr := e.lsu.EffectiveAddress(inst.RegA, inst.Imm)
		e.notify(Access{PC: index, Addr: addr, Kind: AccessLoad})
		e.lsu.LW(inst.RegB, addr)
	case insts.OpSW:
		addr := e.lsu.EffectiveAddress(inst.RegA, inst.Imm)
		e.notify(Access{PC: index, Addr: addr, Kind: AccessStore})
		e.lsu.SW(inst.RegB, addr)
	default:
		return StepResult{
			Err: &UnimplementedError{PC: e.regFile.PC, Word: inst.Word, Func: inst.Func},
		}
	}

	// Advance PC by one word (for non-branch instructions)
	e.regFile.PC++

	return StepResult{}
}

func (e *Emulator) notify(access Access) {
	for _, o := range e.observers {
		o.ObserveAccess(access)
	}
}
