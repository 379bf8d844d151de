// Package insts provides E20 instruction definitions and decoding.
//
// This package implements decoding of 16-bit E20 machine words into
// structured instruction representations. It supports:
//   - Three-register instructions: ADD, SUB, OR, AND, SLT, JR
//   - Two-register immediate instructions: ADDI, SLTI, LW, SW, JEQ
//   - Jump instructions with a 13-bit absolute target: J, JAL
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x2085) // addi $1, $0, 5
//	fmt.Printf("Op: %v, A: %d, B: %d, Imm: %d\n", inst.Op, inst.RegA, inst.RegB, inst.Imm)
package insts
