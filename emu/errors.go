package emu

import (
	"errors"
	"fmt"
)

// ErrMaxInstructions is returned when the instruction budget set with
// WithMaxInstructions is exhausted before the program halts.
var ErrMaxInstructions = errors.New("max instructions reached")

// UnimplementedError reports a three-register instruction whose function
// selector is not assigned. The emulator stops with the PC still pointing
// at the offending word.
type UnimplementedError struct {
	PC   uint16
	Word uint16
	Func uint16
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("unimplemented function %d (word 0x%04X) at PC=%d",
		e.Func, e.Word, e.PC)
}
