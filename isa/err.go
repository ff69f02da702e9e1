package isa

import (
	"errors"

	"github.com/KevinMGranger/riscv-harmony/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrOpcodeUnknown = errors.New(f("unknown opcode"))
	ErrFunctUnknown  = errors.New(f("unknown funct encoding"))
)

// ErrIllegal wraps a decode failure with the offending instruction word.
type ErrIllegal struct {
	Word uint32
	Err  error
}

func (err *ErrIllegal) Error() string {
	return f("illegal instruction %#08x: %v", err.Word, err.Err)
}

func (err *ErrIllegal) Unwrap() error {
	return err.Err
}
