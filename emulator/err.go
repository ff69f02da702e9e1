package emulator

import (
	"errors"

	"github.com/KevinMGranger/riscv-harmony/translate"
)

var f = translate.From

var (
	ErrStepLimit    = errors.New(f("step limit exceeded"))
	ErrEcallUnknown = errors.New(f("unknown host call"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	PC  uint32
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc %08x: %v", err.PC, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
