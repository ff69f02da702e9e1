package asm

import (
	"errors"

	"github.com/KevinMGranger/riscv-harmony/translate"
)

var f = translate.From

var (
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrWordSyntax      = errors.New(f(".word syntax"))
	ErrOperandCount    = errors.New(f("operand count"))
	ErrBranchOffsetOdd = errors.New(f("branch offset is odd"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("'%v' is not an instruction", string(err))
}

type ErrRegisterUnknown string

func (err ErrRegisterUnknown) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrImmediateRange struct {
	Word string
	Bits int
}

func (err ErrImmediateRange) Error() string {
	return f("'%v' does not fit in %v bits", err.Word, err.Bits)
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
