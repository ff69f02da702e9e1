package asm

import (
	"iter"

	"github.com/KevinMGranger/riscv-harmony/isa"
)

// Statement is the result of assembling one source line: the machine
// instructions it expanded to, or raw data words for .word.
type Statement struct {
	LineNo int
	Addr   uint32
	Words  []string

	Insts []isa.Instruction
	Data  []uint32

	LinkLabel string // Unresolved branch or jump target.
}

// size returns the statement's footprint in bytes.
func (stmt *Statement) size() uint32 {
	return 4 * uint32(len(stmt.Insts)+len(stmt.Data))
}

type Program struct {
	Origin     uint32
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug locates the statement covering an address.
func (prog *Program) Debug(addr uint32) (dbg Debug) {
	for n, stmt := range prog.Statements {
		if addr >= stmt.Addr && addr < stmt.Addr+stmt.size() {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(addr-stmt.Addr) / 4,
			}
			break
		}
	}

	return
}

// Codes iterates the program's machine words with their addresses.
func (prog *Program) Codes() iter.Seq2[uint32, uint32] {
	return func(yield func(addr uint32, word uint32) bool) {
		for _, stmt := range prog.Statements {
			addr := stmt.Addr
			for _, inst := range stmt.Insts {
				if !yield(addr, isa.Encode(inst)) {
					return
				}
				addr += 4
			}
			for _, word := range stmt.Data {
				if !yield(addr, word) {
					return
				}
				addr += 4
			}
		}
	}
}

// Binary returns the program's machine words in address order.
func (prog *Program) Binary() (bins []uint32) {
	for _, word := range prog.Codes() {
		bins = append(bins, word)
	}

	return
}

// Bytes returns the program as a little-endian byte image, suitable for
// loading at Origin.
func (prog *Program) Bytes() (image []byte) {
	for _, word := range prog.Binary() {
		image = append(image,
			byte(word), byte(word>>8), byte(word>>16), byte(word>>24))
	}

	return
}
