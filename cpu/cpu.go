package cpu

import (
	"fmt"
	"strings"
)

// NREGS is the number of general-purpose registers.
const NREGS = 32

// Processor is the architectural state of one hart: the general-purpose
// register file and the program counter. The zero value is a processor
// in its reset state.
type Processor struct {
	regs [NREGS]uint32
	pc   uint32
}

// NewProcessor creates a zero-initialized processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Get reads a general-purpose register. Register 0 always reads zero.
// The register index is produced by the decoder and is not re-validated.
func (cpu *Processor) Get(reg uint32) uint32 {
	if reg == 0 {
		return 0
	}

	return cpu.regs[reg]
}

// Set writes a general-purpose register. Writes to register 0 are
// discarded.
func (cpu *Processor) Set(reg uint32, value uint32) {
	if reg == 0 {
		return
	}

	cpu.regs[reg] = value
}

// PC returns the program counter.
func (cpu *Processor) PC() uint32 {
	return cpu.pc
}

// SetPC sets the program counter.
func (cpu *Processor) SetPC(value uint32) {
	cpu.pc = value
}

// Reset zeroes the register file and the program counter.
func (cpu *Processor) Reset() {
	clear(cpu.regs[:])
	cpu.pc = 0
}

// String returns the current register state, four registers per row.
func (cpu *Processor) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "  pc: %08x\n", cpu.pc)
	for reg := uint32(0); reg < NREGS; reg++ {
		fmt.Fprintf(&sb, " x%-2d: %08x", reg, cpu.Get(reg))
		if reg%4 == 3 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// unsignedSignedAdd adds a signed 32-bit offset to an unsigned 32-bit
// base with wraparound. A negative offset has its magnitude promoted to
// 64 bits before negation so that the most negative value does not
// overflow. Every branch and jump target computation goes through here.
func unsignedSignedAdd(left uint32, right int32) uint32 {
	if right < 0 {
		return left - uint32(-int64(right))
	}

	return left + uint32(right)
}

// SignExtend12 replicates bit 11 of a 12-bit immediate into the upper
// bits of a 32-bit container, preserving its signed magnitude.
func SignExtend12(imm uint32) uint32 {
	signed := int32(imm)
	return uint32(signed | (-((signed >> 11) & 1) << 11))
}
